// Package scraper wires the crawl together.
//
// A run has two phases. The listing is walked page by page until the site
// redirects or fails, collecting post URLs. The posts are then handed to a
// fixed-size worker pool; each worker fetches a post page, extracts the
// lazily loaded image links and downloads every image concurrently into a
// folder named after the post, retrying each image immediately until its
// budget is spent.
//
// Usage:
//
//	site, err := models.NewSite("https://site.example/category/gravure/", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	s := scraper.New(site, config.DefaultConfig(), scraper.WithConsole(ui.NewConsole(os.Stdout, false)))
//	summary := s.Download(ctx)
//	fmt.Println(summary.ImagesWritten, "images saved to", summary.OutputDir)
//
// Storage:
//
// Images are written to <output>/<post folder>/<file name>. Existing files
// are overwritten; nothing is skipped on a re-run.
package scraper
