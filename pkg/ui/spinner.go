package ui

import (
	"fmt"
	"time"

	"github.com/briandowns/spinner"
)

// PageSpinner animates listing-page discovery. On a non-terminal console it
// degrades to plain lines.
type PageSpinner struct {
	console *Console
	spin    *spinner.Spinner
	animate bool
}

// NewPageSpinner creates a spinner drawing on the console's output
func NewPageSpinner(console *Console) *PageSpinner {
	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(console.Writer()))
	return &PageSpinner{
		console: console,
		spin:    s,
		animate: console.terminal && !console.Quiet(),
	}
}

// Fetching shows url as the page currently being fetched
func (p *PageSpinner) Fetching(url string) {
	if !p.animate {
		return
	}
	p.spin.Suffix = " fetching " + url
	p.spin.Restart()
}

// Pass stops the animation and prints the fetched page as accepted
func (p *PageSpinner) Pass(url string, posts int) {
	p.stop()
	p.console.println(false, fmt.Sprintf("fetching %s - %s %s",
		url, p.console.success.Render("PASS"), p.console.Faint(fmt.Sprintf("(%d posts)", posts))))
}

// Done stops the animation and prints the page that ended discovery
func (p *PageSpinner) Done(url string) {
	p.stop()
	p.console.println(false, fmt.Sprintf("fetching %s - %s", url, p.console.label.Render("Done")))
}

func (p *PageSpinner) stop() {
	if p.animate && p.spin.Active() {
		p.spin.Stop()
	}
}
