package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const listingPage = `<!DOCTYPE html>
<html><body>
<nav><a rel="home" href="https://site.example/">Home</a></nav>
<div id="content">
  <article>
    <a rel="bookmark" href="https://site.example/cat/post-one/">Post one</a>
    <a href="https://site.example/cat/post-one/#comments">Comments</a>
  </article>
  <article>
    <a rel="bookmark" href="https://site.example/cat/post-two/"><img src="thumb.jpg"></a>
    <a rel="category tag" href="https://site.example/cat/">Cat</a>
  </article>
  <a rel="next">no href</a>
  <div class="nav-links"><a class="page-numbers" href="https://site.example/page/2/">2</a></div>
</div>
</body></html>`

const postPage = `<html><body>
<div class="entry-content">
  <p><img src="data:image/gif;base64,R0lGOD" data-lazy-src="https://cdn.example/uploads/001.jpg"></p>
  <p><img src="https://cdn.example/uploads/banner.png"></p>
  <figure><img data-lazy-src="https://cdn.example/uploads/002.jpg" class="lazy"></figure>
</div>
<aside><div><img data-lazy-src="https://cdn.example/sidebar.jpg"></div></aside>
</body></html>`

func TestPostLinks(t *testing.T) {
	links := PostLinks([]byte(listingPage))

	assert.Equal(t, []string{
		"https://site.example/cat/post-one/",
		"https://site.example/cat/post-two/",
		"https://site.example/cat/",
	}, links)
}

func TestImageLinks(t *testing.T) {
	links := ImageLinks([]byte(postPage))

	assert.Equal(t, []string{
		"https://cdn.example/uploads/001.jpg",
		"https://cdn.example/uploads/002.jpg",
	}, links)
}

func TestMissingContainerYieldsEmpty(t *testing.T) {
	inputs := []string{
		"",
		"not html at all <<<>>>",
		`<html><body><a rel="bookmark" href="/x/">x</a></body></html>`,
		`<div class="content"><img data-lazy-src="/a.jpg"></div>`,
	}

	for _, in := range inputs {
		assert.Empty(t, PostLinks([]byte(in)), in)
		assert.NotNil(t, PostLinks([]byte(in)), in)
		assert.Empty(t, ImageLinks([]byte(in)), in)
		assert.NotNil(t, ImageLinks([]byte(in)), in)
	}
}

func TestLastContainerWins(t *testing.T) {
	page := `<div class="entry-content"><img data-lazy-src="/first.jpg"></div>
<div class="entry-content"><img data-lazy-src="/second.jpg"></div>`

	assert.Equal(t, []string{"/second.jpg"}, ImageLinks([]byte(page)))
}

func TestEmptyContainer(t *testing.T) {
	assert.Empty(t, PostLinks([]byte(`<div id="content"><p>No posts</p></div>`)))
	assert.Empty(t, ImageLinks([]byte(`<div class="entry-content"></div>`)))
}
