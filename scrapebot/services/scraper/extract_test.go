package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse test HTML: %v", err)
	}
	return doc
}

func TestExtractTextStripsScriptsAndCollapsesWhitespace(t *testing.T) {
	doc := parseDoc(t, `<html><head><style>p{color:red}</style></head>
		<body><p>Hello
		world</p><script>var x = 1;</script><noscript>enable js</noscript>
		<p>  again  </p></body></html>`)

	got := ExtractText(doc)
	want := "Hello world again"
	if got != want {
		t.Errorf("ExtractText = %q, want %q", got, want)
	}
}

func TestExtractTextIdempotent(t *testing.T) {
	html := `<html><body><p>a</p><script>x</script><p>b  c</p></body></html>`
	doc := parseDoc(t, html)

	first := ExtractText(doc)
	second := ExtractText(doc)
	if first != second {
		t.Errorf("repeated extraction differs: %q vs %q", first, second)
	}

	other := ExtractText(parseDoc(t, html))
	if first != other {
		t.Errorf("extraction from identical HTML differs: %q vs %q", first, other)
	}
}

func TestExtractLinksResolution(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<a href="/about" title="About" target="_blank">About us</a>
		<a href="https://other.test/page">Other</a>
		<a href="mailto:team@example.com">Mail</a>
		<a href="tel:+1234567890">Call</a>
	</body></html>`)

	links := ExtractLinks(doc, "https://site.test/p/q")
	if len(links) != 4 {
		t.Fatalf("expected 4 links, got %d", len(links))
	}
	if links[0].URL != "https://site.test/about" {
		t.Errorf("relative href not resolved: %q", links[0].URL)
	}
	if links[0].Text != "About us" || links[0].Title != "About" || links[0].Target != "_blank" {
		t.Errorf("link attributes wrong: %+v", links[0])
	}
	if links[1].URL != "https://other.test/page" {
		t.Errorf("absolute href was rewritten: %q", links[1].URL)
	}
	if links[2].URL != "mailto:team@example.com" {
		t.Errorf("mailto href was rewritten: %q", links[2].URL)
	}
	if links[3].URL != "tel:+1234567890" {
		t.Errorf("tel href was rewritten: %q", links[3].URL)
	}
}

func TestExtractImages(t *testing.T) {
	doc := parseDoc(t, `<html><body>
		<img src="b.png" alt="pic" width="10" height="20">
		<img src="data:image/png;base64,AAAA">
		<img alt="no source">
	</body></html>`)

	images := ExtractImages(doc, "https://site.test/p")
	if len(images) != 2 {
		t.Fatalf("expected 2 images, got %d", len(images))
	}
	if images[0].Src != "https://site.test/b.png" {
		t.Errorf("relative src not resolved: %q", images[0].Src)
	}
	if images[0].Alt != "pic" || images[0].Width != "10" || images[0].Height != "20" {
		t.Errorf("image attributes wrong: %+v", images[0])
	}
	if images[1].Src != "data:image/png;base64,AAAA" {
		t.Errorf("data URI was rewritten: %q", images[1].Src)
	}
}

func TestExtractMetadata(t *testing.T) {
	doc := parseDoc(t, `<html><head>
		<title> My Page </title>
		<meta name="Description" content="A page">
		<meta property="og:title" content="OG Title">
		<meta name="empty" content="">
		<link rel="canonical" href="https://site.test/canonical">
	</head><body></body></html>`)

	md := ExtractMetadata(doc)
	if md["title"] != "My Page" {
		t.Errorf("title = %q", md["title"])
	}
	if md["meta_description"] != "A page" {
		t.Errorf("meta_description = %q", md["meta_description"])
	}
	if md["property_og:title"] != "OG Title" {
		t.Errorf("property_og:title = %q", md["property_og:title"])
	}
	if md["og_title"] != "OG Title" {
		t.Errorf("og_title = %q", md["og_title"])
	}
	if md["canonical_url"] != "https://site.test/canonical" {
		t.Errorf("canonical_url = %q", md["canonical_url"])
	}
	if _, ok := md["meta_empty"]; ok {
		t.Error("meta tag with empty content should be skipped")
	}
}
