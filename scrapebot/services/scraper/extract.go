package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ExtractText returns the visible text of a document with script, style and
// noscript content removed and all whitespace runs collapsed to single
// spaces. It walks the node tree directly so the document itself is never
// mutated; extracting twice from the same document yields identical output.
func ExtractText(doc *goquery.Document) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style" || n.Data == "noscript") {
			return
		}
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, root := range doc.Nodes {
		walk(root)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// ExtractLinks returns every anchor with an href. Relative hrefs are resolved
// against baseURL; mailto:, tel: and already-absolute URLs pass through
// untouched.
func ExtractLinks(doc *goquery.Document, baseURL string) []Link {
	base, _ := url.Parse(baseURL)

	var links []Link
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		links = append(links, Link{
			URL:    resolveHref(base, href),
			Text:   strings.TrimSpace(sel.Text()),
			Title:  sel.AttrOr("title", ""),
			Target: sel.AttrOr("target", ""),
		})
	})
	return links
}

// ExtractImages returns every img with a non-empty src. Relative srcs are
// resolved against baseURL; data: URIs pass through untouched.
func ExtractImages(doc *goquery.Document, baseURL string) []Image {
	base, _ := url.Parse(baseURL)

	var images []Image
	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		if src == "" {
			return
		}
		if !strings.HasPrefix(src, "data:") {
			src = resolveHref(base, src)
		}
		images = append(images, Image{
			Src:    src,
			Alt:    sel.AttrOr("alt", ""),
			Title:  sel.AttrOr("title", ""),
			Width:  sel.AttrOr("width", ""),
			Height: sel.AttrOr("height", ""),
		})
	})
	return images
}

// ExtractMetadata collects the page title, meta tags keyed by meta_{name} /
// property_{property}, Open Graph tags additionally keyed og_{suffix}, and
// the canonical link href.
func ExtractMetadata(doc *goquery.Document) map[string]string {
	metadata := make(map[string]string)

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		metadata["title"] = title
	}

	doc.Find("meta").Each(func(_ int, sel *goquery.Selection) {
		name := strings.ToLower(sel.AttrOr("name", ""))
		property := strings.ToLower(sel.AttrOr("property", ""))
		content := sel.AttrOr("content", "")
		if content == "" {
			return
		}
		if name != "" {
			metadata["meta_"+name] = content
		} else if property != "" {
			metadata["property_"+property] = content
		}
		if strings.HasPrefix(property, "og:") {
			metadata["og_"+strings.TrimPrefix(property, "og:")] = content
		}
	})

	if canonical, ok := doc.Find(`link[rel="canonical"]`).First().Attr("href"); ok {
		metadata["canonical_url"] = canonical
	}

	return metadata
}

func resolveHref(base *url.URL, href string) string {
	if base == nil ||
		strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") ||
		strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:") {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
