package scraper

// Link is one anchor extracted from a page.
type Link struct {
	URL    string `json:"url"`
	Text   string `json:"text"`
	Title  string `json:"title"`
	Target string `json:"target"`
}

// Image is one img element extracted from a page.
type Image struct {
	Src    string `json:"src"`
	Alt    string `json:"alt"`
	Title  string `json:"title"`
	Width  string `json:"width"`
	Height string `json:"height"`
}

// ScrapingResult is the immutable snapshot of one fetch attempt. Either Error
// is set, or StatusCode is populated along with whatever extraction the
// options requested. Callers own the value; nothing mutates it afterwards.
type ScrapingResult struct {
	URL         string            `json:"url"`
	StatusCode  int               `json:"status_code"`
	Title       string            `json:"title,omitempty"`
	TextContent string            `json:"text_content,omitempty"`
	Links       []Link            `json:"links,omitempty"`
	Images      []Image           `json:"images,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Error       string            `json:"error,omitempty"`
}

// Options selects which extraction passes run. The zero value means
// "everything"; use Default() to make that explicit.
type Options struct {
	ExtractText     bool
	ExtractLinks    bool
	ExtractImages   bool
	ExtractMetadata bool
}

// Default returns options with every extraction enabled.
func Default() Options {
	return Options{
		ExtractText:     true,
		ExtractLinks:    true,
		ExtractImages:   true,
		ExtractMetadata: true,
	}
}
