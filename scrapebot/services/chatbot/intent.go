package chatbot

import (
	"regexp"
	"strings"
)

// Action is the routed command class of a user message.
type Action string

const (
	ActionScrape   Action = "scrape"
	ActionAnalyze  Action = "analyze"
	ActionShowData Action = "show_data"
	ActionHelp     Action = "help"
	ActionStats    Action = "stats"
	ActionUnknown  Action = "unknown"
)

// Intent is the transient classification of one message: the action, every
// URL found, and independent parameter flags. Never persisted.
type Intent struct {
	Action           Action
	URLs             []string
	ShowLinks        bool
	ShowImages       bool
	AnalyzeSentiment bool
	GenerateSummary  bool
}

var urlPattern = regexp.MustCompile(`https?://\S+`)

// Keyword groups checked in strict precedence order. The first group with a
// hit wins, which is what routes "scrape X and analyze it" to the scrape
// handler.
var (
	scrapeKeywords   = []string{"scrape", "fetch", "get", "extract from"}
	analyzeKeywords  = []string{"analyze", "analysis", "sentiment", "summary", "summarize"}
	showDataKeywords = []string{"show", "display", "list", "links", "images", "data"}
	helpKeywords     = []string{"help", "commands", "what can you do"}
	statsKeywords    = []string{"stats", "statistics", "session", "summary"}
)

// Classify maps a free-text message to an Intent. Pure function: keyword
// matching is case-insensitive substring search, flags are set independently
// of the action.
func Classify(message string) Intent {
	lower := strings.ToLower(message)

	intent := Intent{
		Action: ActionUnknown,
		URLs:   urlPattern.FindAllString(message, -1),
	}

	switch {
	case containsAny(lower, scrapeKeywords):
		intent.Action = ActionScrape
	case containsAny(lower, analyzeKeywords):
		intent.Action = ActionAnalyze
	case containsAny(lower, showDataKeywords):
		intent.Action = ActionShowData
	case containsAny(lower, helpKeywords):
		intent.Action = ActionHelp
	case containsAny(lower, statsKeywords):
		intent.Action = ActionStats
	}

	intent.ShowLinks = strings.Contains(lower, "links")
	intent.ShowImages = strings.Contains(lower, "images")
	intent.AnalyzeSentiment = containsAny(lower, []string{"sentiment", "feeling", "emotion"})
	intent.GenerateSummary = containsAny(lower, []string{"summary", "summarize", "main points"})

	return intent
}

func containsAny(message string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	return false
}
