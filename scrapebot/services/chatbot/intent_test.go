package chatbot

import (
	"reflect"
	"testing"
)

func TestClassifyScrapeBeatsAnalyze(t *testing.T) {
	intent := Classify("scrape https://x.test and analyze it")

	if intent.Action != ActionScrape {
		t.Errorf("action = %q, want scrape", intent.Action)
	}
	if !reflect.DeepEqual(intent.URLs, []string{"https://x.test"}) {
		t.Errorf("urls = %v", intent.URLs)
	}
}

func TestClassifyActions(t *testing.T) {
	cases := []struct {
		message string
		want    Action
	}{
		{"please fetch example.com", ActionScrape},
		{"extract from that page", ActionScrape},
		{"what's the sentiment of the page?", ActionAnalyze},
		{"summarize the content", ActionAnalyze},
		{"show me the links", ActionShowData},
		{"display the images", ActionShowData},
		{"what can you do", ActionHelp},
		{"stats please", ActionStats},
		{"good morning", ActionUnknown},
	}
	for _, tc := range cases {
		if got := Classify(tc.message).Action; got != tc.want {
			t.Errorf("Classify(%q).Action = %q, want %q", tc.message, got, tc.want)
		}
	}
}

func TestClassifyPrecedenceOrder(t *testing.T) {
	// Every earlier group must win over every later one.
	cases := []struct {
		message string
		want    Action
	}{
		{"analyze and show the links", ActionAnalyze},
		{"show data and help me", ActionShowData},
		{"help with session stats", ActionHelp},
	}
	for _, tc := range cases {
		if got := Classify(tc.message).Action; got != tc.want {
			t.Errorf("Classify(%q).Action = %q, want %q", tc.message, got, tc.want)
		}
	}
}

func TestClassifyFlagsIndependentOfAction(t *testing.T) {
	intent := Classify("scrape https://a.test and show the links and images, check the sentiment and summarize")

	if intent.Action != ActionScrape {
		t.Errorf("action = %q", intent.Action)
	}
	if !intent.ShowLinks || !intent.ShowImages {
		t.Error("show flags must be set alongside a scrape action")
	}
	if !intent.AnalyzeSentiment || !intent.GenerateSummary {
		t.Error("analysis flags must be set alongside a scrape action")
	}
}

func TestClassifyMultipleURLsInOrder(t *testing.T) {
	intent := Classify("fetch https://a.test then http://b.test/page")

	want := []string{"https://a.test", "http://b.test/page"}
	if !reflect.DeepEqual(intent.URLs, want) {
		t.Errorf("urls = %v, want %v", intent.URLs, want)
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	if got := Classify("SCRAPE HTTPS://X.TEST").Action; got != ActionScrape {
		t.Errorf("action = %q, want scrape", got)
	}
}
