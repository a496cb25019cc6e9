package mockapi

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"time"
)

// OrganicResult is one ranked result on the results page.
type OrganicResult struct {
	Position    int      `json:"position"`
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
}

type FeaturedSnippet struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Source  string `json:"source"`
}

type KnowledgePanel struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Attributes  map[string]string `json:"attributes"`
}

// SERPFeatures lists the special blocks shown above or beside the results.
type SERPFeatures struct {
	FeaturedSnippet *FeaturedSnippet `json:"featuredSnippet,omitempty"`
	PeopleAlsoAsk   []string         `json:"peopleAlsoAsk,omitempty"`
	LocalPack       bool             `json:"localPack"`
	ImageCarousel   bool             `json:"imageCarousel"`
	VideoResults    bool             `json:"videoResults"`
	NewsResults     bool             `json:"newsResults"`
	ShoppingResults bool             `json:"shoppingResults"`
	KnowledgePanel  *KnowledgePanel  `json:"knowledgePanel,omitempty"`
	RelatedSearches []string         `json:"relatedSearches"`
}

type ContentAnalysis struct {
	WordCount        int `json:"wordCount"`
	Headings         int `json:"headings"`
	Images           int `json:"images"`
	Videos           int `json:"videos"`
	ReadabilityScore int `json:"readabilityScore"`
}

// SERPCompetitor is a top-ranked result with its page analysed.
type SERPCompetitor struct {
	Domain          string          `json:"domain"`
	Position        int             `json:"position"`
	Title           string          `json:"title"`
	URL             string          `json:"url"`
	Description     string          `json:"description"`
	Features        []string        `json:"features"`
	ContentAnalysis ContentAnalysis `json:"contentAnalysis"`
}

type BoundingBox struct {
	Top    int `json:"top"`
	Left   int `json:"left"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// VisualElement is a page region detected on the results screenshot.
type VisualElement struct {
	Type        string      `json:"type"`
	BoundingBox BoundingBox `json:"boundingBox"`
	Confidence  int         `json:"confidence"`
}

// SERPAnalysis is the full analysis of one keyword.
type SERPAnalysis struct {
	Keyword        string           `json:"keyword"`
	Location       string           `json:"location"`
	Device         string           `json:"device"`
	Date           time.Time        `json:"date"`
	OrganicResults []OrganicResult  `json:"organicResults"`
	Features       SERPFeatures     `json:"features"`
	Competitors    []SERPCompetitor `json:"competitors"`
	VisualElements []VisualElement  `json:"visualElements"`
	Screenshot     string           `json:"screenshot"`
}

// SERPHistoryEntry is a past analysis.
type SERPHistoryEntry struct {
	ID       string    `json:"id"`
	Keyword  string    `json:"keyword"`
	Date     time.Time `json:"date"`
	Device   string    `json:"device"`
	Location string    `json:"location"`
	Features []string  `json:"features"`
}

var resultDomains = []string{
	"example.com",
	"competitor1.com",
	"competitor2.org",
	"wikipedia.org",
	"blog.industry.com",
	"news.tech",
	"guide.expert.io",
	"review.site",
	"forum.discussion.net",
	"academy.learning.org",
}

var visualElements = []VisualElement{
	{Type: "Featured Snippet", BoundingBox: BoundingBox{Top: 15, Left: 10, Width: 80, Height: 15}, Confidence: 98},
	{Type: "People Also Ask", BoundingBox: BoundingBox{Top: 32, Left: 10, Width: 80, Height: 20}, Confidence: 95},
	{Type: "Organic Result", BoundingBox: BoundingBox{Top: 55, Left: 10, Width: 80, Height: 10}, Confidence: 99},
	{Type: "Organic Result", BoundingBox: BoundingBox{Top: 67, Left: 10, Width: 80, Height: 10}, Confidence: 99},
	{Type: "Related Searches", BoundingBox: BoundingBox{Top: 85, Left: 10, Width: 80, Height: 12}, Confidence: 92},
}

var (
	historyKeywords  = trackedKeywords[:8]
	historyDevices   = []string{"desktop", "mobile", "tablet"}
	historyLocations = []string{"United States", "United Kingdom", "Canada", "Australia", "Germany"}
)

const serpScreenshot = "/placeholder.svg?height=600&width=400"

func resultTitle(i int, keyword string, year int) string {
	lead, tail := "Top", ""
	switch i {
	case 0:
		lead, tail = "Ultimate", "(Updated)"
	case 1:
		lead, tail = "Complete", "for Beginners"
	case 2:
		lead, tail = "Best", "in "+strconv.Itoa(year)
	}
	return fmt.Sprintf("%s Guide to %s %s", lead, keyword, tail)
}

func (g *Generator) snippetType() string {
	if g.chance(0.5) {
		return "paragraph"
	}
	if g.chance(0.5) {
		return "list"
	}
	return "table"
}

// AnalyzeSERP simulates the results page for keyword as seen from location on device.
func (g *Generator) AnalyzeSERP(ctx context.Context, keyword, location, device string) (*SERPAnalysis, error) {
	if err := g.wait(ctx, 3500*time.Millisecond); err != nil {
		return nil, err
	}

	now := g.timestamp()
	results := make([]OrganicResult, 0, 10)
	for i := range 10 {
		features := []string{}
		if g.chance(0.7) {
			features = append(features, "Featured Snippet")
		}
		if g.chance(0.7) {
			features = append(features, "Sitelinks")
		}
		if g.chance(0.8) {
			features = append(features, "FAQ")
		}
		if g.chance(0.9) {
			features = append(features, "Video")
		}

		results = append(results, OrganicResult{
			Position: i + 1,
			Title:    resultTitle(i, keyword, now.Year()),
			URL:      "https://" + resultDomains[i%len(resultDomains)] + "/" + slug(keyword),
			Description: fmt.Sprintf("Discover the best %s strategies and tips. Learn how to implement %s effectively "+
				"for your business. Comprehensive guide with examples and case studies.", keyword, keyword),
			Features: features,
		})
	}

	var features SERPFeatures
	if g.chance(0.3) {
		features.FeaturedSnippet = &FeaturedSnippet{
			Type: g.snippetType(),
			Content: keyword + " is a strategy that helps businesses improve their online visibility. It involves " +
				"optimizing website content, technical aspects, and building quality backlinks to rank higher in " +
				"search engine results.",
			Source: results[0].URL,
		}
	}
	if g.chance(0.2) {
		features.PeopleAlsoAsk = []string{
			"What is " + keyword + "?",
			"How does " + keyword + " work?",
			"Why is " + keyword + " important?",
			"How much does " + keyword + " cost?",
		}
	}
	features.LocalPack = g.chance(0.7)
	features.ImageCarousel = g.chance(0.6)
	features.VideoResults = g.chance(0.5)
	features.NewsResults = g.chance(0.8)
	features.ShoppingResults = g.chance(0.9)
	if g.chance(0.7) {
		features.KnowledgePanel = &KnowledgePanel{
			Title: keyword,
			Description: keyword + " refers to the process of optimizing online content to improve visibility " +
				"in search engine results pages (SERPs).",
			Attributes: map[string]string{
				"Type":             "Digital Marketing Strategy",
				"Purpose":          "Improve online visibility",
				"Key Components":   "On-page, Off-page, Technical",
				"Related Concepts": "Content Marketing, PPC, Social Media",
			},
		}
	}
	features.RelatedSearches = []string{
		keyword + " examples",
		keyword + " tools",
		keyword + " strategies",
		keyword + " vs traditional marketing",
		keyword + " best practices",
		keyword + " for small business",
		keyword + " certification",
		keyword + " agencies",
	}

	competitors := make([]SERPCompetitor, 0, 5)
	for _, r := range results[:5] {
		var host string
		if u, err := url.Parse(r.URL); err == nil {
			host = u.Hostname()
		}
		analysis := ContentAnalysis{
			WordCount: g.intn(1000) + 500,
			Headings:  g.intn(10) + 3,
			Images:    g.intn(8) + 1,
		}
		if g.chance(0.7) {
			analysis.Videos = g.intn(3) + 1
		}
		analysis.ReadabilityScore = g.intn(30) + 70

		competitors = append(competitors, SERPCompetitor{
			Domain:          host,
			Position:        r.Position,
			Title:           r.Title,
			URL:             r.URL,
			Description:     r.Description,
			Features:        r.Features,
			ContentAnalysis: analysis,
		})
	}

	return &SERPAnalysis{
		Keyword:        keyword,
		Location:       location,
		Device:         device,
		Date:           now,
		OrganicResults: results,
		Features:       features,
		Competitors:    competitors,
		VisualElements: append([]VisualElement(nil), visualElements...),
		Screenshot:     serpScreenshot,
	}, nil
}

// SERPHistory returns ten past analyses, newest first.
func (g *Generator) SERPHistory(ctx context.Context) ([]SERPHistoryEntry, error) {
	if err := g.wait(ctx, time.Second); err != nil {
		return nil, err
	}

	now := g.timestamp()
	history := make([]SERPHistoryEntry, 0, 10)
	for i := range 10 {
		entry := SERPHistoryEntry{
			ID:       "serp-" + strconv.Itoa(i+1),
			Keyword:  g.pick(historyKeywords),
			Device:   g.pick(historyDevices),
			Location: g.pick(historyLocations),
		}
		entry.Date = now.Add(-time.Duration(i*3+g.intn(3)) * day)

		entry.Features = []string{}
		if g.chance(0.5) {
			entry.Features = append(entry.Features, "Featured Snippet")
		}
		if g.chance(0.6) {
			entry.Features = append(entry.Features, "People Also Ask")
		}
		if g.chance(0.7) {
			entry.Features = append(entry.Features, "Knowledge Panel")
		}
		if g.chance(0.8) {
			entry.Features = append(entry.Features, "Local Pack")
		}
		history = append(history, entry)
	}

	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date.After(history[j].Date)
	})
	return history, nil
}
