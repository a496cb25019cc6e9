package mockapi

import (
	"cmp"
	"context"
	"slices"
	"strconv"
	"time"
)

// Keyword is a tracked search term and its ranking.
type Keyword struct {
	ID               string  `json:"id"`
	Keyword          string  `json:"keyword"`
	Position         int     `json:"position"`
	PreviousPosition int     `json:"previousPosition"`
	SearchVolume     int     `json:"searchVolume"`
	Difficulty       int     `json:"difficulty"`
	CPC              float64 `json:"cpc"`
	URL              string  `json:"url"`
}

// KeywordSuggestion is a research result for a seed keyword.
type KeywordSuggestion struct {
	Keyword      string  `json:"keyword"`
	SearchVolume int     `json:"searchVolume"`
	Difficulty   int     `json:"difficulty"`
	CPC          float64 `json:"cpc"`
	Competition  float64 `json:"competition"`
}

type CommonKeyword struct {
	Keyword       string `json:"keyword"`
	YourPosition  int    `json:"yourPosition"`
	TheirPosition int    `json:"theirPosition"`
}

// Competitor is a domain ranking for the same keywords as us.
type Competitor struct {
	Domain          string          `json:"domain"`
	OverlapCount    int             `json:"overlapCount"`
	OverlapKeywords []string        `json:"overlapKeywords"`
	AvgPosition     int             `json:"avgPosition"`
	UniqueKeywords  int             `json:"uniqueKeywords"`
	CommonKeywords  []CommonKeyword `json:"commonKeywords"`
}

var trackedKeywords = []string{
	"seo strategies",
	"content marketing",
	"digital marketing",
	"search engine optimization",
	"keyword research",
	"backlink building",
	"local seo",
	"mobile optimization",
	"voice search",
	"featured snippets",
	"e-commerce seo",
	"technical seo",
	"on-page optimization",
	"off-page optimization",
	"social media marketing",
}

var (
	researchPrefixes  = []string{"best", "top", "how to", "why", "what is", "guide to", "affordable", "professional"}
	researchSuffixes  = []string{"guide", "tutorial", "tips", "strategies", "examples", "services", "tools", "software"}
	researchQuestions = []string{"how", "what", "why", "when", "where"}
)

var (
	competitorDomains = []string{"competitor1.com", "competitor2.org", "competitor3.io", "competitor4.net", "competitor5.co"}
	keywordBases      = []string{"seo", "marketing", "content", "digital", "search", "optimization"}
	keywordSuffixes   = []string{"strategies", "tips", "guide", "services", "tools"}
)

func (g *Generator) cpc() float64 {
	return g.float()*5 + 0.5
}

// Keywords returns the fifteen tracked keywords with fresh rankings.
func (g *Generator) Keywords(ctx context.Context) ([]Keyword, error) {
	if err := g.wait(ctx, 1200*time.Millisecond); err != nil {
		return nil, err
	}

	keywords := make([]Keyword, 0, len(trackedKeywords))
	for i, text := range trackedKeywords {
		position := g.intn(30) + 1
		previous := position
		if g.chance(0.7) {
			previous += g.intn(10) - 5
		}

		keywords = append(keywords, Keyword{
			ID:               "kw-" + strconv.Itoa(i+1),
			Keyword:          text,
			Position:         position,
			PreviousPosition: max(previous, 0),
			SearchVolume:     g.intn(9000) + 1000,
			Difficulty:       g.intn(100),
			CPC:              g.cpc(),
			URL:              "https://example.com/" + slug(text),
		})
	}
	return keywords, nil
}

// AddKeyword starts tracking text. New keywords have no previous position.
func (g *Generator) AddKeyword(ctx context.Context, text string) (*Keyword, error) {
	if err := g.wait(ctx, 800*time.Millisecond); err != nil {
		return nil, err
	}

	return &Keyword{
		ID:           "kw-new-" + strconv.FormatInt(g.now().UnixMilli(), 10),
		Keyword:      text,
		Position:     g.intn(50) + 10,
		SearchVolume: g.intn(9000) + 1000,
		Difficulty:   g.intn(100),
		CPC:          g.cpc(),
		URL:          "https://example.com/" + slug(text),
	}, nil
}

func (g *Generator) suggestion(keyword string, volumeSpan, volumeBase int) KeywordSuggestion {
	return KeywordSuggestion{
		Keyword:      keyword,
		SearchVolume: g.intn(volumeSpan) + volumeBase,
		Difficulty:   g.intn(100),
		CPC:          g.cpc(),
		Competition:  g.float(),
	}
}

// ResearchKeywords expands seed into related keywords, highest volume first.
func (g *Generator) ResearchKeywords(ctx context.Context, seed string) ([]KeywordSuggestion, error) {
	if err := g.wait(ctx, 2*time.Second); err != nil {
		return nil, err
	}

	suggestions := make([]KeywordSuggestion, 0, 12)
	for _, prefix := range researchPrefixes[:4] {
		suggestions = append(suggestions, g.suggestion(prefix+" "+seed, 5000, 500))
	}
	for _, suffix := range researchSuffixes[:4] {
		suggestions = append(suggestions, g.suggestion(seed+" "+suffix, 5000, 500))
	}
	suggestions = append(suggestions, g.suggestion(seed, 10000, 5000))
	for _, question := range researchQuestions[:3] {
		verb := "is"
		if g.chance(0.5) {
			verb = "to"
		}
		suggestions = append(suggestions, g.suggestion(question+" "+verb+" "+seed, 3000, 200))
	}

	slices.SortStableFunc(suggestions, func(a, b KeywordSuggestion) int {
		return cmp.Compare(b.SearchVolume, a.SearchVolume)
	})
	return suggestions, nil
}

// Competitors returns keyword overlap figures for five rival domains.
func (g *Generator) Competitors(ctx context.Context) ([]Competitor, error) {
	if err := g.wait(ctx, 1500*time.Millisecond); err != nil {
		return nil, err
	}

	competitors := make([]Competitor, 0, len(competitorDomains))
	for _, domain := range competitorDomains {
		c := Competitor{
			Domain:          domain,
			OverlapCount:    g.intn(50) + 20,
			OverlapKeywords: slices.Clone(keywordBases),
			AvgPosition:     g.intn(15) + 1,
			UniqueKeywords:  g.intn(200) + 50,
			CommonKeywords:  make([]CommonKeyword, 0, 5),
		}
		for range 5 {
			c.CommonKeywords = append(c.CommonKeywords, CommonKeyword{
				Keyword:       g.pick(keywordBases) + " " + g.pick(keywordSuffixes),
				YourPosition:  g.intn(20) + 1,
				TheirPosition: g.intn(20) + 1,
			})
		}
		competitors = append(competitors, c)
	}
	return competitors, nil
}
