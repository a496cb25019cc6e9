package mockapi

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"
)

// ContentRequest describes the piece to generate.
type ContentRequest struct {
	Topic       string   `json:"topic"`
	Keywords    []string `json:"keywords"`
	ContentType string   `json:"contentType"`
	// Tone runs from 0 (professional) to 100 (casual).
	Tone int `json:"tone"`
	// Length is the requested word count.
	Length int `json:"length"`
}

// GeneratedContent wraps the generated text.
type GeneratedContent struct {
	Content string `json:"content"`
}

// OptimizeRequest carries the content to optimise and its target keywords.
type OptimizeRequest struct {
	Content  string   `json:"content"`
	Keywords []string `json:"keywords"`
}

// OptimizationResult holds the SEO score, suggestions and rewritten content.
type OptimizationResult struct {
	Score            int      `json:"score"`
	Suggestions      []string `json:"suggestions"`
	OptimizedContent string   `json:"optimizedContent"`
}

var optimizationSuggestions = []string{
	"Add more instances of your primary keyword in the first paragraph",
	"Include at least one more heading (H2) with a keyword variation",
	"Add internal links to related content on your website",
	"Increase content length by at least 200 words for better depth",
	"Add alt text to all images that includes relevant keywords",
	"Improve meta description to include primary and secondary keywords",
}

func toneOf(tone int) string {
	switch {
	case tone < 33:
		return "professional"
	case tone < 66:
		return "conversational"
	default:
		return "casual"
	}
}

func greeting(tone string) string {
	switch tone {
	case "casual":
		return "Hey there!"
	case "conversational":
		return "Hello,"
	default:
		return "Dear Reader,"
	}
}

// keywordAt returns the i-th keyword, or fallback when it is missing or blank.
func keywordAt(keywords []string, i int, fallback string) string {
	if i < len(keywords) && keywords[i] != "" {
		return keywords[i]
	}
	return fallback
}

func firstN(items []string, n int) []string {
	return items[:min(n, len(items))]
}

// GenerateContent writes templated copy for req. The output grows in three
// steps: under 300 words only the intro and conclusion, under 500 adds the
// keyword overview, otherwise the full body.
func (g *Generator) GenerateContent(ctx context.Context, req ContentRequest) (*GeneratedContent, error) {
	if err := g.wait(ctx, 3*time.Second); err != nil {
		return nil, err
	}

	topic := req.Topic
	intro := fmt.Sprintf("%s Today we're going to explore %s.", greeting(toneOf(req.Tone)), topic)
	keywordSection := fmt.Sprintf("This %s will cover key aspects of %s including %s.",
		req.ContentType, topic, strings.Join(firstN(req.Keywords, 3), ", "))

	var third string
	if len(req.Keywords) > 2 && req.Keywords[2] != "" {
		third = fmt.Sprintf("%s represents an opportunity for innovation and differentiation. By leveraging this aspect effectively, you can stand out from competitors.", req.Keywords[2])
	}
	body := fmt.Sprintf(`
%[1]s is becoming increasingly important in today's digital landscape. As more businesses focus on their online presence, understanding the nuances of %[1]s can give you a competitive edge.

%[2]s is a fundamental aspect that cannot be overlooked. It forms the foundation of any successful strategy related to %[1]s.

When considering %[3]s, it's essential to approach it with a clear methodology. This ensures consistent results and measurable outcomes.

%[4]s

The landscape of %[1]s is constantly evolving, requiring professionals to stay updated with the latest trends and best practices.
`, topic, keywordAt(req.Keywords, 0, topic), keywordAt(req.Keywords, 1, topic), third)

	conclusion := fmt.Sprintf("In conclusion, mastering %s requires a comprehensive understanding of its various components and how they interact. By focusing on %s, you can develop effective strategies that drive results.",
		topic, strings.Join(firstN(req.Keywords, 2), " and "))

	var content string
	switch {
	case req.Length < 300:
		content = intro + "\n\n" + conclusion
	case req.Length < 500:
		content = intro + "\n\n" + keywordSection + "\n\n" + conclusion
	default:
		content = strings.Join([]string{intro, keywordSection, body, conclusion}, "\n\n")
	}
	return &GeneratedContent{Content: content}, nil
}

// OptimizeContent scores req.Content, picks three to five distinct
// suggestions, weaves under-represented keywords into sentence breaks and
// adds a section heading if the text has none.
func (g *Generator) OptimizeContent(ctx context.Context, req OptimizeRequest) (*OptimizationResult, error) {
	if err := g.wait(ctx, 2500*time.Millisecond); err != nil {
		return nil, err
	}

	score := g.intn(30) + 50

	want := g.intn(3) + 3
	selected := make([]string, 0, want)
	for len(selected) < want {
		s := g.pick(optimizationSuggestions)
		if !slices.Contains(selected, s) {
			selected = append(selected, s)
		}
	}

	optimized := req.Content
	for _, keyword := range req.Keywords {
		occurrences := strings.Count(strings.ToLower(optimized), strings.ToLower(keyword))
		if keyword == "" || occurrences >= 2 {
			continue
		}
		sentences := strings.Split(optimized, ". ")
		var b strings.Builder
		for i, s := range sentences {
			if i > 0 {
				if g.chance(0.7) {
					b.WriteString(". This relates to " + keyword + " as well. ")
				} else {
					b.WriteString(". ")
				}
			}
			b.WriteString(s)
		}
		optimized = b.String()
	}

	if !strings.Contains(optimized, "<h2>") && !strings.Contains(optimized, "## ") {
		heading := "Key Insights About " + keywordAt(req.Keywords, 0, "This Topic")
		optimized = strings.ReplaceAll(optimized, "\n\n", "\n\n## "+heading+"\n\n")
	}

	return &OptimizationResult{
		Score:            score,
		Suggestions:      selected,
		OptimizedContent: optimized,
	}, nil
}
