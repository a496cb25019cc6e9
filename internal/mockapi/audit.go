package mockapi

import (
	"context"
	"sort"
	"strconv"
	"time"
)

// AuditIssue is a finding with guidance on how to fix it.
type AuditIssue struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description"`
	Impact         string `json:"impact,omitempty"`
	Recommendation string `json:"recommendation,omitempty"`
}

// AuditIssues groups findings by severity.
type AuditIssues struct {
	Critical []AuditIssue `json:"critical"`
	Warnings []AuditIssue `json:"warnings"`
	Passed   []AuditIssue `json:"passed"`
}

// WebVitals are the simulated Core Web Vitals of the audited site.
type WebVitals struct {
	LCP float64 `json:"lcp"`
	FID int     `json:"fid"`
	CLS float64 `json:"cls"`
}

// PerformanceAudit is the performance section of an audit.
type PerformanceAudit struct {
	Score   int       `json:"score"`
	Metrics WebVitals `json:"metrics"`
}

// SEOChecks flags which on-page elements were found.
type SEOChecks struct {
	Title    bool `json:"title"`
	Meta     bool `json:"meta"`
	Headings bool `json:"headings"`
	Images   bool `json:"images"`
	Links    bool `json:"links"`
}

// SEOAudit is the SEO section of an audit.
type SEOAudit struct {
	Score   int       `json:"score"`
	Metrics SEOChecks `json:"metrics"`
}

// AuditReport is the result of auditing one site.
type AuditReport struct {
	URL         string           `json:"url"`
	Score       int              `json:"score"`
	Issues      AuditIssues      `json:"issues"`
	Performance PerformanceAudit `json:"performance"`
	SEO         SEOAudit         `json:"seo"`
}

// IssueCounts summarises an audit in the history list.
type IssueCounts struct {
	Critical int `json:"critical"`
	Warnings int `json:"warnings"`
	Passed   int `json:"passed"`
}

// AuditHistoryEntry is a past audit.
type AuditHistoryEntry struct {
	ID     string      `json:"id"`
	URL    string      `json:"url"`
	Date   time.Time   `json:"date"`
	Score  int         `json:"score"`
	Issues IssueCounts `json:"issues"`
}

var criticalIssues = []AuditIssue{
	{
		ID:             "c1",
		Title:          "Slow Page Load Speed",
		Description:    "Several pages take more than 3 seconds to load, which can negatively impact user experience and search rankings.",
		Impact:         "High impact on both user experience and search rankings. Google considers page speed as a ranking factor.",
		Recommendation: "Optimize images, enable browser caching, minify CSS and JavaScript, and consider using a Content Delivery Network (CDN).",
	},
	{
		ID:             "c2",
		Title:          "Missing Meta Descriptions",
		Description:    "42% of your pages are missing meta descriptions, which are important for search engines and click-through rates.",
		Impact:         "Medium impact on search rankings but high impact on click-through rates from search results.",
		Recommendation: "Add unique, descriptive meta descriptions to all pages, keeping them under 160 characters.",
	},
	{
		ID:             "c3",
		Title:          "Duplicate Content Issues",
		Description:    "Found 15 pages with substantially similar content, which can confuse search engines about which page to rank.",
		Impact:         "High impact on search rankings as search engines may penalize sites with duplicate content.",
		Recommendation: "Implement canonical tags, create unique content for each page, or use 301 redirects to consolidate duplicate pages.",
	},
}

var warningIssues = []AuditIssue{
	{
		ID:             "w1",
		Title:          "Low Word Count on Key Pages",
		Description:    "Several important pages have less than 300 words of content, which may be considered thin content.",
		Impact:         "Medium impact on search rankings. Pages with thin content may not rank well for competitive keywords.",
		Recommendation: "Expand content on key pages to at least 800 words, focusing on providing valuable information to users.",
	},
	{
		ID:             "w2",
		Title:          "Missing Alt Text for Images",
		Description:    "Found 28 images without alt text, which is important for accessibility and image search traffic.",
		Impact:         "Low impact on general search rankings but high impact on image search visibility and accessibility.",
		Recommendation: "Add descriptive alt text to all images, including relevant keywords where appropriate.",
	},
	{
		ID:             "w3",
		Title:          "Broken Internal Links",
		Description:    "Found 7 broken internal links that lead to 404 pages.",
		Impact:         "Medium impact on user experience and site crawlability.",
		Recommendation: "Fix or remove broken links to improve user experience and ensure proper site crawling.",
	},
	{
		ID:             "w4",
		Title:          "Non-Secure Pages (HTTP)",
		Description:    "Some pages are still served over HTTP instead of HTTPS.",
		Impact:         "High impact on security and potentially on search rankings as Google prefers secure sites.",
		Recommendation: "Implement SSL certificate and redirect all HTTP traffic to HTTPS.",
	},
}

var passedChecks = []AuditIssue{
	{ID: "p1", Title: "Mobile Responsiveness", Description: "Your site is properly optimized for mobile devices."},
	{ID: "p2", Title: "XML Sitemap", Description: "XML sitemap is properly configured and submitted to search engines."},
	{ID: "p3", Title: "Robots.txt", Description: "Robots.txt file is properly configured."},
	{ID: "p4", Title: "Proper Use of Heading Tags", Description: "Heading tags (H1, H2, etc.) are used correctly throughout the site."},
	{ID: "p5", Title: "No Keyword Stuffing", Description: "Content appears natural without excessive keyword usage."},
}

var auditedDomains = []string{
	"example.com",
	"mystore.shop",
	"techblog.io",
	"marketingpro.net",
	"ecommerce-site.com",
	"portfolio.design",
	"agency.digital",
}

// CriticalIssueCount maps an audit score to the number of critical issues reported.
func CriticalIssueCount(score int) int {
	switch {
	case score < 70:
		return 3
	case score < 85:
		return 2
	case score < 95:
		return 1
	default:
		return 0
	}
}

// WarningIssueCount maps an audit score to the number of warnings reported.
func WarningIssueCount(score int) int {
	return CriticalIssueCount(score) + 1
}

// AuditWebsite produces an audit report for url. The score is always in [50, 94].
func (g *Generator) AuditWebsite(ctx context.Context, url string) (*AuditReport, error) {
	if err := g.wait(ctx, 4*time.Second); err != nil {
		return nil, err
	}

	score := g.intn(45) + 50

	report := &AuditReport{
		URL:   url,
		Score: score,
		Issues: AuditIssues{
			Critical: append([]AuditIssue(nil), criticalIssues[:CriticalIssueCount(score)]...),
			Warnings: append([]AuditIssue(nil), warningIssues[:WarningIssueCount(score)]...),
			Passed:   append([]AuditIssue(nil), passedChecks...),
		},
	}
	if report.Issues.Critical == nil {
		report.Issues.Critical = []AuditIssue{}
	}

	report.Performance = PerformanceAudit{
		Score: g.intn(30) + 70,
		Metrics: WebVitals{
			LCP: g.float()*3 + 1,
			FID: g.intn(200) + 50,
			CLS: g.float() * 0.3,
		},
	}
	report.SEO = SEOAudit{
		Score: g.intn(30) + 70,
		Metrics: SEOChecks{
			Title:    g.chance(0.2),
			Meta:     g.chance(0.3),
			Headings: g.chance(0.1),
			Images:   g.chance(0.4),
			Links:    g.chance(0.2),
		},
	}
	return report, nil
}

// AuditHistory returns ten past audits, newest first.
func (g *Generator) AuditHistory(ctx context.Context) ([]AuditHistoryEntry, error) {
	if err := g.wait(ctx, time.Second); err != nil {
		return nil, err
	}

	now := g.timestamp()
	history := make([]AuditHistoryEntry, 0, 10)
	for i := range 10 {
		domain := g.pick(auditedDomains)
		score := g.intn(40) + 60
		daysAgo := i*3 + g.intn(3)

		history = append(history, AuditHistoryEntry{
			ID:    "audit-" + strconv.Itoa(i+1),
			URL:   "https://" + domain,
			Date:  now.Add(-time.Duration(daysAgo) * day),
			Score: score,
			Issues: IssueCounts{
				Critical: g.intn(4),
				Warnings: g.intn(6) + 1,
				Passed:   g.intn(10) + 5,
			},
		})
	}

	sort.SliceStable(history, func(i, j int) bool {
		return history[i].Date.After(history[j].Date)
	})
	return history, nil
}
