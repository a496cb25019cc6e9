package mockapi

import (
	"context"
	"time"
)

type ContentMetric struct {
	Name         string `json:"name"`
	ContentScore int    `json:"contentScore"`
}

type KeywordMetric struct {
	Date    string `json:"date"`
	Ranking int    `json:"ranking"`
}

type PerformanceSummary struct {
	ContentGenerated int `json:"contentGenerated"`
	KeywordsTracked  int `json:"keywordsTracked"`
	SitesAudited     int `json:"sitesAudited"`
	AverageScore     int `json:"averageScore"`
}

type RecentAudit struct {
	Domain string `json:"domain"`
	Score  int    `json:"score"`
}

type RecentIssue struct {
	Title    string `json:"title"`
	Domain   string `json:"domain"`
	Severity string `json:"severity"`
}

// DashboardData feeds the overview tab.
type DashboardData struct {
	ContentMetrics  []ContentMetric    `json:"contentMetrics"`
	KeywordMetrics  []KeywordMetric    `json:"keywordMetrics"`
	PerformanceData PerformanceSummary `json:"performanceData"`
	RecentAudits    []RecentAudit      `json:"recentAudits"`
	RecentIssues    []RecentIssue      `json:"recentIssues"`
}

// Dashboard returns the fixed overview figures.
func (g *Generator) Dashboard(ctx context.Context) (*DashboardData, error) {
	if err := g.wait(ctx, time.Second); err != nil {
		return nil, err
	}

	return &DashboardData{
		ContentMetrics: []ContentMetric{
			{Name: "Blog Posts", ContentScore: 85},
			{Name: "Landing Pages", ContentScore: 72},
			{Name: "Product Descriptions", ContentScore: 68},
			{Name: "Social Media", ContentScore: 90},
			{Name: "Email Newsletters", ContentScore: 78},
			{Name: "Press Releases", ContentScore: 65},
		},
		KeywordMetrics: []KeywordMetric{
			{Date: "Jan 1", Ranking: 32},
			{Date: "Jan 8", Ranking: 28},
			{Date: "Jan 15", Ranking: 25},
			{Date: "Jan 22", Ranking: 22},
			{Date: "Jan 29", Ranking: 19},
			{Date: "Feb 5", Ranking: 18},
			{Date: "Feb 12", Ranking: 15},
			{Date: "Feb 19", Ranking: 14},
			{Date: "Feb 26", Ranking: 12},
		},
		PerformanceData: PerformanceSummary{
			ContentGenerated: 156,
			KeywordsTracked:  432,
			SitesAudited:     28,
			AverageScore:     76,
		},
		RecentAudits: []RecentAudit{
			{Domain: "example.com", Score: 87},
			{Domain: "mystore.shop", Score: 72},
			{Domain: "techblog.io", Score: 91},
			{Domain: "marketingpro.net", Score: 65},
			{Domain: "ecommerce-site.com", Score: 78},
		},
		RecentIssues: []RecentIssue{
			{Title: "Missing meta descriptions", Domain: "example.com", Severity: "Medium"},
			{Title: "Slow page load time", Domain: "mystore.shop", Severity: "High"},
			{Title: "Duplicate content", Domain: "marketingpro.net", Severity: "Medium"},
			{Title: "Broken links", Domain: "ecommerce-site.com", Severity: "High"},
			{Title: "Mobile usability issues", Domain: "techblog.io", Severity: "Low"},
		},
	}, nil
}
