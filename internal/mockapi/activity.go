package mockapi

import (
	"context"
	"time"
)

// ActivityUser is the team member credited with an activity.
type ActivityUser struct {
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Initials string `json:"initials"`
}

// Activity is one entry of the dashboard's recent activity feed.
type Activity struct {
	ID          string       `json:"id"`
	Type        string       `json:"type"`
	Description string       `json:"description"`
	Timestamp   time.Time    `json:"timestamp"`
	User        ActivityUser `json:"user"`
}

const avatarPlaceholder = "/placeholder.svg?height=32&width=32"

var activityFeed = []struct {
	id, kind, description string
	ago                   time.Duration
	name, initials        string
}{
	{"act-1", "content_created", "Created new blog post 'Top 10 SEO Strategies for 2023'", 25 * time.Minute, "John Doe", "JD"},
	{"act-2", "keyword_added", "Added 15 new keywords to tracking", 2 * time.Hour, "Sarah Johnson", "SJ"},
	{"act-3", "site_audit", "Completed site audit for example.com", 5 * time.Hour, "Michael Brown", "MB"},
	{"act-4", "content_optimized", "Optimized 3 landing pages for better SEO performance", 8 * time.Hour, "Emily Wilson", "EW"},
	{"act-5", "serp_analysis", "Analyzed SERP for 'content marketing strategies'", 1 * day, "John Doe", "JD"},
	{"act-6", "blockchain_verification", "Verified content integrity using blockchain", 2 * day, "Sarah Johnson", "SJ"},
}

// RecentActivity returns the canned activity feed relative to the current time.
func (g *Generator) RecentActivity(ctx context.Context) ([]Activity, error) {
	if err := g.wait(ctx, 800*time.Millisecond); err != nil {
		return nil, err
	}

	now := g.timestamp()
	activities := make([]Activity, 0, len(activityFeed))
	for _, a := range activityFeed {
		activities = append(activities, Activity{
			ID:          a.id,
			Type:        a.kind,
			Description: a.description,
			Timestamp:   now.Add(-a.ago),
			User: ActivityUser{
				Name:     a.name,
				Avatar:   avatarPlaceholder,
				Initials: a.initials,
			},
		})
	}
	return activities, nil
}
