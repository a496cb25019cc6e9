package api

import (
	"net/http"
	"time"

	"nlpengine/internal/metrics"
	"nlpengine/internal/mockapi"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// Overview is everything the dashboard landing tab shows.
type Overview struct {
	Dashboard *mockapi.DashboardData `json:"dashboard"`
	Activity  []mockapi.Activity     `json:"activity"`
}

// KeywordsOverview is the keyword tab: tracked keywords, competitors and,
// when a seed is given, research suggestions.
type KeywordsOverview struct {
	Keywords    []mockapi.Keyword           `json:"keywords"`
	Competitors []mockapi.Competitor        `json:"competitors"`
	Research    []mockapi.KeywordSuggestion `json:"research,omitempty"`
}

// OverviewHandler fetches the dashboard and the activity feed concurrently.
// A client disconnect cancels both.
func (h *Handler) OverviewHandler(c *gin.Context) {
	start := time.Now()
	g, ctx := errgroup.WithContext(c.Request.Context())

	var out Overview
	g.Go(func() error {
		var err error
		out.Dashboard, err = h.gen.Dashboard(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.Activity, err = h.gen.RecentActivity(ctx)
		return err
	})

	err := g.Wait()
	metrics.ObserveStub("overview", start, err)
	if err != nil {
		h.abort(c, "overview", err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) KeywordsOverviewHandler(c *gin.Context) {
	start := time.Now()
	seed := c.Query("seed")
	g, ctx := errgroup.WithContext(c.Request.Context())

	var out KeywordsOverview
	g.Go(func() error {
		var err error
		out.Keywords, err = h.gen.Keywords(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		out.Competitors, err = h.gen.Competitors(ctx)
		return err
	})
	if seed != "" {
		g.Go(func() error {
			var err error
			out.Research, err = h.gen.ResearchKeywords(ctx, seed)
			return err
		})
	}

	err := g.Wait()
	metrics.ObserveStub("keywords_overview", start, err)
	if err != nil {
		h.abort(c, "keywords_overview", err)
		return
	}
	c.JSON(http.StatusOK, out)
}
