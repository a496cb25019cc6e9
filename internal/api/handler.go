package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"nlpengine/internal/metrics"
	"nlpengine/internal/mockapi"

	"github.com/gin-gonic/gin"
)

// statusClientClosedRequest is reported when the caller goes away mid-request.
const statusClientClosedRequest = 499

type Handler struct {
	gen *mockapi.Generator
	log *slog.Logger
}

func NewHandler(gen *mockapi.Generator, log *slog.Logger) *Handler {
	return &Handler{gen: gen, log: log}
}

// respond runs one stub under the request context and writes its result.
func respond[T any](h *Handler, c *gin.Context, stub string, fn func(context.Context) (T, error)) {
	start := time.Now()
	result, err := fn(c.Request.Context())
	metrics.ObserveStub(stub, start, err)
	if err != nil {
		h.abort(c, stub, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) abort(c *gin.Context, stub string, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		h.log.Debug("Stub abandoned", "stub", stub, "error", err)
		c.AbortWithStatus(statusClientClosedRequest)
		return
	}
	h.log.Error("Stub failed", "stub", stub, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func (h *Handler) RecentActivityHandler(c *gin.Context) {
	respond(h, c, "activity", h.gen.RecentActivity)
}

func (h *Handler) DashboardHandler(c *gin.Context) {
	respond(h, c, "dashboard", h.gen.Dashboard)
}

type auditRequest struct {
	URL string `json:"url" binding:"required"`
}

func (h *Handler) AuditWebsiteHandler(c *gin.Context) {
	var req auditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}
	respond(h, c, "audit", func(ctx context.Context) (*mockapi.AuditReport, error) {
		return h.gen.AuditWebsite(ctx, req.URL)
	})
}

func (h *Handler) AuditHistoryHandler(c *gin.Context) {
	respond(h, c, "audit_history", h.gen.AuditHistory)
}

type verifyContentRequest struct {
	URL  string `json:"url"`
	Hash string `json:"hash"`
}

func (h *Handler) VerifyContentHandler(c *gin.Context) {
	var req verifyContentRequest
	if err := c.ShouldBindJSON(&req); err != nil || (req.URL == "" && req.Hash == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "A URL or content hash is required"})
		return
	}
	respond(h, c, "verify_content", func(ctx context.Context) (*mockapi.VerificationResult, error) {
		return h.gen.VerifyContent(ctx, req.URL, req.Hash)
	})
}

type registerContentRequest struct {
	URL string `json:"url" binding:"required"`
}

func (h *Handler) RegisterContentHandler(c *gin.Context) {
	var req registerContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "URL is required"})
		return
	}
	respond(h, c, "register_content", func(ctx context.Context) (*mockapi.RegistrationResult, error) {
		return h.gen.RegisterContent(ctx, req.URL)
	})
}

type verifyHashRequest struct {
	Type  string `json:"type" binding:"required,oneof=hash url text"`
	Value string `json:"value" binding:"required"`
}

func (h *Handler) VerifyHashHandler(c *gin.Context) {
	var req verifyHashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "type must be one of hash, url, text and value is required"})
		return
	}
	respond(h, c, "verify_hash", func(ctx context.Context) (*mockapi.HashVerification, error) {
		return h.gen.VerifyHash(ctx, req.Type, req.Value)
	})
}

func (h *Handler) TransactionsHandler(c *gin.Context) {
	respond(h, c, "transactions", h.gen.Transactions)
}

func (h *Handler) BlockchainPerformanceHandler(c *gin.Context) {
	respond(h, c, "blockchain_performance", h.gen.BlockchainPerformance)
}

func (h *Handler) GenerateContentHandler(c *gin.Context) {
	var req mockapi.ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Topic is required"})
		return
	}
	respond(h, c, "generate_content", func(ctx context.Context) (*mockapi.GeneratedContent, error) {
		return h.gen.GenerateContent(ctx, req)
	})
}

func (h *Handler) OptimizeContentHandler(c *gin.Context) {
	var req mockapi.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content is required"})
		return
	}
	respond(h, c, "optimize_content", func(ctx context.Context) (*mockapi.OptimizationResult, error) {
		return h.gen.OptimizeContent(ctx, req)
	})
}

func (h *Handler) KeywordsHandler(c *gin.Context) {
	respond(h, c, "keywords", h.gen.Keywords)
}

type addKeywordRequest struct {
	Keyword string `json:"keyword" binding:"required"`
}

func (h *Handler) AddKeywordHandler(c *gin.Context) {
	var req addKeywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Keyword is required"})
		return
	}
	respond(h, c, "add_keyword", func(ctx context.Context) (*mockapi.Keyword, error) {
		return h.gen.AddKeyword(ctx, req.Keyword)
	})
}

func (h *Handler) ResearchKeywordsHandler(c *gin.Context) {
	seed := c.Query("seed")
	if seed == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Seed keyword is required"})
		return
	}
	respond(h, c, "research_keywords", func(ctx context.Context) ([]mockapi.KeywordSuggestion, error) {
		return h.gen.ResearchKeywords(ctx, seed)
	})
}

func (h *Handler) CompetitorsHandler(c *gin.Context) {
	respond(h, c, "competitors", h.gen.Competitors)
}

type analyzeSERPRequest struct {
	Keyword  string `json:"keyword" binding:"required"`
	Location string `json:"location"`
	Device   string `json:"device"`
}

func (h *Handler) AnalyzeSERPHandler(c *gin.Context) {
	var req analyzeSERPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Keyword is required"})
		return
	}
	if req.Location == "" {
		req.Location = "United States"
	}
	if req.Device == "" {
		req.Device = "desktop"
	}
	respond(h, c, "analyze_serp", func(ctx context.Context) (*mockapi.SERPAnalysis, error) {
		return h.gen.AnalyzeSERP(ctx, req.Keyword, req.Location, req.Device)
	})
}

func (h *Handler) SERPHistoryHandler(c *gin.Context) {
	respond(h, c, "serp_history", h.gen.SERPHistory)
}
