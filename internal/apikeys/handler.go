package apikeys

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"

	"nlpengine/internal/db"
	"nlpengine/internal/metrics"
	"nlpengine/internal/model"
	"nlpengine/internal/validation"

	"github.com/gin-gonic/gin"
)

// Tester checks a stored key. *keytester.Tester implements it.
type Tester interface {
	Test(ctx context.Context, id string) (*model.TestResult, error)
}

type testRequest struct {
	ID string `json:"id" binding:"required"`
}

type Handler struct {
	db     db.Service
	tester Tester
	log    *slog.Logger
}

func NewHandler(dbService db.Service, tester Tester, log *slog.Logger) *Handler {
	return &Handler{db: dbService, tester: tester, log: log}
}

var keyStatuses = []string{model.StatusActive, model.StatusExpired, model.StatusRevoked}

func record(operation string, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	metrics.APIKeyOperations.WithLabelValues(operation, status).Inc()
}

// bindKey decodes and validates a create or update body.
func bindKey(c *gin.Context) (*model.APIKeyRequest, bool) {
	var req model.APIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return nil, false
	}
	if err := validation.ValidateKeyForm(req.Name, req.Key, req.Domain, req.Permissions); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}
	if req.Status != "" && !slices.Contains(keyStatuses, req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Status must be one of active, expired, revoked"})
		return nil, false
	}
	return &req, true
}

func permissionsOf(p []string) model.Permissions {
	if p == nil {
		return model.Permissions{}
	}
	return model.Permissions(p)
}

func (h *Handler) ListAPIKeysHandler(c *gin.Context) {
	keys, err := h.db.ListAPIKeys()
	record("list", err)
	if err != nil {
		h.log.Error("Failed to list API keys", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch API keys"})
		return
	}
	if keys == nil {
		keys = []model.APIKey{}
	}
	c.JSON(http.StatusOK, keys)
}

func (h *Handler) CreateAPIKeyHandler(c *gin.Context) {
	req, ok := bindKey(c)
	if !ok {
		return
	}

	key := &model.APIKey{
		Name:        req.Name,
		Key:         req.Key,
		Domain:      req.Domain,
		Service:     req.Service,
		Permissions: permissionsOf(req.Permissions),
		Status:      model.StatusActive,
	}
	err := h.db.CreateAPIKey(key)
	record("create", err)
	if err != nil {
		h.log.Error("Failed to create API key", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add API key"})
		return
	}
	h.log.Info("API key created", "key_id", key.ID, "service", key.Service)
	c.JSON(http.StatusCreated, key)
}

func (h *Handler) GetAPIKeyHandler(c *gin.Context) {
	key, err := h.db.GetAPIKey(c.Param("id"))
	record("get", err)
	if err != nil {
		h.notFoundOr500(c, err, "Failed to fetch API key")
		return
	}
	c.JSON(http.StatusOK, key)
}

func (h *Handler) UpdateAPIKeyHandler(c *gin.Context) {
	id := c.Param("id")
	req, ok := bindKey(c)
	if !ok {
		return
	}

	key, err := h.db.GetAPIKey(id)
	if err != nil {
		record("update", err)
		h.notFoundOr500(c, err, "Failed to update API key")
		return
	}

	key.Name = req.Name
	key.Key = req.Key
	key.Domain = req.Domain
	key.Service = req.Service
	key.Permissions = permissionsOf(req.Permissions)
	if req.Status != "" {
		key.Status = req.Status
	}

	err = h.db.UpdateAPIKey(key)
	record("update", err)
	if err != nil {
		h.notFoundOr500(c, err, "Failed to update API key")
		return
	}
	c.JSON(http.StatusOK, key)
}

func (h *Handler) DeleteAPIKeyHandler(c *gin.Context) {
	id := c.Param("id")
	err := h.db.DeleteAPIKey(id)
	record("delete", err)
	if err != nil {
		h.notFoundOr500(c, err, "Failed to delete API key")
		return
	}
	h.log.Info("API key deleted", "key_id", id)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) TestAPIKeyHandler(c *gin.Context) {
	var req testRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "API key id is required"})
		return
	}

	result, err := h.tester.Test(c.Request.Context(), req.ID)
	record("test", err)
	if err != nil {
		h.notFoundOr500(c, err, "Failed to test API key")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) notFoundOr500(c *gin.Context, err error, message string) {
	if errors.Is(err, db.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "API key not found"})
		return
	}
	h.log.Error(message, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": message})
}
