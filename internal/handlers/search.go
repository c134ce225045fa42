package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/driffle/genie-backend/internal/platform/apierr"
	"github.com/driffle/genie-backend/internal/platform/logger"
	"github.com/driffle/genie-backend/internal/retrieval"
	"github.com/driffle/genie-backend/internal/services"
)

type SearchHandler struct {
	log    *logger.Logger
	search services.SearchService
}

func NewSearchHandler(log *logger.Logger, search services.SearchService) *SearchHandler {
	return &SearchHandler{
		log:    log.With("handler", "SearchHandler"),
		search: search,
	}
}

// POST /api/search
func (h *SearchHandler) Resolve(c *gin.Context) {
	var req struct {
		Chats []services.ChatTurn `json:"chats"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}

	result, err := h.search.Resolve(c.Request.Context(), req.Chats)
	if err != nil {
		h.log.Error("search resolution failed", "error", err)
		RespondError(c, err)
		return
	}
	RespondOK(c, result)
}

// POST /api/search/documents
func (h *SearchHandler) IndexDocuments(c *gin.Context) {
	var req struct {
		Documents []retrieval.Document `json:"documents"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, apierr.Validation("invalid request body"))
		return
	}

	if err := h.search.IndexDocuments(c.Request.Context(), req.Documents); err != nil {
		h.log.Error("document indexing failed", "count", len(req.Documents), "error", err)
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"indexed": len(req.Documents)})
}
