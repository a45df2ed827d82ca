package handlers

import (
	"net/http"

	"caseintake-backend/retainer"

	"github.com/gin-gonic/gin"
)

// TemplateHandler serves the static agreement templates used by external
// merge engines. No service layer: the templates are pure functions of the
// canonical document skeleton.
type TemplateHandler struct{}

// NewTemplateHandler creates a new template handler
func NewTemplateHandler() *TemplateHandler {
	return &TemplateHandler{}
}

// GetTemplate handles GET /api/template
// The format query selects the placeholder syntax: "merge_fields" (default)
// for the practice-management document engine, "paths" for automation
// platforms without conditional support.
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	var renderer retainer.TemplateRenderer
	switch c.DefaultQuery("format", "merge_fields") {
	case "merge_fields":
		renderer = retainer.MergeFieldRenderer{}
	case "paths":
		renderer = retainer.PathTokenRenderer{}
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_FORMAT",
				"message": "format must be merge_fields or paths",
			},
		})
		return
	}

	c.String(http.StatusOK, retainer.RenderTemplate(renderer))
}

// GetTemplateTokens handles GET /api/template/tokens
// Lists the canonical fields the template references, in first-appearance
// order. Integrators use it to set up matching custom fields downstream.
func (h *TemplateHandler) GetTemplateTokens(c *gin.Context) {
	tokens := retainer.TemplateTokens()
	names := make([]string, 0, len(tokens))
	for _, t := range tokens {
		names = append(names, string(t))
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    names,
	})
}
