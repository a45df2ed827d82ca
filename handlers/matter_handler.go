package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"

	"caseintake-backend/models"
	"caseintake-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MatterHandler handles HTTP requests for matters and the intake flow
type MatterHandler struct {
	matterService   *service.MatterService
	retainerService *service.RetainerService
	processService  *service.ProcessService
}

// NewMatterHandler creates a new matter handler
func NewMatterHandler(matterService *service.MatterService, retainerService *service.RetainerService, processService *service.ProcessService) *MatterHandler {
	return &MatterHandler{
		matterService:   matterService,
		retainerService: retainerService,
		processService:  processService,
	}
}

// CreateMatterRequest represents the request body for creating a matter
type CreateMatterRequest struct {
	UserID       string  `json:"user_id" binding:"required"`
	CaseTitle    string  `json:"case_title" binding:"required"`
	ClioMatterID *string `json:"clio_matter_id"`
}

// CreateMatter handles POST /api/matters
func (h *MatterHandler) CreateMatter(c *gin.Context) {
	var req CreateMatterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "Invalid user_id format",
			},
		})
		return
	}

	serviceReq := service.CreateMatterRequest{
		UserID:       userID,
		CaseTitle:    req.CaseTitle,
		ClioMatterID: req.ClioMatterID,
	}

	result, err := h.matterService.CreateMatter(c.Request.Context(), serviceReq)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "CREATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    result.Matter,
	})
}

// GetMatter handles GET /api/matters/:id
func (h *MatterHandler) GetMatter(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid matter ID format",
			},
		})
		return
	}

	result, err := h.matterService.GetMatter(c.Request.Context(), service.GetMatterRequest{ID: id})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Matter not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Matter,
	})
}

// ListMatters handles GET /api/matters
func (h *MatterHandler) ListMatters(c *gin.Context) {
	userIDStr := c.Query("user_id")
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "Valid user_id query parameter is required",
			},
		})
		return
	}

	var status *models.MatterStatus
	if statusStr := c.Query("status"); statusStr != "" {
		s := models.MatterStatus(statusStr)
		status = &s
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	result, err := h.matterService.ListMatters(c.Request.Context(), service.ListMattersRequest{
		UserID: userID,
		Status: status,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "LIST_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Matters,
	})
}

// UpdateMatterRequest represents the request body for updating a matter
type UpdateMatterRequest struct {
	CaseTitle    string  `json:"case_title"`
	ClioMatterID *string `json:"clio_matter_id"`
	ReportFileID *string `json:"report_file_id"`
}

// UpdateMatter handles PUT /api/matters/:id
func (h *MatterHandler) UpdateMatter(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid matter ID format",
			},
		})
		return
	}

	getResult, err := h.matterService.GetMatter(c.Request.Context(), service.GetMatterRequest{ID: id})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Matter not found",
			},
		})
		return
	}

	matter := getResult.Matter

	var req UpdateMatterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	if req.CaseTitle != "" {
		matter.CaseTitle = req.CaseTitle
	}
	if req.ClioMatterID != nil {
		matter.ClioMatterID = req.ClioMatterID
	}
	if req.ReportFileID != nil {
		fileID, err := uuid.Parse(*req.ReportFileID)
		if err == nil {
			matter.ReportFileID = &fileID
		}
	}

	result, err := h.matterService.UpdateMatter(c.Request.Context(), service.UpdateMatterRequest{Matter: matter})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UPDATE_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Matter,
	})
}

// ExtractMatter handles POST /api/matters/:id/extract
// Extraction is synchronous; the model call can take up to two minutes, so
// the route is registered with a generous timeout.
func (h *MatterHandler) ExtractMatter(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid matter ID format",
			},
		})
		return
	}

	result, err := h.matterService.ExtractMatter(c.Request.Context(), service.ExtractMatterRequest{MatterID: id})
	if err != nil {
		status := http.StatusInternalServerError
		code := "EXTRACTION_FAILED"
		switch {
		case errors.Is(err, service.ErrMatterNotFound):
			status, code = http.StatusNotFound, "NOT_FOUND"
		case errors.Is(err, service.ErrNoReportUploaded):
			status, code = http.StatusBadRequest, "NO_REPORT"
		case errors.Is(err, service.ErrNoExtractorConfigured):
			status, code = http.StatusServiceUnavailable, "NO_EXTRACTOR"
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Matter,
	})
}

// CorrectFieldRequest represents one reviewer correction
type CorrectFieldRequest struct {
	Path  string `json:"path" binding:"required"`
	Value string `json:"value"`
}

// CorrectField handles PATCH /api/matters/:id/extraction
func (h *MatterHandler) CorrectField(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid matter ID format",
			},
		})
		return
	}

	var req CorrectFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_REQUEST",
				"message": err.Error(),
			},
		})
		return
	}

	result, err := h.matterService.CorrectField(c.Request.Context(), service.CorrectFieldRequest{
		MatterID: id,
		Path:     req.Path,
		Value:    req.Value,
	})
	if err != nil {
		status := http.StatusInternalServerError
		code := "CORRECTION_FAILED"
		switch {
		case errors.Is(err, service.ErrMatterNotFound):
			status, code = http.StatusNotFound, "NOT_FOUND"
		case errors.Is(err, service.ErrNoExtraction):
			status, code = http.StatusBadRequest, "NO_EXTRACTION"
		case errors.Is(err, service.ErrMatterNotEditable):
			status, code = http.StatusConflict, "NOT_EDITABLE"
		case errors.Is(err, service.ErrUnknownFieldPath):
			status, code = http.StatusBadRequest, "UNKNOWN_FIELD"
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Matter,
	})
}

// VerifyMatter handles POST /api/matters/:id/verify
func (h *MatterHandler) VerifyMatter(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid matter ID format",
			},
		})
		return
	}

	result, err := h.matterService.VerifyMatter(c.Request.Context(), service.VerifyMatterRequest{MatterID: id})
	if err != nil {
		status := http.StatusInternalServerError
		code := "VERIFY_FAILED"
		switch {
		case errors.Is(err, service.ErrMatterNotFound):
			status, code = http.StatusNotFound, "NOT_FOUND"
		case errors.Is(err, service.ErrNoExtraction):
			status, code = http.StatusBadRequest, "NO_EXTRACTION"
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Matter,
	})
}

// GenerateRetainer handles POST /api/matters/:id/retainer
func (h *MatterHandler) GenerateRetainer(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid matter ID format",
			},
		})
		return
	}

	result, err := h.retainerService.GenerateRetainer(c.Request.Context(), service.GenerateRetainerRequest{MatterID: id})
	if err != nil {
		status := http.StatusInternalServerError
		code := "GENERATION_FAILED"
		switch {
		case errors.Is(err, service.ErrMatterNotFound):
			status, code = http.StatusNotFound, "NOT_FOUND"
		case errors.Is(err, service.ErrNoExtraction):
			status, code = http.StatusBadRequest, "NO_EXTRACTION"
		case errors.Is(err, service.ErrMatterNotVerified):
			status, code = http.StatusConflict, "NOT_VERIFIED"
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data": gin.H{
			"file_id":  result.File.ID,
			"filename": result.Filename,
			"email": gin.H{
				"subject":         result.Email.Subject,
				"body":            result.Email.Body,
				"attachment_name": result.Email.AttachmentName,
			},
		},
	})
}

// ProcessMatter handles POST /api/matters/:id/process
func (h *MatterHandler) ProcessMatter(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid matter ID format",
			},
		})
		return
	}

	// Create job (synchronous, fast)
	result, err := h.processService.StartProcessing(c.Request.Context(), service.StartProcessingRequest{MatterID: id})
	if err != nil {
		status := http.StatusInternalServerError
		code := "PROCESS_FAILED"
		switch {
		case errors.Is(err, service.ErrMatterNotFound):
			status, code = http.StatusNotFound, "NOT_FOUND"
		case errors.Is(err, service.ErrNoExtraction):
			status, code = http.StatusBadRequest, "NO_EXTRACTION"
		case errors.Is(err, service.ErrMatterNotVerified):
			status, code = http.StatusConflict, "NOT_VERIFIED"
		case errors.Is(err, service.ErrNoClioMatter):
			status, code = http.StatusBadRequest, "NO_CLIO_MATTER"
		}
		c.JSON(status, gin.H{
			"success": false,
			"error": gin.H{
				"code":    code,
				"message": err.Error(),
			},
		})
		return
	}

	// Spawn background goroutine for actual processing
	// Use background context (not request context) to avoid cancellation
	go func() {
		bgCtx := context.Background()
		if err := h.processService.ProcessMatter(bgCtx, result.JobID); err != nil {
			log.Printf("Intake job %s failed: %v", result.JobID, err)
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"success": true,
		"data": gin.H{
			"job_id":  result.JobID,
			"status":  "pending",
			"message": "Intake job created. Poll /api/jobs/:id for updates.",
		},
	})
}

// GetJobStatus handles GET /api/jobs/:id
func (h *MatterHandler) GetJobStatus(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_ID",
				"message": "Invalid job ID format",
			},
		})
		return
	}

	result, err := h.processService.GetJobStatus(c.Request.Context(), service.GetJobStatusRequest{JobID: id})
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "NOT_FOUND",
					"message": "Intake job not found",
				},
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "RETRIEVAL_FAILED",
				"message": err.Error(),
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    result.Job,
	})
}
