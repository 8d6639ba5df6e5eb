package handlers

import (
	"net/http"
	"path/filepath"

	"bitwill.backend/internal/domain/entities"
	domainerrors "bitwill.backend/internal/domain/errors"
	"bitwill.backend/internal/interfaces/http/middleware"
	"bitwill.backend/internal/interfaces/http/response"
	"bitwill.backend/internal/usecases"
	"bitwill.backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// WillHandler handles will endpoints
type WillHandler struct {
	willUsecase *usecases.WillUsecase
}

// NewWillHandler creates a new will handler
func NewWillHandler(willUsecase *usecases.WillUsecase) *WillHandler {
	return &WillHandler{
		willUsecase: willUsecase,
	}
}

// Template returns the empty draft skeleton
// GET /api/v1/wills/template
func (h *WillHandler) Template(c *gin.Context) {
	response.Success(c, http.StatusOK, h.willUsecase.Template())
}

// Create persists a new will
// POST /api/v1/wills
func (h *WillHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Not authenticated"))
		return
	}

	var input entities.WillInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	will, err := h.willUsecase.Create(c.Request.Context(), userID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusCreated, will)
}

// List returns the user's will summaries
// GET /api/v1/wills
func (h *WillHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.Error(c, domainerrors.Unauthorized("Not authenticated"))
		return
	}

	var query utils.PaginationParams
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}
	params := utils.GetPaginationParams(query.Page, query.Limit)

	summaries, total, err := h.willUsecase.List(c.Request.Context(), userID, params.Limit, params.CalculateOffset())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"wills":      summaries,
		"pagination": utils.CalculateMeta(total, params.Page, params.Limit),
	})
}

// Get returns a full will for editing
// GET /api/v1/wills/:id
func (h *WillHandler) Get(c *gin.Context) {
	userID, willID, ok := h.authAndID(c)
	if !ok {
		return
	}

	will, err := h.willUsecase.Get(c.Request.Context(), userID, willID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, will)
}

// Update replaces a will's content
// PUT /api/v1/wills/:id
func (h *WillHandler) Update(c *gin.Context) {
	userID, willID, ok := h.authAndID(c)
	if !ok {
		return
	}

	var input entities.WillInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, domainerrors.BadRequest(err.Error()))
		return
	}

	will, err := h.willUsecase.Update(c.Request.Context(), userID, willID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, will)
}

// Generate renders the will's document
// POST /api/v1/wills/:id/generate
func (h *WillHandler) Generate(c *gin.Context) {
	userID, willID, ok := h.authAndID(c)
	if !ok {
		return
	}

	result, err := h.willUsecase.Generate(c.Request.Context(), userID, willID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, result)
}

// Download serves the generated document. Access is granted either by
// the owner's bearer token or by a signed download token query param.
// GET /api/v1/wills/:id/download
func (h *WillHandler) Download(c *gin.Context) {
	willID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid will ID"))
		return
	}

	var path string
	if downloadToken := c.Query("token"); downloadToken != "" {
		path, err = h.willUsecase.DocumentPathByToken(c.Request.Context(), downloadToken)
	} else {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			response.Error(c, domainerrors.Unauthorized("Not authenticated"))
			return
		}
		path, err = h.willUsecase.DocumentPath(c.Request.Context(), userID, willID)
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	c.FileAttachment(path, filepath.Base(path))
}

// Delete soft deletes a will
// DELETE /api/v1/wills/:id
func (h *WillHandler) Delete(c *gin.Context) {
	userID, willID, ok := h.authAndID(c)
	if !ok {
		return
	}

	if err := h.willUsecase.Delete(c.Request.Context(), userID, willID); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "Will deleted"})
}

func (h *WillHandler) authAndID(c *gin.Context) (userID, willID uuid.UUID, ok bool) {
	userID, authed := middleware.GetUserID(c)
	if !authed {
		response.Error(c, domainerrors.Unauthorized("Not authenticated"))
		return uuid.Nil, uuid.Nil, false
	}

	willID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, domainerrors.BadRequest("Invalid will ID"))
		return uuid.Nil, uuid.Nil, false
	}
	return userID, willID, true
}
