package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/siakad-backend/internal/middleware"
	"github.com/stemsi/siakad-backend/internal/model"
	"github.com/stemsi/siakad-backend/internal/response"
	"github.com/stemsi/siakad-backend/internal/service"
	"github.com/stemsi/siakad-backend/internal/validator"
)

// PromotionHandler handles batch promotion of students between sessions.
type PromotionHandler struct {
	promotionService *service.PromotionService
}

// NewPromotionHandler creates a new PromotionHandler.
func NewPromotionHandler(promotionService *service.PromotionService) *PromotionHandler {
	return &PromotionHandler{promotionService: promotionService}
}

// PromoteStudents godoc
// POST /api/v1/admin/promotions
// Copies student records from a closed source session into the active
// target session. Individual failures appear in the result; the rest of
// the batch still goes through.
func (h *PromotionHandler) PromoteStudents(c *gin.Context) {
	var req model.PromoteStudentsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}
	claims := middleware.GetClaims(c)

	result, err := h.promotionService.Promote(c.Request.Context(), claims.InstitutionID, &req)
	if err != nil {
		failFromService(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"result": result})
}
