package handler

import (
	"Hitoiki/internal/api/dto"
	"Hitoiki/internal/pkg/response"
	"Hitoiki/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ModerationHandler struct {
	moderationSvc service.ModerationService
}

func NewModerationHandler(moderationSvc service.ModerationService) *ModerationHandler {
	return &ModerationHandler{
		moderationSvc: moderationSvc,
	}
}

// Decide 审核决定，幂等
func (s *ModerationHandler) Decide(c *gin.Context) {
	articleID, err := strconv.ParseUint(c.Param("article_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	var req dto.ModerationDTO
	if err = c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	result, err := s.moderationSvc.Decide(c.Request.Context(), articleID, req.Decision)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
