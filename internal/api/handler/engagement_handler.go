package handler

import (
	"Hitoiki/internal/api/dto"
	"Hitoiki/internal/pkg/response"
	"Hitoiki/internal/service"
	"context"
	"strconv"

	"github.com/gin-gonic/gin"
)

type EngagementHandler struct {
	engagementSvc service.EngagementService
}

func NewEngagementHandler(engagementSvc service.EngagementService) *EngagementHandler {
	return &EngagementHandler{
		engagementSvc: engagementSvc,
	}
}

// RecordView 访问计数，匿名也计
func (s *EngagementHandler) RecordView(c *gin.Context) {
	articleID, err := strconv.ParseUint(c.Param("article_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	if err = s.engagementSvc.RecordView(c.Request.Context(), articleID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

func (s *EngagementHandler) Like(c *gin.Context) {
	articleID, err := strconv.ParseUint(c.Param("article_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetString("user_id")

	result, err := s.engagementSvc.RecordLike(c.Request.Context(), articleID, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

func (s *EngagementHandler) GetEngagement(c *gin.Context) {
	s.respondCounts(c, s.engagementSvc.GetEngagement)
}

func (s *EngagementHandler) GetDailyEngagement(c *gin.Context) {
	s.respondCounts(c, s.engagementSvc.GetDailyEngagement)
}

func (s *EngagementHandler) GetLifetimeEngagement(c *gin.Context) {
	s.respondCounts(c, s.engagementSvc.GetLifetimeEngagement)
}

func (s *EngagementHandler) respondCounts(c *gin.Context, fetch func(ctx context.Context, articleID uint64) (*dto.EngagementDTO, error)) {
	articleID, err := strconv.ParseUint(c.Param("article_id"), 10, 64)
	if err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	counts, err := fetch(c.Request.Context(), articleID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, counts)
}
