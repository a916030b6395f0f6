package handler

import (
	"Hitoiki/internal/pkg/consts"

	"github.com/gin-gonic/gin"
)

// isModerator 审核员或管理员
func isModerator(c *gin.Context) bool {
	for _, role := range c.GetStringSlice("roles") {
		if role == consts.RoleModerator || role == consts.RoleAdmin {
			return true
		}
	}
	return false
}
