package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/repurpose_server/internal/pkg/response"
	"github.com/qs3c/repurpose_server/internal/service"
)

// BalanceChecker 查询积分余额，service.CreditService 满足该接口
type BalanceChecker interface {
	Balance(userID int64) (int, error)
}

// RequireCredits 余额为 0 时直接拒绝，避免无谓的提取和模型调用。
// 真正的扣费仍由条件更新保证
func RequireCredits(credits BalanceChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		balance, err := credits.Balance(userID)
		if err != nil {
			if errors.Is(err, service.ErrUserNotFound) {
				response.AuthError(c, "")
			} else {
				response.ServerError(c, "Failed to check credits")
			}
			c.Abort()
			return
		}

		if balance <= 0 {
			response.CreditsError(c, "")
			c.Abort()
			return
		}

		c.Next()
	}
}
