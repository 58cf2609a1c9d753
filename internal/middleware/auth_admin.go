package middleware

import (
	"time"

	"dp-server/common/logger"
	"dp-server/internal/auth"
	"dp-server/internal/common/helper"
	"dp-server/internal/common/response"

	beegocontext "github.com/beego/beego/v2/server/web/context"
	"go.uber.org/zap"
)

// AdminAuthFilter 后台操作员认证过滤器（JWT Token）
// 用于保护管理接口（开期、开奖、结算、充值审核等）
func AdminAuthFilter(ctx *beegocontext.Context) {
	traceID := helper.GetTraceID(ctx)

	// 辅助函数：返回认证错误
	returnAuthError := func(httpCode int, bizCode int, message string) {
		ctx.Output.SetStatus(httpCode)
		ctx.Output.JSON(response.APIResponse{
			Code:      bizCode,
			Message:   message,
			Data:      nil,
			TraceID:   traceID,
			Timestamp: time.Now().UnixMilli(),
		}, false, false)
	}

	claims, err := auth.VerifyJWTToken(ctx)
	if err != nil {
		logger.Warn("admin authentication failed",
			zap.String("trace_id", traceID),
			zap.Error(err))

		switch err {
		case auth.ErrMissingToken:
			returnAuthError(401, response.CodeUnauthorized, "缺少管理员认证信息")
		case auth.ErrInvalidTokenFormat:
			returnAuthError(401, response.CodeInvalidToken, "无效的认证格式")
		case auth.ErrTokenExpired:
			returnAuthError(401, response.CodeTokenExpired, "Token已过期")
		case auth.ErrTokenRevoked:
			returnAuthError(401, response.CodeTokenRevoked, "Token已撤销")
		default:
			returnAuthError(401, response.CodeInvalidToken, "无效的管理员Token")
		}
		return
	}

	// 角色校验：管理接口只接受 admin 角色
	if claims.Role != auth.RoleAdmin {
		logger.Warn("admin role mismatch",
			zap.String("trace_id", traceID),
			zap.String("subject_id", claims.SubjectID),
			zap.String("role", claims.Role))
		returnAuthError(403, response.CodeForbidden, "需要管理员权限")
		return
	}

	// 标记为管理员请求，操作员用户名供审计使用
	ctx.Input.SetData("is_admin", true)
	ctx.Input.SetData("admin_username", claims.SubjectID)

	logger.Debug("admin authentication successful",
		zap.String("trace_id", traceID),
		zap.String("admin_username", claims.SubjectID))
}
