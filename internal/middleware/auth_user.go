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

// PlayerAuthFilter 会员认证过滤器（JWT Token）
// 验证会员的 JWT Token，把 player_id 注入 context 供控制器显式取用
func PlayerAuthFilter(ctx *beegocontext.Context) {
	traceID := helper.GetTraceID(ctx)

	// 辅助函数：返回错误
	returnError := func(httpCode int, bizCode int, message string) {
		ctx.Output.SetStatus(httpCode)
		ctx.Output.JSON(response.APIResponse{
			Code:      bizCode,
			Message:   message,
			Data:      nil,
			TraceID:   traceID,
			Timestamp: time.Now().UnixMilli(),
		}, false, false)
	}

	// 1. 验证 JWT Token
	claims, err := auth.VerifyJWTToken(ctx)
	if err != nil {
		logger.Warn("player authentication failed",
			zap.String("trace_id", traceID),
			zap.Error(err))

		// 根据错误类型返回不同的错误码
		switch err {
		case auth.ErrMissingToken:
			returnError(401, response.CodeUnauthorized, "缺少认证Token")
		case auth.ErrInvalidTokenFormat:
			returnError(401, response.CodeInvalidToken, "Token格式无效")
		case auth.ErrInvalidToken:
			returnError(401, response.CodeInvalidToken, "Token无效")
		case auth.ErrTokenExpired:
			returnError(401, response.CodeTokenExpired, "Token已过期")
		case auth.ErrTokenRevoked:
			returnError(401, response.CodeTokenRevoked, "Token已撤销")
		default:
			returnError(401, response.CodeUnauthorized, "认证失败")
		}
		return
	}

	// 2. 角色校验：会员接口只接受 player 角色
	if claims.Role != auth.RolePlayer {
		logger.Warn("role mismatch",
			zap.String("trace_id", traceID),
			zap.String("role", claims.Role))
		returnError(403, response.CodeForbidden, "角色不匹配")
		return
	}

	// 3. 将会员信息存入 context
	ctx.Input.SetData("player_id", claims.SubjectID)
	ctx.Input.SetData("player_name", claims.Name)
	ctx.Input.SetData("jwt_claims", claims)

	logger.Debug("player authentication successful",
		zap.String("trace_id", traceID),
		zap.String("player_id", claims.SubjectID))
}
