package api

import (
	"errors"
	"strings"

	helper "dp-server/internal/common/helper"
	"dp-server/internal/common/response"
	"dp-server/internal/service"

	beego "github.com/beego/beego/v2/server/web"
)

var newAuthService = service.NewAuthService

// AuthController 登录/注销接口
// 会员用邮箱登录，后台操作员用用户名登录，角色写入 Token
type AuthController struct{ beego.Controller }

// Login 登录：POST /api/auth/login
func (c *AuthController) Login() {
	lp, ok, msg := helper.ParseAndValidateLogin(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, helper.GetTraceID(c.Ctx))
		return
	}

	svc := newAuthService()
	traceID := helper.GetTraceID(c.Ctx)

	var (
		pair *service.TokenPair
		err  error
	)
	if lp.Role == "admin" {
		pair, err = svc.AdminLogin(c.Ctx.Request.Context(), lp.Username, lp.Password)
	} else {
		pair, err = svc.PlayerLogin(c.Ctx.Request.Context(), lp.Email, lp.Password)
	}
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Error(&c.Controller, 401, response.CodeInvalidCredentials, traceID)
			return
		}
		if errors.Is(err, service.ErrAccountDisabled) {
			response.Error(&c.Controller, 403, response.CodeAccountDisabled, traceID)
			return
		}
		response.InternalError(&c.Controller, traceID)
		return
	}

	response.Success(&c.Controller, map[string]interface{}{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"subject_id":    pair.SubjectID,
		"name":          pair.Name,
		"role":          pair.Role,
	}, traceID)
}

// Logout 注销：POST /api/auth/logout
// 将当前 Token 加入黑名单，幂等
func (c *AuthController) Logout() {
	traceID := helper.GetTraceID(c.Ctx)

	tokenString := ""
	authHeader := strings.TrimSpace(c.Ctx.Input.Header("Authorization"))
	if parts := strings.Split(authHeader, " "); len(parts) == 2 && parts[0] == "Bearer" {
		tokenString = parts[1]
	}

	if err := newAuthService().Logout(c.Ctx.Request.Context(), tokenString); err != nil {
		response.InternalError(&c.Controller, traceID)
		return
	}
	response.Success(&c.Controller, nil, traceID)
}
