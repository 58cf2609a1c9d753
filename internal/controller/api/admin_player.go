package api

import (
	"errors"
	"strings"

	helper "dp-server/internal/common/helper"
	"dp-server/internal/common/response"
	"dp-server/internal/service"

	beego "github.com/beego/beego/v2/server/web"
)

var newPlayerAdminSvc = service.NewPlayerAdminService

// AdminPlayerController 后台会员管理：开户、列表、启用/禁用、操作员创建
// 会员不开放自助注册，全部由后台操作员录入
type AdminPlayerController struct{ beego.Controller }

// Create 开户：POST /api/admin/player
func (c *AdminPlayerController) Create() {
	pp, ok, msg := helper.ParseAndValidatePlayerCreate(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, helper.GetTraceID(c.Ctx))
		return
	}

	traceID := helper.GetTraceID(c.Ctx)
	operator := helper.GetContextString(c.Ctx, "admin_username")

	p, err := newPlayerAdminSvc().CreatePlayer(c.Ctx.Request.Context(), service.CreatePlayerInput{
		FirstName: pp.FirstName,
		LastName:  pp.LastName,
		Email:     pp.Email,
		Phone:     pp.Phone,
		Password:  pp.Password,
		Operator:  operator,
		TraceID:   traceID,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidEmail) {
			response.BadRequest(&c.Controller, "invalid email", traceID)
			return
		}
		if errors.Is(err, service.ErrInvalidPhone) {
			response.BadRequest(&c.Controller, "invalid phone", traceID)
			return
		}
		if errors.Is(err, service.ErrWeakPassword) {
			response.BadRequest(&c.Controller, "password too short", traceID)
			return
		}
		if errors.Is(err, service.ErrDuplicateEmail) {
			response.Conflict(&c.Controller, response.CodeDuplicateEmail, traceID)
			return
		}
		if errors.Is(err, service.ErrBadRequest) {
			response.BadRequest(&c.Controller, "invalid request", traceID)
			return
		}
		response.InternalError(&c.Controller, traceID)
		return
	}

	response.Success(&c.Controller, map[string]interface{}{
		"player_id":  p.PlayerID,
		"full_name":  p.FullName(),
		"email":      p.Email,
		"status":     p.Status,
		"created_at": p.CreatedAt,
	}, traceID)
}

// List 会员列表：GET /api/admin/players?only_active=&limit=
func (c *AdminPlayerController) List() {
	traceID := helper.GetTraceID(c.Ctx)

	onlyActive := strings.EqualFold(strings.TrimSpace(c.Ctx.Input.Query("only_active")), "true")
	limit := int(parseUintQuery(c.Ctx.Input.Query("limit")))

	views, err := newPlayerAdminSvc().ListPlayers(c.Ctx.Request.Context(), onlyActive, limit)
	if err != nil {
		response.InternalError(&c.Controller, traceID)
		return
	}

	response.Success(&c.Controller, map[string]interface{}{
		"players": views,
		"count":   len(views),
	}, traceID)
}

// Status 启用/禁用会员：PATCH /api/admin/player/status
// 禁用只拦新购彩，已售出的票照常参与结算
func (c *AdminPlayerController) Status() {
	sp, ok, msg := helper.ParseAndValidatePlayerStatus(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, helper.GetTraceID(c.Ctx))
		return
	}

	traceID := helper.GetTraceID(c.Ctx)
	operator := helper.GetContextString(c.Ctx, "admin_username")

	err := newPlayerAdminSvc().SetPlayerStatus(c.Ctx.Request.Context(), service.SetPlayerStatusInput{
		PlayerID: sp.PlayerId,
		Active:   sp.Action == "enable",
		Operator: operator,
		TraceID:  traceID,
	})
	if err != nil {
		if errors.Is(err, service.ErrPlayerNotFound) {
			response.NotFound(&c.Controller, "会员不存在", traceID)
			return
		}
		if errors.Is(err, service.ErrBadRequest) {
			response.BadRequest(&c.Controller, "invalid request", traceID)
			return
		}
		response.InternalError(&c.Controller, traceID)
		return
	}
	response.Success(&c.Controller, nil, traceID)
}

// CreateOperator 新增后台操作员：POST /api/admin/operator
func (c *AdminPlayerController) CreateOperator() {
	op, ok, msg := helper.ParseAndValidateOperatorCreate(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, helper.GetTraceID(c.Ctx))
		return
	}

	traceID := helper.GetTraceID(c.Ctx)
	operator := helper.GetContextString(c.Ctx, "admin_username")

	a, err := newPlayerAdminSvc().CreateOperator(c.Ctx.Request.Context(), service.CreateOperatorInput{
		Username: op.Username,
		Password: op.Password,
		Operator: operator,
		TraceID:  traceID,
	})
	if err != nil {
		if errors.Is(err, service.ErrWeakPassword) {
			response.BadRequest(&c.Controller, "password too short", traceID)
			return
		}
		if errors.Is(err, service.ErrDuplicateUsername) {
			response.Conflict(&c.Controller, response.CodeDuplicateKey, traceID)
			return
		}
		if errors.Is(err, service.ErrBadRequest) {
			response.BadRequest(&c.Controller, "invalid request", traceID)
			return
		}
		response.InternalError(&c.Controller, traceID)
		return
	}

	response.Success(&c.Controller, map[string]interface{}{
		"username": a.Username,
		"status":   a.Status,
	}, traceID)
}
