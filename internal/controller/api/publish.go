package api

import (
	"errors"

	helper "dp-server/internal/common/helper"
	"dp-server/internal/common/response"
	"dp-server/internal/service"

	beego "github.com/beego/beego/v2/server/web"
)

var newPublishService = service.NewPublishService

type PublishController struct{ beego.Controller }

// Publish 人工开奖接口：POST /api/admin/publish
// 开奖号码一经公布不可变更，重复提交返回 409
func (c *PublishController) Publish() {
	pp, ok, msg := helper.ParseAndValidatePublish(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, helper.GetTraceID(c.Ctx))
		return
	}

	svc := newPublishService()
	traceID := helper.GetTraceID(c.Ctx)
	operator := helper.GetContextString(c.Ctx, "admin_username")

	if err := svc.PublishWinningNumbers(c.Ctx.Request.Context(), service.PublishInput{
		RoundID:  pp.RoundId,
		Numbers:  pp.Numbers,
		Operator: operator,
		TraceID:  traceID,
	}); err != nil {
		if errors.Is(err, service.ErrInvalidWinningNumbers) {
			response.Error(&c.Controller, 400, response.CodeInvalidWinning, traceID)
			return
		}
		if errors.Is(err, service.ErrRoundNotFound) {
			response.NotFound(&c.Controller, "期次不存在", traceID)
			return
		}
		if errors.Is(err, service.ErrAlreadyPublished) {
			response.Conflict(&c.Controller, response.CodeAlreadyPublished, traceID)
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
