package api

import (
	"errors"

	helper "dp-server/internal/common/helper"
	"dp-server/internal/common/response"
	"dp-server/internal/service"

	beego "github.com/beego/beego/v2/server/web"
)

var newDepositService = service.NewDepositService

// DepositController 会员充值提交接口：POST /api/deposit
// 会员在 MobilePay 打款后提交参考号登记，入账需后台审核通过
type DepositController struct{ beego.Controller }

func (c *DepositController) Submit() {
	dp, ok, msg := helper.ParseAndValidateDeposit(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, helper.GetTraceID(c.Ctx))
		return
	}

	traceID := helper.GetTraceID(c.Ctx)
	playerID := helper.GetContextString(c.Ctx, "player_id")
	if playerID == "" {
		response.Error(&c.Controller, 401, response.CodeUnauthorized, traceID)
		return
	}

	out, err := newDepositService().Submit(c.Ctx.Request.Context(), service.DepositInput{
		PlayerID: playerID,
		PayRef:   dp.PayRef,
		Amount:   dp.Amount,
		TraceID:  traceID,
	})
	if err != nil {
		if errors.Is(err, service.ErrDuplicateDepositRef) {
			response.Conflict(&c.Controller, response.CodeDuplicatePayRef, traceID)
			return
		}
		if errors.Is(err, service.ErrPlayerNotFound) {
			response.NotFound(&c.Controller, "会员不存在", traceID)
			return
		}
		if errors.Is(err, service.ErrPlayerDisabled) {
			response.Error(&c.Controller, 403, response.CodeAccountDisabled, traceID)
			return
		}
		response.InternalError(&c.Controller, traceID)
		return
	}

	response.Success(&c.Controller, map[string]interface{}{
		"deposit_id": out.DepositID,
		"status":     out.Status,
	}, traceID)
}
