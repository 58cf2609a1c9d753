package api

import (
	"errors"
	"strings"

	helper "dp-server/internal/common/helper"
	"dp-server/internal/common/response"
	"dp-server/internal/service"

	beego "github.com/beego/beego/v2/server/web"

	mysqlerr "github.com/go-sql-driver/mysql"
)

var newPurchaseService = service.NewPurchaseService

type PurchaseController struct{ beego.Controller }

// Purchase 购彩接口：POST /api/purchase
// 会员身份由认证中间件注入，请求体只携带期次、号码与幂等键
func (c *PurchaseController) Purchase() {
	// 1) 解析入参与基本校验
	// 这里必须要对业务参数严格校验，后续service不再重复校验输入格式
	pp, ok, msg := helper.ParseAndValidatePurchase(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, helper.GetTraceID(c.Ctx))
		return
	}

	svc := newPurchaseService()
	traceID := helper.GetTraceID(c.Ctx)

	// 会员ID由 PlayerAuthFilter 注入，缺失说明过滤器未挂载
	playerID := helper.GetContextString(c.Ctx, "player_id")
	if playerID == "" {
		response.Error(&c.Controller, 401, response.CodeUnauthorized, traceID)
		return
	}

	out, err := svc.PurchaseBoard(c.Ctx.Request.Context(), service.PurchaseInput{
		PlayerID:       playerID,
		RoundID:        pp.RoundId,
		Numbers:        pp.Numbers,
		RepeatRounds:   pp.RepeatRounds,
		IdempotencyKey: pp.IdempotencyKey,
		TraceID:        traceID,
	})
	if err != nil {
		// MySQL 唯一键冲突
		if me, ok := err.(*mysqlerr.MySQLError); ok && me.Number == 1062 {
			response.Conflict(&c.Controller, response.CodeDuplicateKey, traceID)
			return
		}
		// 重复请求进行中
		if errors.Is(err, service.ErrDuplicateInFlight) {
			response.Accepted(&c.Controller, "重复请求进行中，请稍后重试", traceID)
			return
		}
		// 号码选择不合法
		if errors.Is(err, service.ErrInvalidSelection) {
			response.Error(&c.Controller, 400, response.CodeInvalidSelection, traceID)
			return
		}
		// 期次不存在
		if errors.Is(err, service.ErrRoundNotFound) {
			response.NotFound(&c.Controller, "期次不存在", traceID)
			return
		}
		// 期次已截止购彩（已开奖/已结算/超过截止时间）
		if errors.Is(err, service.ErrRoundClosed) {
			response.Conflict(&c.Controller, response.CodeRoundClosed, traceID)
			return
		}
		// 连投可用期次不足
		if errors.Is(err, service.ErrInsufficientOpenRounds) {
			response.Conflict(&c.Controller, response.CodeNotEnoughRounds, traceID)
			return
		}
		// 余额不足
		if errors.Is(err, service.ErrInsufficientBalance) {
			response.Error(&c.Controller, 400, response.CodeInsufficientBalance, traceID)
			return
		}
		// 会员状态异常
		if errors.Is(err, service.ErrPlayerDisabled) {
			response.Error(&c.Controller, 403, response.CodeAccountDisabled, traceID)
			return
		}
		if errors.Is(err, service.ErrPlayerNotFound) {
			response.NotFound(&c.Controller, "会员不存在", traceID)
			return
		}
		// 连投期数超限
		if strings.Contains(err.Error(), "repeat rounds exceeds maximum limit") {
			response.BadRequest(&c.Controller, err.Error(), traceID)
			return
		}
		// 系统错误
		response.InternalError(&c.Controller, traceID)
		return
	}

	// 成功响应
	response.Success(&c.Controller, map[string]interface{}{
		"board_ids":       out.BoardIDs,
		"round_ids":       out.RoundIDs,
		"repeat_group_id": out.RepeatGroupID,
		"total_price":     out.TotalPrice,
		"remain_amount":   out.RemainAmount,
	}, traceID)
}
