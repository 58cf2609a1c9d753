package api

import (
	"errors"

	helper "dp-server/internal/common/helper"
	"dp-server/internal/common/response"
	"dp-server/internal/service"

	beego "github.com/beego/beego/v2/server/web"
)

var newSettleService = service.NewSettleService

// SettleController 处理结算接口：POST /api/admin/settle
// 结算可重复执行（整期重写），同一开奖号码重算结果一致
type SettleController struct{ beego.Controller }

func (c *SettleController) Settle() {
	sp, ok, msg := helper.ParseAndValidateSettle(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, helper.GetTraceID(c.Ctx))
		return
	}

	svc := newSettleService()
	traceID := helper.GetTraceID(c.Ctx)
	operator := helper.GetContextString(c.Ctx, "admin_username")

	out, err := svc.SettleRound(c.Ctx.Request.Context(), service.SettleInput{
		RoundID:  sp.RoundId,
		Operator: operator,
		TraceID:  traceID,
	})
	if err != nil {
		if errors.Is(err, service.ErrBadRequest) {
			response.BadRequest(&c.Controller, "invalid request", traceID)
			return
		}
		if errors.Is(err, service.ErrRoundNotFound) {
			response.NotFound(&c.Controller, "期次不存在", traceID)
			return
		}
		if errors.Is(err, service.ErrRoundNotDrawn) {
			response.Conflict(&c.Controller, response.CodeRoundNotDrawn, traceID)
			return
		}
		// 状态机拒绝（如对开放中的期次结算）
		response.Conflict(&c.Controller, response.CodeInvalidState, traceID)
		return
	}

	records := make([]map[string]interface{}, 0, len(out.Records))
	for _, r := range out.Records {
		records = append(records, map[string]interface{}{
			"board_id":        r.BoardID,
			"player_id":       r.PlayerID,
			"numbers_matched": r.NumbersMatched,
			"share":           out.Split.PerWinner,
		})
	}

	response.Success(&c.Controller, map[string]interface{}{
		"round_id":     out.RoundID,
		"total_boards": out.TotalBoards,
		"winner_count": out.WinnerCount,
		"total_pool":   out.Split.Pool,
		"club_profit":  out.Split.ClubProfit,
		"winners_pool": out.Split.WinnersPool,
		"per_winner":   out.Split.PerWinner,
		"remainder":    out.Split.Remainder,
		"records":      records,
	}, traceID)
}
