package api

import (
	"errors"
	"strconv"
	"strings"

	chelper "dp-server/common/helper"
	helper "dp-server/internal/common/helper"
	"dp-server/internal/common/response"
	infmysql "dp-server/internal/infra/mysql"
	"dp-server/internal/model"
	"dp-server/internal/service"

	beego "github.com/beego/beego/v2/server/web"
)

var (
	newRoundService   = service.NewRoundService
	newPayoutService  = service.NewPayoutService
	reviewDepositeSvc = service.NewDepositService
)

// AdminController 后台管理接口：开期、派彩总览、充值单列表与审核
type AdminController struct{ beego.Controller }

// CreateRound 开期：POST /api/admin/round
func (c *AdminController) CreateRound() {
	rp, ok, msg := helper.ParseAndValidateRoundCreate(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, helper.GetTraceID(c.Ctx))
		return
	}

	traceID := helper.GetTraceID(c.Ctx)
	operator := helper.GetContextString(c.Ctx, "admin_username")

	r, err := newRoundService().CreateRound(c.Ctx.Request.Context(), service.CreateRoundInput{
		ExpiresAt: rp.ExpiresAt,
		Operator:  operator,
		TraceID:   traceID,
	})
	if err != nil {
		if strings.Contains(err.Error(), "expires_at must be in the future") {
			response.BadRequest(&c.Controller, err.Error(), traceID)
			return
		}
		response.InternalError(&c.Controller, traceID)
		return
	}

	response.Success(&c.Controller, map[string]interface{}{
		"round_id":   r.RoundID,
		"seq":        r.ID,
		"status":     r.Status,
		"expires_at": r.ExpiresAt,
	}, traceID)
}

// PayoutOverview 派彩总览：GET /api/admin/payout_overview?round_id=
// 只读推导，线下打款凭此清单执行
func (c *AdminController) PayoutOverview() {
	traceID := helper.GetTraceID(c.Ctx)
	roundID := strings.TrimSpace(c.Ctx.Input.Query("round_id"))
	if roundID == "" || len(roundID) > 64 {
		response.BadRequest(&c.Controller, "round_id required", traceID)
		return
	}

	out, err := newPayoutService().Overview(c.Ctx.Request.Context(), roundID)
	if err != nil {
		if errors.Is(err, service.ErrRoundNotFound) {
			response.NotFound(&c.Controller, "期次不存在", traceID)
			return
		}
		response.InternalError(&c.Controller, traceID)
		return
	}

	response.Success(&c.Controller, out, traceID)
}

// SettlementInfo 结算详情：GET /api/admin/settlement?round_id=
// 返回最近一次结算审计与本期全部中奖记录（重算后以最新为准）
func (c *AdminController) SettlementInfo() {
	traceID := helper.GetTraceID(c.Ctx)
	roundID := strings.TrimSpace(c.Ctx.Input.Query("round_id"))
	if roundID == "" || len(roundID) > 64 {
		response.BadRequest(&c.Controller, "round_id required", traceID)
		return
	}

	db := infmysql.SQLX()
	aud, err := model.GetLastSettlementAudit(c.Ctx.Request.Context(), db, roundID)
	if err != nil {
		if chelper.IsNoRows(err) {
			response.NotFound(&c.Controller, "该期次尚未结算", traceID)
			return
		}
		response.InternalError(&c.Controller, traceID)
		return
	}

	wbs, err := model.ListWinningBoardsByRound(c.Ctx.Request.Context(), db, roundID)
	if err != nil {
		response.InternalError(&c.Controller, traceID)
		return
	}

	records := make([]map[string]interface{}, 0, len(wbs))
	for _, w := range wbs {
		records = append(records, map[string]interface{}{
			"board_id":        w.BoardID,
			"player_id":       w.PlayerID,
			"numbers_matched": w.NumbersMatched,
			"created_at":      w.CreatedAt,
		})
	}

	response.Success(&c.Controller, map[string]interface{}{
		"round_id":        aud.RoundID,
		"batch_no":        aud.BatchNo,
		"winning_numbers": aud.WinningNumbers,
		"total_boards":    aud.TotalBoards,
		"winner_count":    aud.WinnerCount,
		"total_pool":      aud.TotalPool,
		"operator":        aud.Operator,
		"settled_at":      aud.CreatedAt,
		"records":         records,
	}, traceID)
}

// ListDeposits 充值单列表：GET /api/admin/deposits?status=&player_id=&pay_ref=&offset=&limit=
func (c *AdminController) ListDeposits() {
	traceID := helper.GetTraceID(c.Ctx)

	status := int8(0)
	if s := strings.TrimSpace(c.Ctx.Input.Query("status")); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 3 {
			response.BadRequest(&c.Controller, "status must be 1|2|3", traceID)
			return
		}
		status = int8(n)
	}
	playerID := strings.TrimSpace(c.Ctx.Input.Query("player_id"))
	payRef := strings.TrimSpace(c.Ctx.Input.Query("pay_ref"))
	offset := parseUintQuery(c.Ctx.Input.Query("offset"))
	limit := parseUintQuery(c.Ctx.Input.Query("limit"))

	deposits, err := model.ListDeposits(c.Ctx.Request.Context(), infmysql.SQLX(), status, playerID, payRef, offset, limit)
	if err != nil {
		response.InternalError(&c.Controller, traceID)
		return
	}

	list := make([]map[string]interface{}, 0, len(deposits))
	for _, d := range deposits {
		list = append(list, map[string]interface{}{
			"deposit_id":  d.DepositID,
			"player_id":   d.PlayerID,
			"pay_ref":     d.PayRef,
			"amount":      d.Amount,
			"status":      d.StatusStr,
			"reviewed_by": d.ReviewedBy,
			"reviewed_at": d.ReviewedAt,
			"created_at":  d.CreatedAt,
		})
	}
	response.Success(&c.Controller, map[string]interface{}{
		"deposits": list,
		"count":    len(list),
	}, traceID)
}

// ReviewDeposit 充值审核：PATCH /api/admin/deposit/review
// 待审核 -> 已通过/已拒绝，单向流转不可改判
func (c *AdminController) ReviewDeposit() {
	rp, ok, msg := helper.ParseAndValidateDepositReview(c.Ctx)
	if !ok {
		response.BadRequest(&c.Controller, msg, helper.GetTraceID(c.Ctx))
		return
	}

	traceID := helper.GetTraceID(c.Ctx)
	reviewer := helper.GetContextString(c.Ctx, "admin_username")

	err := reviewDepositeSvc().Review(c.Ctx.Request.Context(), service.ReviewDepositInput{
		DepositID: rp.DepositId,
		Approve:   rp.Action == "approve",
		Reviewer:  reviewer,
		TraceID:   traceID,
	})
	if err != nil {
		if errors.Is(err, service.ErrDepositNotFound) {
			response.NotFound(&c.Controller, "充值单不存在", traceID)
			return
		}
		if errors.Is(err, service.ErrDepositFinal) {
			response.Conflict(&c.Controller, response.CodeDepositFinal, traceID)
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
