package api

import (
	"errors"
	"strconv"
	"strings"

	helper "dp-server/internal/common/helper"
	"dp-server/internal/common/response"
	"dp-server/internal/service"

	beego "github.com/beego/beego/v2/server/web"
)

var newLedgerService = service.NewLedgerService

// PlayerController 会员自助查询接口
// 会员只能查询自己的数据，player_id 一律取自 Token
type PlayerController struct{ beego.Controller }

// Balance 余额查询：GET /api/player/balance
func (c *PlayerController) Balance() {
	traceID := helper.GetTraceID(c.Ctx)
	playerID := helper.GetContextString(c.Ctx, "player_id")
	if playerID == "" {
		response.Error(&c.Controller, 401, response.CodeUnauthorized, traceID)
		return
	}

	out, err := newLedgerService().Balance(c.Ctx.Request.Context(), playerID)
	if err != nil {
		if errors.Is(err, service.ErrPlayerNotFound) {
			response.NotFound(&c.Controller, "会员不存在", traceID)
			return
		}
		response.InternalError(&c.Controller, traceID)
		return
	}

	response.Success(&c.Controller, map[string]interface{}{
		"player_id": out.PlayerID,
		"balance":   out.Balance,
		"deposited": out.Deposited,
		"spent":     out.Spent,
	}, traceID)
}

// Boards 购彩记录：GET /api/player/boards?round_id=&offset=&limit=
func (c *PlayerController) Boards() {
	traceID := helper.GetTraceID(c.Ctx)
	playerID := helper.GetContextString(c.Ctx, "player_id")
	if playerID == "" {
		response.Error(&c.Controller, 401, response.CodeUnauthorized, traceID)
		return
	}

	roundID := strings.TrimSpace(c.Ctx.Input.Query("round_id"))
	offset := parseUintQuery(c.Ctx.Input.Query("offset"))
	limit := parseUintQuery(c.Ctx.Input.Query("limit"))

	boards, err := newLedgerService().ListBoards(c.Ctx.Request.Context(), playerID, roundID, offset, limit)
	if err != nil {
		response.InternalError(&c.Controller, traceID)
		return
	}

	list := make([]map[string]interface{}, 0, len(boards))
	for _, b := range boards {
		list = append(list, map[string]interface{}{
			"board_id":        b.BoardID,
			"round_id":        b.RoundID,
			"chosen_numbers":  b.ChosenNumbers,
			"number_count":    b.NumberCount,
			"price":           b.Price,
			"is_repeating":    b.IsRepeating == 1,
			"repeat_group_id": b.RepeatGroupID,
			"created_at":      b.CreatedAt,
		})
	}
	response.Success(&c.Controller, map[string]interface{}{
		"boards": list,
		"count":  len(list),
	}, traceID)
}

// Deposits 充值记录：GET /api/player/deposits?limit=
func (c *PlayerController) Deposits() {
	traceID := helper.GetTraceID(c.Ctx)
	playerID := helper.GetContextString(c.Ctx, "player_id")
	if playerID == "" {
		response.Error(&c.Controller, 401, response.CodeUnauthorized, traceID)
		return
	}

	limit := int(parseUintQuery(c.Ctx.Input.Query("limit")))
	deposits, err := newLedgerService().ListDeposits(c.Ctx.Request.Context(), playerID, limit)
	if err != nil {
		response.InternalError(&c.Controller, traceID)
		return
	}

	list := make([]map[string]interface{}, 0, len(deposits))
	for _, d := range deposits {
		list = append(list, map[string]interface{}{
			"deposit_id": d.DepositID,
			"pay_ref":    d.PayRef,
			"amount":     d.Amount,
			"status":     d.StatusStr,
			"created_at": d.CreatedAt,
		})
	}
	response.Success(&c.Controller, map[string]interface{}{
		"deposits": list,
		"count":    len(list),
	}, traceID)
}

// Deposit 单笔充值单查询：GET /api/player/deposit?deposit_id=
// 只能查自己的单据，不属于本人时按不存在处理
func (c *PlayerController) Deposit() {
	traceID := helper.GetTraceID(c.Ctx)
	playerID := helper.GetContextString(c.Ctx, "player_id")
	if playerID == "" {
		response.Error(&c.Controller, 401, response.CodeUnauthorized, traceID)
		return
	}

	depositID := strings.TrimSpace(c.Ctx.Input.Query("deposit_id"))
	if depositID == "" || len(depositID) > 64 {
		response.BadRequest(&c.Controller, "deposit_id required", traceID)
		return
	}

	d, err := newLedgerService().GetDeposit(c.Ctx.Request.Context(), playerID, depositID)
	if err != nil {
		if errors.Is(err, service.ErrDepositNotFound) {
			response.NotFound(&c.Controller, "充值单不存在", traceID)
			return
		}
		response.InternalError(&c.Controller, traceID)
		return
	}

	response.Success(&c.Controller, map[string]interface{}{
		"deposit_id":  d.DepositID,
		"pay_ref":     d.PayRef,
		"amount":      d.Amount,
		"status":      d.StatusStr,
		"reviewed_at": d.ReviewedAt,
		"created_at":  d.CreatedAt,
	}, traceID)
}

func parseUintQuery(s string) uint {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint(v)
}
