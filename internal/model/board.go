package model

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/jmoiron/sqlx"

	"dp-server/common"
)

// Board 对应 boards 表（已售出的彩票，不可变更）
// 说明：chosen_numbers 存为升序CSV（如 "1,4,9,12,16"）；价格由号码个数决定
// 连投购买会按覆盖的期次逐期落行，同组共享 repeat_group_id
type Board struct {
	BoardID        string  `db:"board_id"`        // 彩票ID（UUID 主键）
	PlayerID       string  `db:"player_id"`       // 会员ID
	RoundID        string  `db:"round_id"`        // 期次ID
	ChosenNumbers  string  `db:"chosen_numbers"`  // 所选号码CSV（升序）
	NumberCount    int8    `db:"number_count"`    // 号码个数 5-8
	Price          float64 `db:"price"`           // 票价（由号码个数决定）
	IsRepeating    int8    `db:"is_repeating"`    // 是否连投: 0=单期 1=连投
	RepeatGroupID  string  `db:"repeat_group_id"` // 连投组ID（单期为空串）
	IdempotencyKey string  `db:"idempotency_key"` // 幂等键
	TraceID        string  `db:"trace_id"`        // 链路追踪ID
	CreatedAt      int64   `db:"created_at"`      // 购买时间（服务端时间）
}

// Insert 插入一张彩票
func (b *Board) Insert(ctx context.Context, exec sqlx.ExtContext) error {
	now := time.Now().UnixMilli()
	if b.CreatedAt == 0 {
		b.CreatedAt = now
	}

	sqlStr := `INSERT INTO boards (board_id, player_id, round_id, chosen_numbers, number_count, price, is_repeating, repeat_group_id, idempotency_key, trace_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := exec.ExecContext(ctx, sqlStr, b.BoardID, b.PlayerID, b.RoundID, b.ChosenNumbers, b.NumberCount,
		b.Price, b.IsRepeating, b.RepeatGroupID, b.IdempotencyKey, b.TraceID, b.CreatedAt)
	return err
}

// SumPriceByPlayer 某会员全部购彩支出合计（空集返回0）
// 可在事务中调用以获得和扣款一致的读视图
func SumPriceByPlayer(ctx context.Context, exec sqlx.ExtContext, playerID string) (float64, error) {
	sqlStr := `SELECT COALESCE(SUM(price), 0) FROM boards WHERE player_id = ?`
	var sum float64
	if err := sqlx.GetContext(ctx, exec, &sum, sqlStr, playerID); err != nil {
		return 0, err
	}
	return sum, nil
}

// SumPriceByRound 某期次的奖池合计（该期全部票价之和）
func SumPriceByRound(ctx context.Context, exec sqlx.ExtContext, roundID string) (float64, error) {
	sqlStr := `SELECT COALESCE(SUM(price), 0) FROM boards WHERE round_id = ?`
	var sum float64
	if err := sqlx.GetContext(ctx, exec, &sum, sqlStr, roundID); err != nil {
		return 0, err
	}
	return sum, nil
}

// CountDistinctPlayersByRound 某期次的参与人数（按会员去重）
func CountDistinctPlayersByRound(ctx context.Context, exec sqlx.ExtContext, roundID string) (int, error) {
	sqlStr := `SELECT COUNT(DISTINCT player_id) FROM boards WHERE round_id = ?`
	var cnt int
	if err := sqlx.GetContext(ctx, exec, &cnt, sqlStr, roundID); err != nil {
		return 0, err
	}
	return cnt, nil
}

// ListByRoundForUpdate 结算时按期次加锁读取全部彩票，需要在事务中调用
func ListByRoundForUpdate(ctx context.Context, exec sqlx.ExtContext, roundID string) ([]Board, error) {
	sqlStr := `SELECT board_id, player_id, round_id, chosen_numbers, number_count, price, is_repeating, repeat_group_id, idempotency_key, trace_id, created_at
		FROM boards WHERE round_id = ? ORDER BY created_at ASC FOR UPDATE`
	var list []Board
	if err := sqlx.SelectContext(ctx, exec, &list, sqlStr, roundID); err != nil {
		return nil, err
	}
	return list, nil
}

// ListByRound 按期次读取全部彩票（无锁，对账/派彩总览用）
func ListByRound(ctx context.Context, exec sqlx.ExtContext, roundID string) ([]Board, error) {
	sqlStr := `SELECT board_id, player_id, round_id, chosen_numbers, number_count, price, is_repeating, repeat_group_id, idempotency_key, trace_id, created_at
		FROM boards WHERE round_id = ? ORDER BY created_at ASC`
	var list []Board
	if err := sqlx.SelectContext(ctx, exec, &list, sqlStr, roundID); err != nil {
		return nil, err
	}
	return list, nil
}

// ListPlayerBoards 会员购彩记录，支持按期次过滤
func ListPlayerBoards(ctx context.Context, db *sqlx.DB, playerID, roundID string, offset, limit uint) ([]Board, error) {
	if limit == 0 || limit > 100 {
		limit = 20
	}

	ex := []exp.Expression{goqu.C("player_id").Eq(playerID)}
	if roundID != "" {
		ex = append(ex, goqu.C("round_id").Eq(roundID))
	}

	var list []Board
	err := common.SelectAllCtx(ctx, &list, common.QueryArg{
		Db:     db,
		Table:  "boards",
		Fields: common.EnumFields(Board{}),
		Ex:     ex,
		Order:  []exp.OrderedExpression{goqu.C("created_at").Desc()},
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}
