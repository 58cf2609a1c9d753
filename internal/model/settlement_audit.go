package model

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
)

// SettlementAudit 对应 settlement_audit 表（结算审计，可多行：重算会追加）
// prev_state/next_state 使用字符串快照，便于直观查询
type SettlementAudit struct {
	ID int64 `db:"id"`
	// 结算批次号（每次结算/重算生成一个）
	BatchNo string `db:"batch_no"`
	// 期次ID
	RoundID string `db:"round_id"`
	// 结算时使用的开奖号码CSV
	WinningNumbers string `db:"winning_numbers"`
	// 本期票数
	TotalBoards int `db:"total_boards"`
	// 中奖票数
	WinnerCount int `db:"winner_count"`
	// 本期奖池合计
	TotalPool float64 `db:"total_pool"`
	PrevState string  `db:"prev_state"`
	NextState string  `db:"next_state"`
	Operator  string  `db:"operator"`
	TraceID   string  `db:"trace_id"`
	CreatedAt int64   `db:"created_at"`
}

// Insert
func (a *SettlementAudit) Insert(ctx context.Context, exec sqlx.ExtContext) error {
	now := time.Now().UnixMilli()

	sqlStr := "INSERT INTO settlement_audit (batch_no, round_id, winning_numbers, total_boards, winner_count, total_pool, prev_state, next_state, operator, trace_id, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)"
	args := []interface{}{a.BatchNo, a.RoundID, a.WinningNumbers, a.TotalBoards, a.WinnerCount, a.TotalPool, a.PrevState, a.NextState, a.Operator, a.TraceID, now}

	_, err := exec.ExecContext(ctx, sqlStr, args...)
	return err
}

// GetLastSettlementAudit 查询某期次最近一次结算审计
func GetLastSettlementAudit(ctx context.Context, db *sqlx.DB, roundID string) (*SettlementAudit, error) {
	sqlStr := `SELECT id, batch_no, round_id, winning_numbers, total_boards, winner_count, total_pool, prev_state, next_state, operator, trace_id, created_at
		FROM settlement_audit WHERE round_id = ? ORDER BY id DESC LIMIT 1`
	var a SettlementAudit
	if err := db.GetContext(ctx, &a, sqlStr, roundID); err != nil {
		return nil, err
	}
	return &a, nil
}
