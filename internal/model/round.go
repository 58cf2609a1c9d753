package model

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Round 对应 rounds 表（每周一期）
// 说明：时间为毫秒时间戳；开奖号码存为升序CSV（如 "3,7,12"），未开奖为空串
// status: 1=开放购彩 2=已开奖 3=已结算
// winning_numbers 一经写入不可变更，由 CAS 更新保证（见 PublishWinningNumbers）
type Round struct {
	ID             int64  `db:"id"`              // 自增序号（内部使用，期次先后顺序）
	RoundID        string `db:"round_id"`        // 期次ID（UUID，对外）
	Status         int8   `db:"status"`          // 状态
	WinningNumbers string `db:"winning_numbers"` // 开奖号码CSV，''=未开奖
	DrawTime       int64  `db:"draw_time"`       // 开奖时间（毫秒，0=未开奖）
	ExpiresAt      int64  `db:"expires_at"`      // 购彩截止时间（毫秒）
	TraceID        string `db:"trace_id"`        // 链路追踪ID
	CreatedAt      int64  `db:"created_at"`      // 创建时间
	UpdatedAt      int64  `db:"updated_at"`      // 更新时间
}

// Insert 创建新期次，round_id 为空时自动生成
func (r *Round) Insert(ctx context.Context, exec sqlx.ExtContext) error {
	now := time.Now().UnixMilli()
	if r.RoundID == "" {
		r.RoundID = uuid.NewString()
	}
	if r.Status == 0 {
		r.Status = 1
	}
	r.CreatedAt = now
	r.UpdatedAt = now

	sqlStr := `INSERT INTO rounds (round_id, status, winning_numbers, draw_time, expires_at, trace_id, created_at, updated_at)
		VALUES (?, ?, '', 0, ?, ?, ?, ?)`
	res, err := exec.ExecContext(ctx, sqlStr, r.RoundID, r.Status, r.ExpiresAt, r.TraceID, now, now)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	r.ID = id
	return nil
}

// GetRound 按期次ID查询（不加锁）
func GetRound(ctx context.Context, exec sqlx.ExtContext, roundID string) (*Round, error) {
	sqlStr := `SELECT id, round_id, status, winning_numbers, draw_time, expires_at, trace_id, created_at, updated_at
		FROM rounds WHERE round_id = ?`
	var r Round
	if err := sqlx.GetContext(ctx, exec, &r, sqlStr, roundID); err != nil {
		return nil, err
	}
	return &r, nil
}

// GetRoundForUpdate 按期次ID加锁查询
// 购彩/开奖/结算共用该锁串行化对同一期次的并发修改，必须在事务中调用
func GetRoundForUpdate(ctx context.Context, exec sqlx.ExtContext, roundID string) (*Round, error) {
	sqlStr := `SELECT id, round_id, status, winning_numbers, draw_time, expires_at, trace_id, created_at, updated_at
		FROM rounds WHERE round_id = ? FOR UPDATE`
	var r Round
	if err := sqlx.GetContext(ctx, exec, &r, sqlStr, roundID); err != nil {
		return nil, err
	}
	return &r, nil
}

// PublishWinningNumbers 一次性写入开奖号码（CAS：仅当尚未开奖时生效）
// 返回受影响行数，0 表示号码已被其他请求写入
func PublishWinningNumbers(ctx context.Context, exec sqlx.ExtContext, roundID, numbersCSV string) (int64, error) {
	now := time.Now().UnixMilli()
	sqlStr := `UPDATE rounds SET winning_numbers = ?, draw_time = ?, status = 2, updated_at = ?
		WHERE round_id = ? AND winning_numbers = ''`
	res, err := exec.ExecContext(ctx, sqlStr, numbersCSV, now, now, roundID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// MarkRoundSettled 标记期次已结算（结算可重复执行，状态保持为已结算）
func MarkRoundSettled(ctx context.Context, exec sqlx.ExtContext, roundID string) error {
	now := time.Now().UnixMilli()
	sqlStr := `UPDATE rounds SET status = 3, updated_at = ? WHERE round_id = ?`
	_, err := exec.ExecContext(ctx, sqlStr, now, roundID)
	return err
}

// ListOpenRoundsFrom 按序号升序加锁列出自某期起仍开放的期次（连投用）
// 必须在事务中调用：行锁挡住并发的开奖/结算，避免票落入已开奖的期次；
// 按 id 升序加锁，与结算侧的锁序一致
func ListOpenRoundsFrom(ctx context.Context, exec sqlx.ExtContext, fromID int64, limit int) ([]Round, error) {
	if limit <= 0 {
		limit = 10
	}
	sqlStr := `SELECT id, round_id, status, winning_numbers, draw_time, expires_at, trace_id, created_at, updated_at
		FROM rounds WHERE id >= ? AND status = 1 ORDER BY id ASC LIMIT ? FOR UPDATE`
	var list []Round
	if err := sqlx.SelectContext(ctx, exec, &list, sqlStr, fromID, limit); err != nil {
		return nil, err
	}
	return list, nil
}

// GetCurrentOpenRound 取当前最早仍开放的期次
func GetCurrentOpenRound(ctx context.Context, exec sqlx.ExtContext) (*Round, error) {
	sqlStr := `SELECT id, round_id, status, winning_numbers, draw_time, expires_at, trace_id, created_at, updated_at
		FROM rounds WHERE status = 1 ORDER BY id ASC LIMIT 1`
	var r Round
	if err := sqlx.GetContext(ctx, exec, &r, sqlStr); err != nil {
		return nil, err
	}
	return &r, nil
}

// RoundSnapshot 提供 GET 接口所需的最小字段集合
type RoundSnapshot struct {
	RoundID        string `db:"round_id"`
	Status         int8   `db:"status"`
	WinningNumbers string `db:"winning_numbers"`
	DrawTime       int64  `db:"draw_time"`
	ExpiresAt      int64  `db:"expires_at"`
}

// GetRoundSnapshot 按期次ID查询所需字段（无锁读取）
func GetRoundSnapshot(ctx context.Context, exec sqlx.ExtContext, roundID string) (*RoundSnapshot, error) {
	sqlStr := `SELECT round_id, status, winning_numbers, draw_time, expires_at
		FROM rounds WHERE round_id = ?`
	var rs RoundSnapshot
	if err := sqlx.GetContext(ctx, exec, &rs, sqlStr, roundID); err != nil {
		return nil, err
	}
	return &rs, nil
}
