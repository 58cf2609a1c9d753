package model

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// WinningBoard 对应 winning_boards 表（结算记录，每次结算整期重写）
// 仅命中全部开奖号码的票有行；numbers_matched 记录命中个数
type WinningBoard struct {
	WinningBoardID string `db:"winning_board_id"` // 结算记录ID（UUID 主键）
	RoundID        string `db:"round_id"`         // 期次ID
	BoardID        string `db:"board_id"`         // 彩票ID
	PlayerID       string `db:"player_id"`        // 会员ID
	NumbersMatched int8   `db:"numbers_matched"`  // 命中个数
	CreatedAt      int64  `db:"created_at"`       // 结算时间
}

// Insert 插入一条结算记录
func (w *WinningBoard) Insert(ctx context.Context, exec sqlx.ExtContext) error {
	now := time.Now().UnixMilli()
	if w.WinningBoardID == "" {
		w.WinningBoardID = uuid.NewString()
	}
	w.CreatedAt = now

	sqlStr := `INSERT INTO winning_boards (winning_board_id, round_id, board_id, player_id, numbers_matched, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := exec.ExecContext(ctx, sqlStr, w.WinningBoardID, w.RoundID, w.BoardID, w.PlayerID, w.NumbersMatched, w.CreatedAt)
	return err
}

// DeleteWinningBoardsByRound 清空某期次的全部结算记录（重算前调用）
func DeleteWinningBoardsByRound(ctx context.Context, exec sqlx.ExtContext, roundID string) error {
	sqlStr := `DELETE FROM winning_boards WHERE round_id = ?`
	_, err := exec.ExecContext(ctx, sqlStr, roundID)
	return err
}

// ListWinningBoardsByRound 按期次读取结算记录
func ListWinningBoardsByRound(ctx context.Context, exec sqlx.ExtContext, roundID string) ([]WinningBoard, error) {
	sqlStr := `SELECT winning_board_id, round_id, board_id, player_id, numbers_matched, created_at
		FROM winning_boards WHERE round_id = ? ORDER BY numbers_matched DESC, created_at ASC`
	var list []WinningBoard
	if err := sqlx.SelectContext(ctx, exec, &list, sqlStr, roundID); err != nil {
		return nil, err
	}
	return list, nil
}

// WinnerRow 派彩总览用的中奖明细投影（带会员姓名和票面信息）
type WinnerRow struct {
	WinningBoardID string `db:"winning_board_id"`
	BoardID        string `db:"board_id"`
	PlayerID       string `db:"player_id"`
	FirstName      string `db:"first_name"`
	LastName       string `db:"last_name"`
	ChosenNumbers  string `db:"chosen_numbers"`
	NumbersMatched int8   `db:"numbers_matched"`
	BoardCreatedAt int64  `db:"board_created_at"`
	SettledAt      int64  `db:"settled_at"`
}

// ListWinnersByRound 读取某期次全部中奖记录（命中全部开奖号码的票）
// 排序规则：命中数降序，再按票购买时间升序，保证输出稳定
func ListWinnersByRound(ctx context.Context, exec sqlx.ExtContext, roundID string) ([]WinnerRow, error) {
	sqlStr := `SELECT w.winning_board_id, w.board_id, w.player_id, p.first_name, p.last_name,
			b.chosen_numbers, w.numbers_matched, b.created_at AS board_created_at, w.created_at AS settled_at
		FROM winning_boards w
		JOIN boards b ON b.board_id = w.board_id
		JOIN players p ON p.player_id = w.player_id
		WHERE w.round_id = ? AND w.numbers_matched = 3
		ORDER BY w.numbers_matched DESC, b.created_at ASC, w.board_id ASC`
	var list []WinnerRow
	if err := sqlx.SelectContext(ctx, exec, &list, sqlStr, roundID); err != nil {
		return nil, err
	}
	return list, nil
}
