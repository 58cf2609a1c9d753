package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	chelper "dp-server/common/helper"
	infmysql "dp-server/internal/infra/mysql"
	infrds "dp-server/internal/infra/redis"
	"dp-server/internal/metrics"
	"dp-server/internal/model"
	"dp-server/internal/state"
)

// SettleInput 结算入参
type SettleInput struct {
	RoundID  string
	Operator string
	TraceID  string
}

type SettleOutput struct {
	RoundID     string
	TotalBoards int
	WinnerCount int
	Split       PoolSplit
	Records     []model.WinningBoard
}

type SettleService interface {
	SettleRound(ctx context.Context, in SettleInput) (*SettleOutput, error)
}

type settleService struct{}

func NewSettleService() SettleService { return &settleService{} }

var (
	ErrBadRequest    = errors.New("bad request")
	ErrRoundNotDrawn = errors.New("round has no winning numbers yet")
)

// winningRecords 从本期全部彩票中筛出中奖票：仅命中全部开奖号码的票产生结算记录
func winningRecords(roundID string, boards []model.Board, winningCSV string) []model.WinningBoard {
	records := make([]model.WinningBoard, 0, len(boards))
	for i := range boards {
		matched := matchedCount(boards[i].ChosenNumbers, winningCSV)
		if matched != winningNumbersCount {
			continue
		}
		records = append(records, model.WinningBoard{
			RoundID:        roundID,
			BoardID:        boards[i].BoardID,
			PlayerID:       boards[i].PlayerID,
			NumbersMatched: int8(matched),
		})
	}
	return records
}

// SettleRound 结算一期：对本期全部彩票计算命中个数并整期重写结算记录。
// 结算可重复执行（先删后插），同一开奖号码重算结果一致；
// 期次行锁串行化并发结算，重算会在 settlement_audit 追加一行。
func (s *settleService) SettleRound(ctx context.Context, in SettleInput) (*SettleOutput, error) {
	if in.RoundID == "" {
		fmt.Printf("[Settle]  参数校验失败: round_id=%s, trace_id=%s\n", in.RoundID, in.TraceID)
		return nil, ErrBadRequest
	}

	// 指标：在输入校验通过后开始计时
	start := time.Now()
	resultLabel := "fail"
	outcomeLabel := "unknown"
	defer func() { metrics.RecordSettle(resultLabel, outcomeLabel, start) }()

	fmt.Printf("[Settle] 收到结算请求: round_id=%s, operator=%s, trace_id=%s\n",
		in.RoundID, in.Operator, in.TraceID)

	tx, err := infmysql.SQLX().BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	// 锁定期次：结算与购彩/开奖共用该行锁
	round, err := model.GetRoundForUpdate(ctx, tx, in.RoundID)
	if err != nil {
		if chelper.IsNoRows(err) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}

	cur := state.FromStatusCode(round.Status)
	fmt.Printf("[Settle]  当前状态: state=%s(%d), round_id=%s, trace_id=%s\n",
		cur, round.Status, in.RoundID, in.TraceID)

	// 必须已开奖才能结算
	if round.WinningNumbers == "" {
		fmt.Printf("[Settle] 该期次尚未开奖: round_id=%s, trace_id=%s\n", in.RoundID, in.TraceID)
		return nil, ErrRoundNotDrawn
	}

	nextState, err := state.NextState(cur, state.EvtSettle)
	if err != nil {
		fmt.Printf("[Settle] 状态转换失败: %s --settle--> ?, round_id=%s, trace_id=%s\n",
			cur, in.RoundID, in.TraceID)
		return nil, err
	}

	// 整期重写：先清空旧结算记录，保证重算不会累积脏行
	if err := model.DeleteWinningBoardsByRound(ctx, tx, in.RoundID); err != nil {
		return nil, err
	}

	// 锁定本期全部彩票，逐张计算命中个数
	boards, err := model.ListByRoundForUpdate(ctx, tx, in.RoundID)
	if err != nil {
		return nil, err
	}

	fmt.Printf("[Settle]  找到 %d 张待结算彩票: round_id=%s, trace_id=%s\n",
		len(boards), in.RoundID, in.TraceID)

	// 仅中奖票落结算记录，未中奖的票不产生行
	records := winningRecords(in.RoundID, boards, round.WinningNumbers)
	winnerCount := len(records)
	for i := range records {
		if err := records[i].Insert(ctx, tx); err != nil {
			return nil, err
		}
	}

	// 奖池与分账（余额不受结算影响，派彩走线下，系统仅记录与展示）
	poolF, err := model.SumPriceByRound(ctx, tx, in.RoundID)
	if err != nil {
		return nil, err
	}
	split := splitPoolFromFloat(poolF, winnerCount)

	if err := model.MarkRoundSettled(ctx, tx, in.RoundID); err != nil {
		return nil, err
	}

	// 结算事件写入 Outbox（事务内写入，确保与数据库状态一致）
	if err := model.CreateOutbox(ctx, tx, "round_settled", in.RoundID, map[string]any{
		"event":           "round_settled",
		"round_id":        in.RoundID,
		"winning_numbers": round.WinningNumbers,
		"total_boards":    len(boards),
		"winner_count":    winnerCount,
		"total_pool":      split.Pool,
		"per_winner":      split.PerWinner,
		"trace_id":        in.TraceID,
	}); err != nil {
		fmt.Printf("[Settle]  写入 Outbox 失败: round_id=%s, error=%v, trace_id=%s\n",
			in.RoundID, err, in.TraceID)
		return nil, err
	}

	// 审计：每次结算（含重算）追加一行
	aud := &model.SettlementAudit{
		BatchNo:        chelper.GenerateSerialNumber(int(round.ID)),
		RoundID:        in.RoundID,
		WinningNumbers: round.WinningNumbers,
		TotalBoards:    len(boards),
		WinnerCount:    winnerCount,
		TotalPool:      poolF,
		PrevState:      cur,
		NextState:      nextState,
		Operator:       in.Operator,
		TraceID:        in.TraceID,
	}
	if err := aud.Insert(ctx, tx); err != nil {
		fmt.Printf("[Settle]  写入审计日志失败: round_id=%s, error=%v, trace_id=%s\n",
			in.RoundID, err, in.TraceID)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		fmt.Printf("[Settle] 提交事务失败: round_id=%s, error=%v, trace_id=%s\n",
			in.RoundID, err, in.TraceID)
		return nil, err
	}

	// 将结算摘要写入 Redis，便于后续查询/回放
	if r := infrds.Client(); r != nil {
		val := map[string]any{
			"round_id":        in.RoundID,
			"winning_numbers": round.WinningNumbers,
			"status":          3, // settled
			"total_boards":    len(boards),
			"winner_count":    winnerCount,
			"total_pool":      split.Pool,
			"per_winner":      split.PerWinner,
		}
		if b, e := json.Marshal(val); e == nil {
			_ = r.Set(ctx, infrds.RoundResultKey(in.RoundID), b, roundResultTTL).Err()
		}
	}

	resultLabel = "success"
	if winnerCount > 0 {
		outcomeLabel = "winners"
	} else {
		outcomeLabel = "no_winners"
	}
	fmt.Printf("[Settle] 结算完成: round_id=%s, total_boards=%d, winner_count=%d, pool=%s, per_winner=%s, trace_id=%s\n",
		in.RoundID, len(boards), winnerCount, split.Pool, split.PerWinner, in.TraceID)

	return &SettleOutput{
		RoundID:     in.RoundID,
		TotalBoards: len(boards),
		WinnerCount: winnerCount,
		Split:       split,
		Records:     records,
	}, nil
}
