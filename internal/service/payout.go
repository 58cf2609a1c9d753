package service

import (
	"context"
	"fmt"

	chelper "dp-server/common/helper"
	infmysql "dp-server/internal/infra/mysql"
	"dp-server/internal/model"

	decimal "github.com/shopspring/decimal"
)

// 分账规则：奖池的 30% 归俱乐部，剩余 70% 由中奖者平分。
// 每人份额四舍五入到两位小数，除不尽的余数留在俱乐部侧（remainder 字段单独给出）。
const clubProfitRate = "0.30"

// PoolSplit 一期奖池的分账结果（全部两位小数字符串，避免浮点表示误差外泄）
type PoolSplit struct {
	Pool        string // 奖池合计（本期全部票价之和）
	ClubProfit  string // 俱乐部分成（30%）
	WinnersPool string // 中奖者可分金额（70%）
	PerWinner   string // 每位中奖者份额（无中奖者为 "0.00"）
	Remainder   string // 平分后的余数（无中奖者时等于 WinnersPool）
}

// splitPool 按分账规则拆分奖池
// winnerCount 为中奖票数；无中奖票时 70% 部分原样保留在 WinnersPool/Remainder
func splitPool(pool decimal.Decimal, winnerCount int) PoolSplit {
	profit := pool.Mul(decimal.RequireFromString(clubProfitRate)).Round(2)
	winnersPool := pool.Sub(profit)

	perWinner := decimal.Zero
	remainder := winnersPool
	if winnerCount > 0 {
		perWinner = winnersPool.Div(decimal.NewFromInt(int64(winnerCount))).Round(2)
		remainder = winnersPool.Sub(perWinner.Mul(decimal.NewFromInt(int64(winnerCount))))
	}

	return PoolSplit{
		Pool:        chelper.TrimDecimal(pool),
		ClubProfit:  chelper.TrimDecimal(profit),
		WinnersPool: chelper.TrimDecimal(winnersPool),
		PerWinner:   chelper.TrimDecimal(perWinner),
		Remainder:   chelper.TrimDecimal(remainder),
	}
}

// splitPoolFromFloat 从数据库聚合出的 float 金额拆分奖池
func splitPoolFromFloat(pool float64, winnerCount int) PoolSplit {
	return splitPool(decimal.NewFromFloat(pool).Round(2), winnerCount)
}

// PayoutWinner 派彩总览中的单个中奖者
type PayoutWinner struct {
	BoardID        string `json:"board_id"`
	PlayerID       string `json:"player_id"`
	PlayerName     string `json:"player_name"`
	ChosenNumbers  string `json:"chosen_numbers"`
	NumbersMatched int8   `json:"numbers_matched"`
	Share          string `json:"share"`
}

// PayoutOverview 一期的派彩总览（只读推导，不落库、不动余额）
type PayoutOverview struct {
	RoundID        string         `json:"round_id"`
	WinningNumbers string         `json:"winning_numbers"`
	Status         int8           `json:"status"`
	TotalBoards    int            `json:"total_boards"`
	TotalPlayers   int            `json:"total_players"`
	Split          PoolSplit      `json:"split"`
	Winners        []PayoutWinner `json:"winners"`
}

type PayoutService interface {
	Overview(ctx context.Context, roundID string) (*PayoutOverview, error)
}

type payoutService struct{}

func NewPayoutService() PayoutService { return &payoutService{} }

// buildPayoutOverview 由期次与聚合数据组装派彩总览
// 未开奖的期次也可查询：此时无中奖者，70% 部分整体留在 Remainder
func buildPayoutOverview(round *model.Round, totalBoards, totalPlayers int, poolF float64, winnerRows []model.WinnerRow) *PayoutOverview {
	split := splitPool(decimal.NewFromFloat(poolF).Round(2), len(winnerRows))

	winners := make([]PayoutWinner, 0, len(winnerRows))
	for _, w := range winnerRows {
		name := w.FirstName
		if w.LastName != "" {
			if name != "" {
				name += " "
			}
			name += w.LastName
		}
		winners = append(winners, PayoutWinner{
			BoardID:        w.BoardID,
			PlayerID:       w.PlayerID,
			PlayerName:     name,
			ChosenNumbers:  w.ChosenNumbers,
			NumbersMatched: w.NumbersMatched,
			Share:          split.PerWinner,
		})
	}

	return &PayoutOverview{
		RoundID:        round.RoundID,
		WinningNumbers: round.WinningNumbers,
		Status:         round.Status,
		TotalBoards:    totalBoards,
		TotalPlayers:   totalPlayers,
		Split:          split,
		Winners:        winners,
	}
}

// Overview 计算一期的派彩总览
// 线下打款由俱乐部出纳执行，系统只负责给出每人应得份额
func (s *payoutService) Overview(ctx context.Context, roundID string) (*PayoutOverview, error) {
	db := infmysql.SQLX()

	round, err := model.GetRound(ctx, db, roundID)
	if err != nil {
		if chelper.IsNoRows(err) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}

	poolF, err := model.SumPriceByRound(ctx, db, roundID)
	if err != nil {
		return nil, err
	}
	boards, err := model.ListByRound(ctx, db, roundID)
	if err != nil {
		return nil, err
	}
	totalPlayers, err := model.CountDistinctPlayersByRound(ctx, db, roundID)
	if err != nil {
		return nil, err
	}

	// 未开奖的期次只给当前奖池与参与人数，不查中奖记录
	var winnerRows []model.WinnerRow
	if round.WinningNumbers != "" {
		winnerRows, err = model.ListWinnersByRound(ctx, db, roundID)
		if err != nil {
			return nil, err
		}
	}

	out := buildPayoutOverview(round, len(boards), totalPlayers, poolF, winnerRows)

	fmt.Printf("[Payout] 派彩总览: round_id=%s, pool=%s, winners=%d, per_winner=%s\n",
		roundID, out.Split.Pool, len(out.Winners), out.Split.PerWinner)

	return out, nil
}
