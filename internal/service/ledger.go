package service

import (
	"context"
	"errors"

	chelper "dp-server/common/helper"
	infmysql "dp-server/internal/infra/mysql"
	"dp-server/internal/model"

	"github.com/jmoiron/sqlx"
	decimal "github.com/shopspring/decimal"
)

// 余额不落库，始终由账目推导：
// 余额 = 已通过充值之和 - 已售出彩票票价之和
// 购彩扣款与充值审核都只写各自的事实表，读余额时聚合计算，
// 因此不存在"余额列与流水不一致"这类对账问题。

type BalanceOutput struct {
	PlayerID  string
	Balance   string // 当前可用余额
	Deposited string // 已通过充值合计
	Spent     string // 已购彩支出合计
}

type LedgerService interface {
	Balance(ctx context.Context, playerID string) (*BalanceOutput, error)
	ListBoards(ctx context.Context, playerID, roundID string, offset, limit uint) ([]model.Board, error)
	ListDeposits(ctx context.Context, playerID string, limit int) ([]model.Deposit, error)
	GetDeposit(ctx context.Context, playerID, depositID string) (*model.Deposit, error)
}

type ledgerService struct{}

func NewLedgerService() LedgerService { return &ledgerService{} }

var ErrPlayerNotFound = errors.New("player not found")

// derivedBalance 在给定执行器上聚合计算余额
// 传入事务执行器时（配合会员行锁）可获得与扣款一致的读视图
func derivedBalance(ctx context.Context, exec sqlx.ExtContext, playerID string) (deposited, spent, balance decimal.Decimal, err error) {
	depositedF, err := model.SumApprovedByPlayer(ctx, exec, playerID)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}
	spentF, err := model.SumPriceByPlayer(ctx, exec, playerID)
	if err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, err
	}

	deposited = decimal.NewFromFloat(depositedF).Round(2)
	spent = decimal.NewFromFloat(spentF).Round(2)
	balance = deposited.Sub(spent)
	return deposited, spent, balance, nil
}

// Balance 查询会员当前余额（无锁读取，购彩路径有独立的事务内校验）
func (s *ledgerService) Balance(ctx context.Context, playerID string) (*BalanceOutput, error) {
	db := infmysql.SQLX()

	if _, err := model.GetPlayerByID(ctx, db, playerID); err != nil {
		if chelper.IsNoRows(err) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}

	deposited, spent, balance, err := derivedBalance(ctx, db, playerID)
	if err != nil {
		return nil, err
	}

	return &BalanceOutput{
		PlayerID:  playerID,
		Balance:   chelper.TrimDecimal(balance),
		Deposited: chelper.TrimDecimal(deposited),
		Spent:     chelper.TrimDecimal(spent),
	}, nil
}

// ListBoards 查询会员购彩记录，可按期次过滤
func (s *ledgerService) ListBoards(ctx context.Context, playerID, roundID string, offset, limit uint) ([]model.Board, error) {
	return model.ListPlayerBoards(ctx, infmysql.SQLX(), playerID, roundID, offset, limit)
}

// ListDeposits 查询会员充值记录
func (s *ledgerService) ListDeposits(ctx context.Context, playerID string, limit int) ([]model.Deposit, error) {
	return model.ListDepositsByPlayer(ctx, infmysql.SQLX(), playerID, limit)
}

// GetDeposit 查询会员单笔充值单
// 归属校验：充值单不属于该会员时一律按不存在处理，不泄露他人单据
func (s *ledgerService) GetDeposit(ctx context.Context, playerID, depositID string) (*model.Deposit, error) {
	d, err := model.GetDepositByID(ctx, infmysql.SQLX(), depositID)
	if err != nil {
		if chelper.IsNoRows(err) {
			return nil, ErrDepositNotFound
		}
		return nil, err
	}
	if d.PlayerID != playerID {
		return nil, ErrDepositNotFound
	}
	return d, nil
}
