package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	chelper "dp-server/common/helper"
	"dp-server/common/constant"
	infmysql "dp-server/internal/infra/mysql"
	"dp-server/internal/metrics"
	"dp-server/internal/model"

	mysqlerr "github.com/go-sql-driver/mysql"
	decimal "github.com/shopspring/decimal"
)

// DepositInput 充值提交入参
// 会员在 MobilePay 打款后提交支付参考号，金额入账需后台人工审核
type DepositInput struct {
	PlayerID string
	PayRef   string // MobilePay 支付参考号，唯一
	Amount   string
	TraceID  string
}

type DepositOutput struct {
	DepositID string
	Status    string // pending
}

// ReviewDepositInput 充值审核入参
// Reviewer 为后台操作员用户名，由认证中间件显式传入
type ReviewDepositInput struct {
	DepositID string
	Approve   bool
	Reviewer  string
	TraceID   string
}

type DepositService interface {
	Submit(ctx context.Context, in DepositInput) (*DepositOutput, error)
	Review(ctx context.Context, in ReviewDepositInput) error
}

type depositService struct{}

func NewDepositService() DepositService { return &depositService{} }

var (
	ErrDuplicateDepositRef = errors.New("duplicate pay reference")
	ErrDepositNotFound     = errors.New("deposit not found")
	ErrDepositFinal        = errors.New("deposit already reviewed")
)

// Submit 提交充值单，状态固定为待审核
// pay_ref 唯一键兜底：同一参考号重复提交触发 1062，转为业务错误
func (s *depositService) Submit(ctx context.Context, in DepositInput) (*DepositOutput, error) {
	start := time.Now()
	result := "fail"
	defer func() { metrics.RecordDeposit(result, "submit", start) }()

	amtDec, err := decimal.NewFromString(in.Amount)
	if err != nil {
		fmt.Printf("[Deposit]  无效的充值金额格式: amount=%s, error=%v, trace_id=%s\n",
			in.Amount, err, in.TraceID)
		return nil, errors.New("invalid deposit amount format")
	}
	if amtDec.LessThanOrEqual(decimal.Zero) {
		fmt.Printf("[Deposit]  充值金额必须大于0: amount=%s, trace_id=%s\n", in.Amount, in.TraceID)
		return nil, errors.New("deposit amount must be positive")
	}

	db := infmysql.SQLX()

	// 校验会员存在且未禁用
	player, err := model.GetPlayerByID(ctx, db, in.PlayerID)
	if err != nil {
		if chelper.IsNoRows(err) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	if player.Status != constant.PlayerActive {
		return nil, ErrPlayerDisabled
	}

	d := &model.Deposit{
		PlayerID: in.PlayerID,
		PayRef:   in.PayRef,
		Amount:   amtDec.Round(2).InexactFloat64(),
		TraceID:  in.TraceID,
	}
	if err := d.Insert(ctx, db); err != nil {
		if me, ok := err.(*mysqlerr.MySQLError); ok && me.Number == 1062 {
			fmt.Printf("[Deposit] 支付参考号重复: pay_ref=%s, trace_id=%s\n", in.PayRef, in.TraceID)
			return nil, ErrDuplicateDepositRef
		}
		fmt.Printf("[Deposit]  创建充值单失败: error=%v, pay_ref=%s, trace_id=%s\n",
			err, in.PayRef, in.TraceID)
		return nil, err
	}

	result = "success"
	fmt.Printf("[Deposit] 充值单已创建: deposit_id=%s, player_id=%s, amount=%s, trace_id=%s\n",
		d.DepositID, in.PlayerID, amtDec.StringFixed(2), in.TraceID)

	return &DepositOutput{DepositID: d.DepositID, Status: d.StatusStr}, nil
}

// Review 审核充值单：待审核 -> 已通过/已拒绝，单向流转不可改判
// 行锁 + CAS 双重保护：并发复核时只有一个请求拿到受影响行
func (s *depositService) Review(ctx context.Context, in ReviewDepositInput) error {
	start := time.Now()
	result := "fail"
	action := "reject"
	if in.Approve {
		action = "approve"
	}
	defer func() { metrics.RecordDeposit(result, action, start) }()

	if in.DepositID == "" || in.Reviewer == "" {
		return ErrBadRequest
	}

	newStatus := int8(constant.DepositRejected)
	if in.Approve {
		newStatus = constant.DepositApproved
	}

	txCtx := ctx
	if _, has := ctx.Deadline(); !has {
		c, cancel := context.WithTimeout(ctx, defaultTxTimeout)
		txCtx = c
		defer cancel()
	}
	tx, err := infmysql.SQLX().BeginTxx(txCtx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	d, err := model.GetDepositByIDForUpdate(txCtx, tx, in.DepositID)
	if err != nil {
		if chelper.IsNoRows(err) {
			return ErrDepositNotFound
		}
		return err
	}
	if d.Status != constant.DepositPending {
		fmt.Printf("[Deposit] 充值单已终审: deposit_id=%s, status=%s, trace_id=%s\n",
			in.DepositID, d.StatusStr, in.TraceID)
		return ErrDepositFinal
	}

	affected, err := model.ReviewDeposit(txCtx, tx, in.DepositID, newStatus, in.Reviewer)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrDepositFinal
	}

	// 审核事件写入 Outbox（通过后会员余额即时生效，通知下游）
	if err := model.CreateOutbox(txCtx, tx, "deposit_reviewed", in.DepositID, map[string]any{
		"event":      "deposit_reviewed",
		"deposit_id": in.DepositID,
		"player_id":  d.PlayerID,
		"pay_ref":    d.PayRef,
		"amount":     d.Amount,
		"approved":   in.Approve,
		"reviewer":   in.Reviewer,
		"trace_id":   in.TraceID,
	}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		fmt.Printf("[Deposit] 提交事务失败: deposit_id=%s, error=%v, trace_id=%s\n",
			in.DepositID, err, in.TraceID)
		return err
	}

	result = "success"
	fmt.Printf("[Deposit] 审核完成: deposit_id=%s, action=%s, reviewer=%s, trace_id=%s\n",
		in.DepositID, action, in.Reviewer, in.TraceID)
	return nil
}
