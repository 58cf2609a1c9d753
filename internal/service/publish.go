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

// PublishInput 开奖入参
// Operator 为后台操作员用户名，由认证中间件从 Token 解出后显式传入
type PublishInput struct {
	RoundID  string
	Numbers  []int // 开奖号码，恰好3个
	Operator string
	TraceID  string
}

type PublishService interface {
	PublishWinningNumbers(ctx context.Context, in PublishInput) error
}

type publishService struct{}

func NewPublishService() PublishService { return &publishService{} }

// 开奖结果缓存 TTL：开奖后查询量集中在短时间内
const roundResultTTL = 2 * time.Minute

var ErrAlreadyPublished = errors.New("winning numbers already published")

// PublishWinningNumbers 公布开奖号码：
// 号码一经写入不可变更。事务内先锁期次行做状态校验，
// 再用 CAS 更新（WHERE winning_numbers=''）做第二重保护，
// 并发重复公布的请求拿不到受影响行，统一返回 ErrAlreadyPublished。
func (s *publishService) PublishWinningNumbers(ctx context.Context, in PublishInput) error {
	if in.RoundID == "" {
		fmt.Printf("[Publish]  参数校验失败: round_id=%s, trace_id=%s\n", in.RoundID, in.TraceID)
		return ErrBadRequest
	}
	if err := validateWinningNumbers(in.Numbers); err != nil {
		fmt.Printf("[Publish]  开奖号码校验失败: numbers=%v, round_id=%s, trace_id=%s\n",
			in.Numbers, in.RoundID, in.TraceID)
		return err
	}

	// 指标：在输入校验通过后开始计时
	start := time.Now()
	resultLabel := "fail"
	defer func() { metrics.RecordPublish(resultLabel, start) }()

	numbersCSV := numbersToCSV(in.Numbers)
	fmt.Printf("[Publish] 收到开奖请求: round_id=%s, numbers=%s, operator=%s, trace_id=%s\n",
		in.RoundID, numbersCSV, in.Operator, in.TraceID)

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

	// 锁定期次并校验当前状态允许开奖
	round, err := model.GetRoundForUpdate(txCtx, tx, in.RoundID)
	if err != nil {
		if chelper.IsNoRows(err) {
			return ErrRoundNotFound
		}
		return err
	}

	cur := state.FromStatusCode(round.Status)
	fmt.Printf("[Publish]  当前状态: state=%s(%d), round_id=%s, trace_id=%s\n",
		cur, round.Status, in.RoundID, in.TraceID)

	// 已有开奖号码则直接拒绝（一次性写入）
	if round.WinningNumbers != "" {
		fmt.Printf("[Publish] 该期次已开奖，拒绝重复公布: round_id=%s, existing=%s, trace_id=%s\n",
			in.RoundID, round.WinningNumbers, in.TraceID)
		return ErrAlreadyPublished
	}

	if _, err := state.NextState(cur, state.EvtPublish); err != nil {
		fmt.Printf("[Publish] 状态转换失败: %s --publish--> ?, round_id=%s, trace_id=%s\n",
			cur, in.RoundID, in.TraceID)
		return err
	}

	// CAS 写入开奖号码：仅当 winning_numbers 仍为空时生效
	affected, err := model.PublishWinningNumbers(txCtx, tx, in.RoundID, numbersCSV)
	if err != nil {
		return err
	}
	if affected == 0 {
		fmt.Printf("[Publish] CAS 未命中，号码已被写入: round_id=%s, trace_id=%s\n",
			in.RoundID, in.TraceID)
		return ErrAlreadyPublished
	}

	// 开奖事件写入 Outbox（事务内，确保与数据库状态一致）
	if err := model.CreateOutbox(txCtx, tx, "round_published", in.RoundID, map[string]any{
		"event":           "round_published",
		"round_id":        in.RoundID,
		"winning_numbers": numbersCSV,
		"operator":        in.Operator,
		"trace_id":        in.TraceID,
	}); err != nil {
		fmt.Printf("[Publish]  写入 Outbox 失败: round_id=%s, error=%v, trace_id=%s\n",
			in.RoundID, err, in.TraceID)
		return err
	}

	if err := tx.Commit(); err != nil {
		fmt.Printf("[Publish] 提交事务失败: round_id=%s, error=%v, trace_id=%s\n",
			in.RoundID, err, in.TraceID)
		return err
	}

	// 将开奖结果写入 Redis，便于后续查询/回放
	if r := infrds.Client(); r != nil {
		val := map[string]any{
			"round_id":        in.RoundID,
			"winning_numbers": numbersCSV,
			"status":          2, // published
			"draw_time":       time.Now().UnixMilli(),
		}
		if b, e := json.Marshal(val); e == nil {
			_ = r.Set(ctx, infrds.RoundResultKey(in.RoundID), b, roundResultTTL).Err()
		}
	}

	resultLabel = "success"
	fmt.Printf("[Publish] 开奖完成: round_id=%s, numbers=%s, trace_id=%s\n",
		in.RoundID, numbersCSV, in.TraceID)
	return nil
}
