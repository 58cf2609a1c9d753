package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	chelper "dp-server/common/helper"
	"dp-server/internal/config"
	infmysql "dp-server/internal/infra/mysql"
	infrds "dp-server/internal/infra/redis"
	"dp-server/internal/metrics"
	"dp-server/internal/model"
	"dp-server/internal/state"

	mysqlerr "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	decimal "github.com/shopspring/decimal"
)

// PurchaseInput 购彩入参
// PlayerID 由认证中间件从 Token 解出后显式传入，服务层不读请求头
type PurchaseInput struct {
	PlayerID       string
	RoundID        string
	Numbers        []int // 所选号码 5~8 个
	RepeatRounds   int   // 连投覆盖期数：0/1=仅当期，N=连续N期
	IdempotencyKey string
	TraceID        string
}

type PurchaseOutput struct {
	BoardIDs      []string // 本次售出的彩票（连投时每期一张）
	RoundIDs      []string // 覆盖的期次
	RepeatGroupID string   // 连投组ID（单期为空）
	TotalPrice    string   // 本次合计扣款
	RemainAmount  string   // 剩余余额
}

type PurchaseService interface {
	PurchaseBoard(ctx context.Context, in PurchaseInput) (*PurchaseOutput, error)
}

type purchaseService struct{}

func NewPurchaseService() PurchaseService { return &purchaseService{} }

const (
	// Redis 进行中锁 TTL：吸收瞬时重复提交
	idemLockTTL = 45 * time.Second
	// 结果缓存 TTL：覆盖大多数短时重试窗口
	idemResultTTL = 1 * time.Minute

	// 未配置时的连投期数上限
	defaultRepeatMaxRounds = 10
)

// 默认事务超时时间，防止长事务占用资源影响并发（若上游已有 deadline，则沿用上游）
const defaultTxTimeout = 3 * time.Second

// Redis key 构造见 internal/infra/redis/keys.go
var (
	ErrDuplicateInFlight      = errors.New("duplicate request in flight")
	ErrPlayerDisabled         = errors.New("player disabled")
	ErrRoundNotFound          = errors.New("round not found")
	ErrRoundClosed            = errors.New("round closed for purchase")
	ErrInsufficientBalance    = errors.New("insufficient balance")
	ErrInsufficientOpenRounds = errors.New("not enough open rounds for repeating purchase")
)

// ensureCoveredRoundsOpen 复核连投覆盖的期次：数量足够且每期仍开放、未开奖
// 在期次行已加锁后调用，任何一期不可购彩则整单拒绝
func ensureCoveredRoundsOpen(rounds []model.Round, want int) error {
	if len(rounds) < want {
		return ErrInsufficientOpenRounds
	}
	for i := range rounds {
		if state.FromStatusCode(rounds[i].Status) != state.StateOpen || rounds[i].WinningNumbers != "" {
			return ErrRoundClosed
		}
	}
	return nil
}

// PurchaseBoard 购彩主流程：
// 校验号码与价格 -> Redis 幂等快路径/进行中锁 -> 事务内锁会员与期次 ->
// 校验期次开放与截止 -> 推导余额并校验 -> 落票(连投逐期落行) -> Outbox -> 提交
func (s *purchaseService) PurchaseBoard(ctx context.Context, in PurchaseInput) (*PurchaseOutput, error) {

	start := time.Now()
	result := "fail"

	// ========== 购彩参数校验 ==========
	// 1. 号码个数 5~8、范围 1..16、互不相同
	// 2. 连投期数不超过上限
	// 3. 票价由号码个数唯一决定，客户端不传金额
	// ================================
	if err := validateBoardNumbers(in.Numbers); err != nil {
		fmt.Printf("[Purchase]  号码校验失败: numbers=%v, trace_id=%s\n", in.Numbers, in.TraceID)
		return nil, err
	}

	repeatRounds := in.RepeatRounds
	if repeatRounds <= 0 {
		repeatRounds = 1
	}
	maxRepeat := defaultRepeatMaxRounds
	if cfg := config.Get(); cfg != nil && cfg.Lottery.RepeatMaxRounds > 0 {
		maxRepeat = cfg.Lottery.RepeatMaxRounds
	}
	if repeatRounds > maxRepeat {
		fmt.Printf("[Purchase]  连投期数超限: repeat_rounds=%d, max=%d, trace_id=%s\n",
			repeatRounds, maxRepeat, in.TraceID)
		return nil, fmt.Errorf("repeat rounds exceeds maximum limit: %d", maxRepeat)
	}

	numberCount := len(in.Numbers)
	defer func() { metrics.RecordPurchase(result, numberCount, start) }()

	price := decimal.NewFromFloat(priceForCount(numberCount))
	chosenCSV := numbersToCSV(in.Numbers)

	fmt.Printf("[Purchase]  收到购彩请求: round_id=%s, player_id=%s, numbers=%s, repeat_rounds=%d, idem_key=%s, trace_id=%s\n",
		in.RoundID, in.PlayerID, chosenCSV, repeatRounds, in.IdempotencyKey, in.TraceID)

	// Redis 快路径：若已有结果缓存，直接返回
	if r := infrds.Client(); r != nil {
		if bs, _ := r.Get(ctx, infrds.IdemResultKey(in.IdempotencyKey)).Bytes(); len(bs) > 0 {
			var out PurchaseOutput
			if json.Unmarshal(bs, &out) == nil {
				fmt.Printf("[Purchase]  Redis 缓存命中: idem_key=%s, trace_id=%s\n",
					in.IdempotencyKey, in.TraceID)
				return &out, nil
			}
		}

		// 生成唯一锁值，防止误删其他请求的锁
		lockValue := uuid.New().String()
		lockKey := infrds.IdemLockKey(in.IdempotencyKey)

		// 进行中锁，吸收瞬时重复
		ok, _ := r.SetNX(ctx, lockKey, lockValue, idemLockTTL).Result()
		if !ok {
			// 检查是否有缓存的结果
			if bs, _ := r.Get(ctx, infrds.IdemResultKey(in.IdempotencyKey)).Bytes(); len(bs) > 0 {
				var out PurchaseOutput
				if json.Unmarshal(bs, &out) == nil {
					fmt.Printf("[Purchase] Redis 缓存命中（重复请求）: idem_key=%s, trace_id=%s\n",
						in.IdempotencyKey, in.TraceID)
					return &out, nil
				}
			}
			fmt.Printf("[Purchase]  重复请求进行中: idem_key=%s, trace_id=%s\n",
				in.IdempotencyKey, in.TraceID)
			return nil, ErrDuplicateInFlight
		}

		// 使用 Lua 脚本原子释放锁（仅当锁值匹配时删除）
		defer func() {
			script := `
				if redis.call("get", KEYS[1]) == ARGV[1] then
					return redis.call("del", KEYS[1])
				else
					return 0
				end
			`
			res, err := r.Eval(ctx, script, []string{lockKey}, lockValue).Result()
			if err != nil {
				fmt.Printf("[Purchase] 释放分布式锁失败: idem_key=%s, error=%v, trace_id=%s\n",
					in.IdempotencyKey, err, in.TraceID)
			} else if res == int64(0) {
				fmt.Printf("[Purchase] 分布式锁已被其他请求释放或过期: idem_key=%s, trace_id=%s\n",
					in.IdempotencyKey, in.TraceID)
			}
		}()
	}

	// 开启 MySQL 事务（带默认超时，防止长事务影响并发）。
	// 若上游 ctx 已设置 deadline，则沿用；否则使用默认 defaultTxTimeout。
	txCtx := ctx
	if _, has := ctx.Deadline(); !has {
		c, cancel := context.WithTimeout(ctx, defaultTxTimeout)
		txCtx = c
		defer cancel()
	}
	tx, err := infmysql.SQLX().BeginTxx(txCtx, nil)
	if err != nil {
		fmt.Printf("[Purchase] 开启事务失败: error=%v, round_id=%s, trace_id=%s\n",
			err, in.RoundID, in.TraceID)
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	// 锁定会员行，串行化同一会员的并发购彩
	player, err := model.GetPlayerByIDForUpdate(txCtx, tx, in.PlayerID)
	if err != nil {
		if chelper.IsNoRows(err) {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to lock player: %w", err)
	}
	if player.Status != 1 {
		fmt.Printf("[Purchase]  会员状态异常: player_id=%s, status=%d, trace_id=%s\n",
			player.PlayerID, player.Status, in.TraceID)
		return nil, ErrPlayerDisabled
	}

	// 锁定期次并校验开放状态
	round, err := model.GetRoundForUpdate(txCtx, tx, in.RoundID)
	if err != nil {
		if chelper.IsNoRows(err) {
			return nil, ErrRoundNotFound
		}
		return nil, fmt.Errorf("failed to get round info: %w", err)
	}

	// 仅开放中的期次允许购彩；已开奖的期次即使尚未结算也一律拒绝
	if state.FromStatusCode(round.Status) != state.StateOpen || round.WinningNumbers != "" {
		fmt.Printf("[Purchase]  期次不可购彩: status=%d, round_id=%s, trace_id=%s\n",
			round.Status, in.RoundID, in.TraceID)
		return nil, ErrRoundClosed
	}

	// 购彩截止时间（周六 17:00）校验，可由配置关闭以便演示环境补录
	now := time.Now().UnixMilli()
	if cfg := config.Get(); cfg != nil && cfg.Lottery.EnforceCutoff && round.ExpiresAt > 0 && now > round.ExpiresAt {
		fmt.Printf("[Purchase] 购彩已截止: now=%d, expires_at=%d, round_id=%s, trace_id=%s\n",
			now, round.ExpiresAt, in.RoundID, in.TraceID)
		return nil, ErrRoundClosed
	}

	// 解析连投覆盖的期次：从当期起按序号加锁取连续 N 个开放期次，全部预先扣款
	// 行锁挡住并发的开奖/结算，落票前再整体复核一遍状态
	coveredRounds := []model.Round{*round}
	if repeatRounds > 1 {
		coveredRounds, err = model.ListOpenRoundsFrom(txCtx, tx, round.ID, repeatRounds)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve repeating rounds: %w", err)
		}
		if err := ensureCoveredRoundsOpen(coveredRounds, repeatRounds); err != nil {
			fmt.Printf("[Purchase] 连投期次不可用: want=%d, got=%d, round_id=%s, error=%v, trace_id=%s\n",
				repeatRounds, len(coveredRounds), in.RoundID, err, in.TraceID)
			return nil, err
		}
	}

	totalPrice := price.Mul(decimal.NewFromInt(int64(len(coveredRounds)))).Round(2)

	// 预生成票ID，幂等键 ref 记录首张票
	boardIDs := make([]string, len(coveredRounds))
	for i := range boardIDs {
		boardIDs[i] = uuid.NewString()
	}
	repeatGroupID := ""
	if len(coveredRounds) > 1 {
		repeatGroupID = uuid.NewString()
	}

	// 幂等：先占幂等键，ref 记录首张 board_id
	if err := (&model.IdempotencyKey{IdempotencyKey: in.IdempotencyKey, Purpose: "purchase", Ref: boardIDs[0]}).Insert(ctx, tx); err != nil {
		// 若幂等冲突：尝试返回上次结果
		if me, ok := err.(*mysqlerr.MySQLError); ok && me.Number == 1062 {
			fmt.Printf("[Purchase]  幂等键冲突，尝试返回上次结果: idem_key=%s, trace_id=%s\n",
				in.IdempotencyKey, in.TraceID)
			_ = tx.Rollback()
			// Redis 先查
			if r := infrds.Client(); r != nil {
				if bs, _ := r.Get(ctx, infrds.IdemResultKey(in.IdempotencyKey)).Bytes(); len(bs) > 0 {
					var out PurchaseOutput
					if json.Unmarshal(bs, &out) == nil {
						fmt.Printf("[Purchase]  从 Redis 返回上次结果: trace_id=%s\n", in.TraceID)
						return &out, nil
					}
				}
			}
			// DB 回源：根据幂等键查首张票，再推导当前余额
			ref, e1 := model.SelectRefByIdemKey(ctx, infmysql.SQLX(), in.IdempotencyKey)
			if e1 == nil && ref != "" {
				_, _, balance, e2 := derivedBalance(ctx, infmysql.SQLX(), in.PlayerID)
				if e2 == nil {
					fmt.Printf("[Purchase]  从数据库返回上次结果: board_id=%s, trace_id=%s\n",
						ref, in.TraceID)
					return &PurchaseOutput{
						BoardIDs:     []string{ref},
						RemainAmount: chelper.TrimDecimal(balance),
					}, nil
				}
			}
		}
		fmt.Printf("[Purchase]  插入幂等键失败: error=%v, idem_key=%s, trace_id=%s\n",
			err, in.IdempotencyKey, in.TraceID)
		return nil, fmt.Errorf("idempotency conflict or insert failed: %w", err)
	}

	// 推导余额并校验（会员行已加锁，读视图与本次扣款一致）
	_, _, balance, err := derivedBalance(txCtx, tx, in.PlayerID)
	if err != nil {
		return nil, err
	}
	if balance.Cmp(totalPrice) < 0 {
		fmt.Printf("[Purchase] 余额不足: balance=%s, total_price=%s, player_id=%s, trace_id=%s\n",
			balance.StringFixed(2), totalPrice.StringFixed(2), in.PlayerID, in.TraceID)
		return nil, ErrInsufficientBalance
	}

	// 落票：连投按覆盖的期次逐期落行，票即账目，余额由票价之和推导
	isRepeating := int8(0)
	if repeatGroupID != "" {
		isRepeating = 1
	}
	roundIDs := make([]string, len(coveredRounds))
	for i := range coveredRounds {
		roundIDs[i] = coveredRounds[i].RoundID
		board := &model.Board{
			BoardID:        boardIDs[i],
			PlayerID:       in.PlayerID,
			RoundID:        coveredRounds[i].RoundID,
			ChosenNumbers:  chosenCSV,
			NumberCount:    int8(numberCount),
			Price:          price.InexactFloat64(),
			IsRepeating:    isRepeating,
			RepeatGroupID:  repeatGroupID,
			IdempotencyKey: in.IdempotencyKey,
			TraceID:        in.TraceID,
		}
		if err := board.Insert(txCtx, tx); err != nil {
			fmt.Printf("[Purchase]  落票失败: error=%v, board_id=%s, round_id=%s, trace_id=%s\n",
				err, boardIDs[i], coveredRounds[i].RoundID, in.TraceID)
			return nil, err
		}
	}

	// Outbox 消息（异步）
	payload := map[string]any{
		"event":           "board_purchased",
		"board_ids":       boardIDs,
		"player_id":       in.PlayerID,
		"round_ids":       roundIDs,
		"chosen_numbers":  chosenCSV,
		"number_count":    numberCount,
		"total_price":     totalPrice.InexactFloat64(),
		"repeat_group_id": repeatGroupID,
		"trace_id":        in.TraceID,
	}
	if err := model.CreateOutbox(txCtx, tx, "board_purchased", boardIDs[0], payload); err != nil {
		fmt.Printf("[Purchase]  写入 Outbox 失败: error=%v, board_id=%s, trace_id=%s\n",
			err, boardIDs[0], in.TraceID)
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		fmt.Printf("[Purchase]  提交事务失败: error=%v, board_id=%s, trace_id=%s\n",
			err, boardIDs[0], in.TraceID)
		return nil, err
	}

	result = "success"
	remain := balance.Sub(totalPrice)
	out := &PurchaseOutput{
		BoardIDs:      boardIDs,
		RoundIDs:      roundIDs,
		RepeatGroupID: repeatGroupID,
		TotalPrice:    chelper.TrimDecimal(totalPrice),
		RemainAmount:  chelper.TrimDecimal(remain),
	}

	// 写入 Redis 结果缓存（降级容错）
	if r := infrds.Client(); r != nil {
		if b, e := json.Marshal(out); e == nil {
			_ = r.Set(ctx, infrds.IdemResultKey(in.IdempotencyKey), b, idemResultTTL).Err()
		}
	}

	fmt.Printf("[Purchase] 购彩完成: player_id=%s, boards=%d, total_price=%s, remain=%s, trace_id=%s\n",
		in.PlayerID, len(boardIDs), out.TotalPrice, out.RemainAmount, in.TraceID)
	return out, nil
}
