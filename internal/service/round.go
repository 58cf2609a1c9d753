package service

import (
	"context"
	"fmt"
	"time"

	"dp-server/common"
	chelper "dp-server/common/helper"
	infmysql "dp-server/internal/infra/mysql"
	"dp-server/internal/model"
)

// CreateRoundInput 开期入参
type CreateRoundInput struct {
	ExpiresAt int64 // 购彩截止时间（毫秒），0=默认本周六17:00
	Operator  string
	TraceID   string
}

// RoundService 期次生命周期：开期与查询
// 开奖见 PublishService，结算见 SettleService
type RoundService interface {
	CreateRound(ctx context.Context, in CreateRoundInput) (*model.Round, error)
	CurrentRound(ctx context.Context) (*model.Round, error)
}

type roundService struct{}

func NewRoundService() RoundService { return &roundService{} }

// CreateRound 创建新一期，默认截止时间为本周六 17:00（哥本哈根时间）
func (s *roundService) CreateRound(ctx context.Context, in CreateRoundInput) (*model.Round, error) {
	expiresAt := in.ExpiresAt
	if expiresAt <= 0 {
		expiresAt = common.GetWeekCutoff(time.Now()) * 1000
	}
	if expiresAt <= time.Now().UnixMilli() {
		return nil, fmt.Errorf("expires_at must be in the future")
	}

	r := &model.Round{
		ExpiresAt: expiresAt,
		TraceID:   in.TraceID,
	}
	if err := r.Insert(ctx, infmysql.SQLX()); err != nil {
		fmt.Printf("[Round]  创建期次失败: error=%v, trace_id=%s\n", err, in.TraceID)
		return nil, err
	}

	fmt.Printf("[Round] 新期次已创建: round_id=%s, seq=%d, expires_at=%d, operator=%s, trace_id=%s\n",
		r.RoundID, r.ID, r.ExpiresAt, in.Operator, in.TraceID)
	return r, nil
}

// CurrentRound 取当前最早仍开放的期次（购彩页展示用）
func (s *roundService) CurrentRound(ctx context.Context) (*model.Round, error) {
	r, err := model.GetCurrentOpenRound(ctx, infmysql.SQLX())
	if err != nil {
		if chelper.IsNoRows(err) {
			return nil, ErrRoundNotFound
		}
		return nil, err
	}
	return r, nil
}
