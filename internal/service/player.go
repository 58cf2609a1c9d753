package service

import (
	"context"
	"errors"
	"fmt"

	chelper "dp-server/common/helper"
	"dp-server/common/constant"
	infmysql "dp-server/internal/infra/mysql"
	"dp-server/internal/model"

	mysqlerr "github.com/go-sql-driver/mysql"
)

// CreatePlayerInput 后台开户入参
// 会员只能由后台操作员创建，不开放自助注册
type CreatePlayerInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Password  string
	Operator  string
	TraceID   string
}

type SetPlayerStatusInput struct {
	PlayerID string
	Active   bool
	Operator string
	TraceID  string
}

type CreateOperatorInput struct {
	Username string
	Password string
	Operator string
	TraceID  string
}

// PlayerView 会员列表项（手机号脱敏后返回）
type PlayerView struct {
	PlayerID  string `json:"player_id"`
	FullName  string `json:"full_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Status    int8   `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

type PlayerAdminService interface {
	CreatePlayer(ctx context.Context, in CreatePlayerInput) (*model.Player, error)
	ListPlayers(ctx context.Context, onlyActive bool, limit int) ([]PlayerView, error)
	SetPlayerStatus(ctx context.Context, in SetPlayerStatusInput) error
	CreateOperator(ctx context.Context, in CreateOperatorInput) (*model.Admin, error)
}

type playerAdminService struct{}

func NewPlayerAdminService() PlayerAdminService { return &playerAdminService{} }

var (
	ErrInvalidEmail      = errors.New("invalid email")
	ErrInvalidPhone      = errors.New("invalid phone")
	ErrWeakPassword      = errors.New("password too short")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrDuplicateUsername = errors.New("username already registered")
)

const minPasswordLen = 8

// CreatePlayer 后台开户：校验邮箱/手机号、生成初始密码哈希后落库
// 邮箱唯一键冲突（1062）映射为 ErrDuplicateEmail
func (s *playerAdminService) CreatePlayer(ctx context.Context, in CreatePlayerInput) (*model.Player, error) {
	if !chelper.ValidateEmail(in.Email) {
		return nil, ErrInvalidEmail
	}
	if in.Phone != "" && !chelper.ValidateMobile(in.Phone) {
		return nil, ErrInvalidPhone
	}
	if len(in.Password) < minPasswordLen {
		return nil, ErrWeakPassword
	}
	if in.FirstName == "" && in.LastName == "" {
		return nil, ErrBadRequest
	}

	hash, err := chelper.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	p := &model.Player{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Phone:        in.Phone,
		PasswordHash: hash,
		Status:       constant.PlayerActive,
	}
	if err := p.Insert(ctx, infmysql.SQLX()); err != nil {
		if me, ok := err.(*mysqlerr.MySQLError); ok && me.Number == 1062 {
			fmt.Printf("[Player] 邮箱已注册: email=%s, trace_id=%s\n", in.Email, in.TraceID)
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	// 日志里姓名/手机号脱敏
	fmt.Printf("[Player] 开户完成: player_id=%s, name=%s, phone=%s, operator=%s, trace_id=%s\n",
		p.PlayerID, chelper.MaskName(p.FullName()), chelper.MaskPhone(p.Phone), in.Operator, in.TraceID)

	return p, nil
}

// ListPlayers 会员列表，手机号脱敏
func (s *playerAdminService) ListPlayers(ctx context.Context, onlyActive bool, limit int) ([]PlayerView, error) {
	players, err := model.ListPlayers(ctx, infmysql.SQLX(), onlyActive, limit)
	if err != nil {
		return nil, err
	}

	views := make([]PlayerView, 0, len(players))
	for i := range players {
		p := &players[i]
		phone := ""
		if p.Phone != "" {
			phone = chelper.MaskPhone(p.Phone)
		}
		views = append(views, PlayerView{
			PlayerID:  p.PlayerID,
			FullName:  p.FullName(),
			Email:     p.Email,
			Phone:     phone,
			Status:    p.Status,
			CreatedAt: p.CreatedAt,
		})
	}
	return views, nil
}

// SetPlayerStatus 启用/禁用会员
// 禁用只拦新购彩，已售出的票照常参与结算
func (s *playerAdminService) SetPlayerStatus(ctx context.Context, in SetPlayerStatusInput) error {
	if in.PlayerID == "" {
		return ErrBadRequest
	}

	db := infmysql.SQLX()
	if _, err := model.GetPlayerByID(ctx, db, in.PlayerID); err != nil {
		if chelper.IsNoRows(err) {
			return ErrPlayerNotFound
		}
		return err
	}

	status := int8(constant.PlayerDisabled)
	if in.Active {
		status = constant.PlayerActive
	}
	if err := model.SetPlayerStatus(ctx, db, in.PlayerID, status); err != nil {
		return err
	}

	fmt.Printf("[Player] 状态变更: player_id=%s, status=%d, operator=%s, trace_id=%s\n",
		in.PlayerID, status, in.Operator, in.TraceID)
	return nil
}

// CreateOperator 新增后台操作员（需现有操作员登录后调用）
func (s *playerAdminService) CreateOperator(ctx context.Context, in CreateOperatorInput) (*model.Admin, error) {
	if in.Username == "" || len(in.Username) > 64 {
		return nil, ErrBadRequest
	}
	if len(in.Password) < minPasswordLen {
		return nil, ErrWeakPassword
	}

	hash, err := chelper.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	a := &model.Admin{
		Username:     in.Username,
		PasswordHash: hash,
		Status:       1,
	}
	if err := a.Insert(ctx, infmysql.SQLX()); err != nil {
		if me, ok := err.(*mysqlerr.MySQLError); ok && me.Number == 1062 {
			return nil, ErrDuplicateUsername
		}
		return nil, err
	}

	fmt.Printf("[Player] 操作员创建: username=%s, operator=%s, trace_id=%s\n",
		in.Username, in.Operator, in.TraceID)
	return a, nil
}
