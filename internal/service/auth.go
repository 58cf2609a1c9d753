package service

import (
	"context"
	"errors"
	"fmt"

	chelper "dp-server/common/helper"
	"dp-server/common/constant"
	"dp-server/internal/auth"
	infmysql "dp-server/internal/infra/mysql"
	"dp-server/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPair 登录成功后下发的令牌对
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	SubjectID    string
	Name         string
	Role         string
}

type AuthService interface {
	PlayerLogin(ctx context.Context, email, password string) (*TokenPair, error)
	AdminLogin(ctx context.Context, username, password string) (*TokenPair, error)
	Logout(ctx context.Context, tokenString string) error
}

type authService struct{}

func NewAuthService() AuthService { return &authService{} }

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountDisabled    = errors.New("account disabled")
)

// PlayerLogin 会员登录：邮箱 + 密码
// 账号不存在与密码错误统一返回 ErrInvalidCredentials，不区分提示
func (s *authService) PlayerLogin(ctx context.Context, email, password string) (*TokenPair, error) {
	if !chelper.ValidateEmail(email) || password == "" {
		return nil, ErrInvalidCredentials
	}

	p, err := model.GetPlayerByEmail(ctx, infmysql.SQLX(), email)
	if err != nil {
		if chelper.IsNoRows(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !chelper.CheckPassword(password, p.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if p.Status != constant.PlayerActive {
		return nil, ErrAccountDisabled
	}

	return issueTokens(p.PlayerID, p.FullName(), auth.RolePlayer)
}

// AdminLogin 后台操作员登录：用户名 + 密码
func (s *authService) AdminLogin(ctx context.Context, username, password string) (*TokenPair, error) {
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	a, err := model.GetAdminByUsername(ctx, infmysql.SQLX(), username)
	if err != nil {
		if chelper.IsNoRows(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !chelper.CheckPassword(password, a.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	if a.Status != 1 {
		return nil, ErrAccountDisabled
	}

	return issueTokens(a.Username, a.Username, auth.RoleAdmin)
}

// Logout 注销：解析 Token 过期时间后加入黑名单
// Token 本身无效时按已注销处理，不报错
func (s *authService) Logout(ctx context.Context, tokenString string) error {
	if tokenString == "" {
		return nil
	}

	claims := &auth.JWTClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}

	return auth.RevokeToken(ctx, tokenString, claims.ExpiresAt.Time)
}

func issueTokens(subjectID, name, role string) (*TokenPair, error) {
	access, err := auth.GenerateAccessToken(subjectID, name, role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := auth.GenerateRefreshToken(subjectID, name, role)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		SubjectID:    subjectID,
		Name:         name,
		Role:         role,
	}, nil
}
