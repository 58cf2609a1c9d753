package model

import (
	"context"
	"database/sql"
	"time"

	"dp-server/common/logger"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Player 会员表
// 余额不落库：余额 = 已通过充值之和 - 已购彩票之和，见 service/ledger.go
// status: 1=正常 2=禁用（禁用后不能购彩）
type Player struct {
	PlayerID     string `db:"player_id"`     // 会员ID（UUID 主键）
	FirstName    string `db:"first_name"`    // 名
	LastName     string `db:"last_name"`     // 姓
	Email        string `db:"email"`         // 邮箱（唯一）
	Phone        string `db:"phone"`         // 手机号
	PasswordHash string `db:"password_hash"` // bcrypt 密码哈希
	Status       int8   `db:"status"`        // 状态: 1=正常 2=禁用
	CreatedAt    int64  `db:"created_at"`    // 创建时间（13位毫秒时间戳）
	UpdatedAt    int64  `db:"updated_at"`    // 更新时间（13位毫秒时间戳）
}

func (p *Player) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// GetPlayerByID 按会员ID查询
func GetPlayerByID(ctx context.Context, db *sqlx.DB, playerID string) (*Player, error) {
	query := `SELECT player_id, first_name, last_name, email, phone, password_hash, status, created_at, updated_at
	          FROM players
	          WHERE player_id = ?
	          LIMIT 1`

	var p Player
	err := db.GetContext(ctx, &p, query, playerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		logger.Error("get player by id failed",
			zap.String("player_id", playerID),
			zap.Error(err))
		return nil, err
	}

	return &p, nil
}

// GetPlayerByIDForUpdate 按会员ID加锁查询（FOR UPDATE）
// 必须在事务中调用；购彩用该锁串行化同一会员的并发扣款
func GetPlayerByIDForUpdate(ctx context.Context, exec sqlx.ExtContext, playerID string) (*Player, error) {
	query := `SELECT player_id, first_name, last_name, email, phone, password_hash, status, created_at, updated_at
	          FROM players
	          WHERE player_id = ?
	          FOR UPDATE`

	var p Player
	err := sqlx.GetContext(ctx, exec, &p, query, playerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		logger.Error("get player by id for update failed",
			zap.String("player_id", playerID),
			zap.Error(err))
		return nil, err
	}

	return &p, nil
}

// GetPlayerByEmail 按邮箱查询（登录用）
func GetPlayerByEmail(ctx context.Context, db *sqlx.DB, email string) (*Player, error) {
	query := `SELECT player_id, first_name, last_name, email, phone, password_hash, status, created_at, updated_at
	          FROM players
	          WHERE email = ?
	          LIMIT 1`

	var p Player
	err := db.GetContext(ctx, &p, query, email)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		logger.Error("get player by email failed", zap.Error(err))
		return nil, err
	}

	return &p, nil
}

// Insert 插入会员，player_id 为空时自动生成
func (p *Player) Insert(ctx context.Context, db *sqlx.DB) error {
	now := getCurrentMillis()
	if p.PlayerID == "" {
		p.PlayerID = uuid.NewString()
	}
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `INSERT INTO players (player_id, first_name, last_name, email, phone, password_hash, status, created_at, updated_at)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := db.ExecContext(ctx, query,
		p.PlayerID, p.FirstName, p.LastName, p.Email, p.Phone, p.PasswordHash, p.Status, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		logger.Error("insert player failed",
			zap.String("player_id", p.PlayerID),
			zap.Error(err))
		return err
	}

	logger.Info("player created",
		zap.String("player_id", p.PlayerID),
		zap.String("email", p.Email))

	return nil
}

// SetPlayerStatus 启用/禁用会员
func SetPlayerStatus(ctx context.Context, exec sqlx.ExtContext, playerID string, status int8) error {
	now := getCurrentMillis()
	query := `UPDATE players SET status = ?, updated_at = ? WHERE player_id = ?`

	_, err := exec.ExecContext(ctx, query, status, now, playerID)
	if err != nil {
		logger.Error("set player status failed",
			zap.String("player_id", playerID),
			zap.Int8("status", status),
			zap.Error(err))
		return err
	}

	return nil
}

// ListPlayers 会员列表（后台用），onlyActive=true 时只返回正常状态的会员
func ListPlayers(ctx context.Context, db *sqlx.DB, onlyActive bool, limit int) ([]Player, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	query := `SELECT player_id, first_name, last_name, email, phone, password_hash, status, created_at, updated_at
	          FROM players`
	args := []interface{}{}
	if onlyActive {
		query += ` WHERE status = 1`
	}
	query += ` ORDER BY created_at DESC LIMIT ?`
	args = append(args, limit)

	var list []Player
	if err := db.SelectContext(ctx, &list, query, args...); err != nil {
		return nil, err
	}
	return list, nil
}

// getCurrentMillis 获取当前13位毫秒时间戳
func getCurrentMillis() int64 {
	return time.Now().UnixMilli()
}
