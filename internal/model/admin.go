package model

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// Admin 对应 admins 表（后台操作员）
// status: 1=正常 2=禁用
type Admin struct {
	ID           int64  `db:"id"`            // 自增ID
	Username     string `db:"username"`      // 用户名（唯一）
	PasswordHash string `db:"password_hash"` // bcrypt 密码哈希
	Status       int8   `db:"status"`        // 状态
	CreatedAt    int64  `db:"created_at"`    // 创建时间
	UpdatedAt    int64  `db:"updated_at"`    // 更新时间
}

// GetAdminByUsername 按用户名查询（登录用）
func GetAdminByUsername(ctx context.Context, db *sqlx.DB, username string) (*Admin, error) {
	sqlStr := `SELECT id, username, password_hash, status, created_at, updated_at
		FROM admins WHERE username = ? LIMIT 1`
	var a Admin
	if err := db.GetContext(ctx, &a, sqlStr, username); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, err
	}
	return &a, nil
}

// Insert 插入后台操作员
func (a *Admin) Insert(ctx context.Context, db *sqlx.DB) error {
	now := getCurrentMillis()
	a.CreatedAt = now
	a.UpdatedAt = now

	sqlStr := `INSERT INTO admins (username, password_hash, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`
	res, err := db.ExecContext(ctx, sqlStr, a.Username, a.PasswordHash, a.Status, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return err
	}
	id, _ := res.LastInsertId()
	a.ID = id
	return nil
}
