package model

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"dp-server/common"
)

// Deposit 对应 deposits 表（充值单）
// 说明：金额为非负 DECIMAL(10,2)；状态采用"数值码+冗余字符串"双写
// status: 1=pending 待审核 2=approved 已通过 3=rejected 已拒绝
// pay_ref 为 MobilePay 支付参考号，唯一键，重复提交触发 1062
type Deposit struct {
	DepositID  string  `db:"deposit_id"`  // 充值单ID（UUID 主键）
	PlayerID   string  `db:"player_id"`   // 会员ID
	PayRef     string  `db:"pay_ref"`     // 支付参考号（唯一）
	Amount     float64 `db:"amount"`      // 金额（非负）
	Status     int8    `db:"status"`      // 状态
	StatusStr  string  `db:"status_str"`  // 状态冗余字符串
	ReviewedBy string  `db:"reviewed_by"` // 审核人
	ReviewedAt int64   `db:"reviewed_at"` // 审核时间（毫秒，0=未审核）
	TraceID    string  `db:"trace_id"`    // 链路追踪ID
	CreatedAt  int64   `db:"created_at"`  // 创建时间
	UpdatedAt  int64   `db:"updated_at"`  // 更新时间
}

func depositStatusStr(code int8) string {
	switch code {
	case 1:
		return "pending"
	case 2:
		return "approved"
	case 3:
		return "rejected"
	default:
		return ""
	}
}

// Insert 插入充值单（状态固定为待审核），deposit_id 为空时自动生成
func (d *Deposit) Insert(ctx context.Context, exec sqlx.ExtContext) error {
	now := time.Now().UnixMilli()
	if d.DepositID == "" {
		d.DepositID = uuid.NewString()
	}
	d.Status = 1
	d.StatusStr = depositStatusStr(d.Status)
	d.CreatedAt = now
	d.UpdatedAt = now

	sqlStr := `INSERT INTO deposits (deposit_id, player_id, pay_ref, amount, status, status_str, reviewed_by, reviewed_at, trace_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := exec.ExecContext(ctx, sqlStr, d.DepositID, d.PlayerID, d.PayRef, d.Amount, d.Status, d.StatusStr, "", 0, d.TraceID, now, now)
	return err
}

// GetDepositByID 按充值单ID查询
func GetDepositByID(ctx context.Context, exec sqlx.ExtContext, depositID string) (*Deposit, error) {
	sqlStr := `SELECT deposit_id, player_id, pay_ref, amount, status, status_str, reviewed_by, reviewed_at, trace_id, created_at, updated_at
		FROM deposits WHERE deposit_id = ? LIMIT 1`
	var d Deposit
	if err := sqlx.GetContext(ctx, exec, &d, sqlStr, depositID); err != nil {
		return nil, err
	}
	return &d, nil
}

// GetDepositByIDForUpdate 按充值单ID加锁查询，审核时串行化并发复核
func GetDepositByIDForUpdate(ctx context.Context, exec sqlx.ExtContext, depositID string) (*Deposit, error) {
	sqlStr := `SELECT deposit_id, player_id, pay_ref, amount, status, status_str, reviewed_by, reviewed_at, trace_id, created_at, updated_at
		FROM deposits WHERE deposit_id = ? FOR UPDATE`
	var d Deposit
	if err := sqlx.GetContext(ctx, exec, &d, sqlStr, depositID); err != nil {
		return nil, err
	}
	return &d, nil
}

// ReviewDeposit 审核充值单：仅当仍处于待审核状态才会生效（CAS）
// 返回受影响行数，0 表示该单已被终审
func ReviewDeposit(ctx context.Context, exec sqlx.ExtContext, depositID string, newStatus int8, reviewer string) (int64, error) {
	now := time.Now().UnixMilli()
	sqlStr := `UPDATE deposits SET status = ?, status_str = ?, reviewed_by = ?, reviewed_at = ?, updated_at = ?
		WHERE deposit_id = ? AND status = 1`
	res, err := exec.ExecContext(ctx, sqlStr, newStatus, depositStatusStr(newStatus), reviewer, now, now, depositID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SumApprovedByPlayer 某会员已通过充值的金额合计（空集返回0）
// 可在事务中调用以获得和扣款一致的读视图
func SumApprovedByPlayer(ctx context.Context, exec sqlx.ExtContext, playerID string) (float64, error) {
	sqlStr := `SELECT COALESCE(SUM(amount), 0) FROM deposits WHERE player_id = ? AND status = 2`
	var sum float64
	if err := sqlx.GetContext(ctx, exec, &sum, sqlStr, playerID); err != nil {
		return 0, err
	}
	return sum, nil
}

// ListDeposits 后台充值单列表，支持按状态/会员/参考号过滤
func ListDeposits(ctx context.Context, db *sqlx.DB, status int8, playerID, payRef string, offset, limit uint) ([]Deposit, error) {
	if limit == 0 || limit > 200 {
		limit = 50
	}

	var ex []exp.Expression
	if status != 0 {
		ex = append(ex, goqu.C("status").Eq(status))
	}
	if playerID != "" {
		ex = append(ex, goqu.C("player_id").Eq(playerID))
	}
	if payRef != "" {
		ex = append(ex, goqu.C("pay_ref").Like("%"+payRef+"%"))
	}

	var list []Deposit
	err := common.SelectAllCtx(ctx, &list, common.QueryArg{
		Db:     db,
		Table:  "deposits",
		Fields: common.EnumFields(Deposit{}),
		Ex:     ex,
		Order:  []exp.OrderedExpression{goqu.C("created_at").Desc()},
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}
	return list, nil
}

// ListDepositsByPlayer 会员自己的充值记录
func ListDepositsByPlayer(ctx context.Context, db *sqlx.DB, playerID string, limit int) ([]Deposit, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	sqlStr := `SELECT deposit_id, player_id, pay_ref, amount, status, status_str, reviewed_by, reviewed_at, trace_id, created_at, updated_at
		FROM deposits WHERE player_id = ? ORDER BY created_at DESC LIMIT ?`
	var list []Deposit
	if err := db.SelectContext(ctx, &list, sqlStr, playerID, limit); err != nil {
		return nil, err
	}
	return list, nil
}
