package helper

import (
	"github.com/shopspring/decimal"
)

var (
	ZeroDecimal = decimal.Zero
)

// TrimDecimal 金额统一保留2位小数输出（四舍五入，非截断）
func TrimDecimal(val decimal.Decimal) string {
	return val.StringFixed(2)
}
