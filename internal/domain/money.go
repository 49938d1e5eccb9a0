package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amounts are stored as NUMERIC(18,2): at most two decimal places and 16
// integer digits.
const MoneyScale = 2

var maxMoney = decimal.New(1, 16)

// checkMoney reports why amount cannot be stored as money, or "".
func checkMoney(amount decimal.Decimal) string {
	switch {
	case !amount.IsPositive():
		return "amount must be positive"
	case !amount.Equal(amount.Round(MoneyScale)):
		return fmt.Sprintf("amount %s has more than %d decimal places", amount.String(), MoneyScale)
	case amount.GreaterThanOrEqual(maxMoney):
		return fmt.Sprintf("amount %s is too large", amount.String())
	}
	return ""
}
