// internal/domain/models.go
package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Kind tags, also used as journal values.
const (
	KindAddExpense          = "add_expense"
	KindGetBalance          = "get_balance"
	KindGetLastTransactions = "get_last_transactions"
)

// Command is a classified user intent. Only the types in this package implement it.
type Command interface {
	Kind() string
	command()
}

// AddExpense: the user reported spending Amount on Category.
type AddExpense struct {
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category"`
}

// GetBalance asks for the current balance.
type GetBalance struct{}

// GetLastTransactions asks for the recent transaction list.
type GetLastTransactions struct{}

func (AddExpense) Kind() string          { return KindAddExpense }
func (GetBalance) Kind() string          { return KindGetBalance }
func (GetLastTransactions) Kind() string { return KindGetLastTransactions }

func (AddExpense) command()          {}
func (GetBalance) command()          {}
func (GetLastTransactions) command() {}

// NewAddExpense trims the category and checks both fields.
func NewAddExpense(amount decimal.Decimal, category string) (AddExpense, error) {
	if amount.IsNegative() {
		return AddExpense{}, ErrNegativeAmount
	}
	category = strings.TrimSpace(category)
	if category == "" {
		return AddExpense{}, ErrMissingCategory
	}
	return AddExpense{Amount: amount, Category: category}, nil
}
