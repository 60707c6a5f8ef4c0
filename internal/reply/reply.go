// Package reply renders the acknowledgement sent back for a parsed command.
//
// No ledger is connected: nothing is stored and balances are not computed, so the
// balance and history replies are fixed placeholders.
package reply

import (
	"fmt"

	"walletwhisper/internal/domain"
)

const (
	BalancePlaceholder = "Your current balance is not available yet: no ledger is connected"
	LastPlaceholder    = "Here are your last transactions: none recorded, no ledger is connected"
	InvalidCommand     = "Invalid command format"
)

// Text returns the acknowledgement for cmd.
func Text(cmd domain.Command) string {
	switch c := cmd.(type) {
	case domain.AddExpense:
		return fmt.Sprintf("Added expense: %s for %s", c.Amount.StringFixed(2), c.Category)
	case domain.GetBalance:
		return BalancePlaceholder
	case domain.GetLastTransactions:
		return LastPlaceholder
	default:
		// unreachable while Command stays sealed
		return InvalidCommand
	}
}
