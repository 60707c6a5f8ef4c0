// Package parser classifies free-text chat messages into domain commands.
package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"walletwhisper/internal/domain"
)

// separators also accept Unicode spaces such as NBSP, which RE2's \s does not
var expenseRe = regexp.MustCompile(`^(add|spent)[\s\p{Zs}]+(\d+\.?\d*)[\s\p{Zs}]+(.+)$`)

// matcher reports ok=false when the message is not its shape.
type matcher func(msg string) (cmd domain.Command, ok bool, err error)

// CommandParser holds no mutable state and is safe for concurrent use.
type CommandParser struct {
	matchers []matcher
}

func NewCommandParser() *CommandParser {
	return &CommandParser{
		// order matters: first match wins
		matchers: []matcher{
			matchExpense,
			matchExact("balance", domain.GetBalance{}),
			matchExact("last", domain.GetLastTransactions{}),
		},
	}
}

// Parse lowercases and trims the message, then tries each matcher in turn.
// Messages that fit no shape fail with domain.ErrInvalidCommandFormat.
func (p *CommandParser) Parse(message string) (domain.Command, error) {
	msg := normalize(message)
	for _, m := range p.matchers {
		cmd, ok, err := m(msg)
		if err != nil {
			return nil, err
		}
		if ok {
			return cmd, nil
		}
	}
	return nil, domain.ErrInvalidCommandFormat
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func matchExpense(msg string) (domain.Command, bool, error) {
	groups := expenseRe.FindStringSubmatch(msg)
	if groups == nil {
		return nil, false, nil
	}

	// "25." is a valid amount with an empty fraction
	amount, err := decimal.NewFromString(strings.TrimSuffix(groups[2], "."))
	if err != nil {
		return nil, false, fmt.Errorf("%w: amount %q: %v", domain.ErrInvalidCommandFormat, groups[2], err)
	}

	cmd, err := domain.NewAddExpense(amount, groups[3])
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", domain.ErrInvalidCommandFormat, err)
	}
	return cmd, true, nil
}

func matchExact(keyword string, cmd domain.Command) matcher {
	return func(msg string) (domain.Command, bool, error) {
		return cmd, msg == keyword, nil
	}
}
