package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrInsufficientFunds is returned when a transfer would overdraw its source.
var ErrInsufficientFunds = errors.New("insufficient funds")

// Closer releases a ledger connection.
type Closer interface {
	Close()
}

// Entry is one posting against an account.
type Entry struct {
	Account string
	Amount  int64
	Memo    string
}

// Ledger is a double-entry book. Stubs for it are generated by stubgen.
type Ledger interface {
	Closer
	Balance(ctx context.Context, account string) (int64, error)
	Post(entry Entry) error
	History(account string, limit int) (entries []Entry, total int, err error)
	Totals(account string) (debits, credits int64)
	Currency() string
}

// Statement renders the latest entries of account followed by its totals. The
// ledger is closed afterwards.
func Statement(l Ledger, account string, limit int) (string, error) {
	defer l.Close()

	entries, total, err := l.History(account, limit)
	if err != nil {
		return "", fmt.Errorf("history of %s: %w", account, err)
	}

	debits, credits := l.Totals(account)
	currency := l.Currency()

	var out strings.Builder

	_, _ = fmt.Fprintf(&out, "%s: %d of %d entries\n", account, len(entries), total)

	for _, entry := range entries {
		_, _ = fmt.Fprintf(&out, "%+d %s %s\n", entry.Amount, currency, entry.Memo)
	}

	_, _ = fmt.Fprintf(&out, "debits %d credits %d %s", debits, credits, currency)

	return out.String(), nil
}

// Transfer posts a matching debit and credit when the source can cover amount.
func Transfer(ctx context.Context, l Ledger, from, to string, amount int64) error {
	balance, err := l.Balance(ctx, from)
	if err != nil {
		return fmt.Errorf("balance of %s: %w", from, err)
	}

	if balance < amount {
		return fmt.Errorf("%w: %s holds %d", ErrInsufficientFunds, from, balance)
	}

	postings := []Entry{
		{Account: from, Amount: -amount, Memo: "to " + to},
		{Account: to, Amount: amount, Memo: "from " + from},
	}

	for _, entry := range postings {
		err := l.Post(entry)
		if err != nil {
			return fmt.Errorf("post %s: %w", entry.Account, err)
		}
	}

	return nil
}
