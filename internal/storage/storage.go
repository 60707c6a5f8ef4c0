// internal/storage/storage.go
package storage

import (
	"context"

	"walletwhisper/internal/domain"
)

type JournalStorage interface {
	RecordCommand(ctx context.Context, entry domain.JournalEntry) error
}

// NopJournal is used when no database is configured.
type NopJournal struct{}

func (NopJournal) RecordCommand(context.Context, domain.JournalEntry) error { return nil }
