package storage

import "context"

// SeenStore persists the set of already-notified listing IDs between runs.
// Save always receives the complete set and replaces whatever was there.
type SeenStore interface {
	Load(ctx context.Context) ([]string, error)
	Save(ctx context.Context, ids []string) error
	Close() error
}
