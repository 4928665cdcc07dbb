package tasks

import "context"

// Store persists one hierarchy per user. The worker is the only writer;
// callers treat a load failure as an empty hierarchy.
type Store interface {
	Load(ctx context.Context, userID string) (Hierarchy, error)
	Save(ctx context.Context, userID string, h Hierarchy) error
	Close() error
}
