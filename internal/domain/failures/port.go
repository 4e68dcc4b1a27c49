package failures

import "context"

// Repository persists completion failures for operators.
type Repository interface {
	Save(ctx context.Context, f *Failure) error
	Recent(ctx context.Context, limit int) ([]*Failure, error)
	Ping(ctx context.Context) error
}
