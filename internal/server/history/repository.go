package history

import "context"

// Repository is the persistence surface for history rows. Every method is
// scoped to the owning user.
type Repository interface {
	Create(ctx context.Context, rec *Record) (*Record, error)
	List(ctx context.Context, userID string, limit int) ([]*Record, error)

	// DeleteByIDs removes the given rows if they belong to userID and
	// returns how many were actually deleted. Foreign ids are skipped, not
	// errors.
	DeleteByIDs(ctx context.Context, userID string, ids []string) (int64, error)
}
