package history

import (
	"context"

	"github.com/mbelkin/geoauth/internal/models"
)

// Service wraps the repository with wire-shape conversion and limit clamping.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Record stores one lookup for the user. Geo may be nil.
func (s *Service) Record(ctx context.Context, userID, ip string, geo *models.GeoSnapshot) error {
	_, err := s.repo.Create(ctx, &Record{UserID: userID, IP: ip, Geo: geo})
	return err
}

// List returns the user's lookups, newest first.
func (s *Service) List(ctx context.Context, userID string, limit int) ([]models.HistoryRecord, error) {
	records, err := s.repo.List(ctx, userID, ClampLimit(limit))
	if err != nil {
		return nil, err
	}

	items := make([]models.HistoryRecord, 0, len(records))
	for _, rec := range records {
		items = append(items, rec.ToWire())
	}
	return items, nil
}

// Delete removes the user's rows among ids and reports how many went away.
func (s *Service) Delete(ctx context.Context, userID string, ids []string) (int, error) {
	deleted, err := s.repo.DeleteByIDs(ctx, userID, ids)
	if err != nil {
		return 0, err
	}
	return int(deleted), nil
}
