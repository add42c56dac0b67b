package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mbelkin/geoauth/internal/models"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, rec *Record) (*Record, error) {
	var geoJSON []byte
	if rec.Geo != nil {
		data, err := json.Marshal(rec.Geo)
		if err != nil {
			return nil, fmt.Errorf("encode geo snapshot: %w", err)
		}
		geoJSON = data
	}

	query := `INSERT INTO history (user_id, ip, geo)
	          VALUES ($1, $2, $3)
	          RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, rec.UserID, rec.IP, geoJSON).
		Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rec, nil
}

func (r *PostgresRepository) List(ctx context.Context, userID string, limit int) ([]*Record, error) {
	query := `SELECT id, user_id, ip, geo, created_at FROM history
	          WHERE user_id = $1
	          ORDER BY created_at DESC
	          LIMIT $2`

	rows, err := r.db.QueryContext(ctx, query, userID, ClampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	records := make([]*Record, 0)
	for rows.Next() {
		rec := &Record{}
		var geoJSON []byte
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.IP, &geoJSON, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		if len(geoJSON) > 0 {
			geo := &models.GeoSnapshot{}
			if err := json.Unmarshal(geoJSON, geo); err != nil {
				return nil, fmt.Errorf("decode geo snapshot: %w", err)
			}
			rec.Geo = geo
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return records, nil
}

func (r *PostgresRepository) DeleteByIDs(ctx context.Context, userID string, ids []string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query := `DELETE FROM history
	          WHERE user_id = $1 AND id = ANY($2::uuid[])`

	res, err := r.db.ExecContext(ctx, query, userID, ids)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return deleted, nil
}
