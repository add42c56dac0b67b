package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mbelkin/geoauth/internal/logging"
	"github.com/mbelkin/geoauth/internal/models"
	"github.com/mbelkin/geoauth/internal/server/api/httperr"
)

type stubHistoryService struct {
	recordFn func(ctx context.Context, userID, ip string, geo *models.GeoSnapshot) error
	listFn   func(ctx context.Context, userID string, limit int) ([]models.HistoryRecord, error)
	deleteFn func(ctx context.Context, userID string, ids []string) (int, error)
}

func (s *stubHistoryService) Record(ctx context.Context, userID, ip string, geo *models.GeoSnapshot) error {
	return s.recordFn(ctx, userID, ip, geo)
}

func (s *stubHistoryService) List(ctx context.Context, userID string, limit int) ([]models.HistoryRecord, error) {
	return s.listFn(ctx, userID, limit)
}

func (s *stubHistoryService) Delete(ctx context.Context, userID string, ids []string) (int, error) {
	return s.deleteFn(ctx, userID, ids)
}

func testLogger() logging.Logger {
	return logging.New(io.Discard, "info")
}

func TestHistoryHandler_Search_RecordsLookup(t *testing.T) {
	resolver := &stubResolver{
		resolveFn: func(ctx context.Context, ip string) (*models.GeoSnapshot, error) {
			return &models.GeoSnapshot{IP: ip}, nil
		},
	}
	var recordedUser, recordedIP string
	svc := &stubHistoryService{
		recordFn: func(ctx context.Context, userID, ip string, geo *models.GeoSnapshot) error {
			recordedUser, recordedIP = userID, ip
			require.NotNil(t, geo)
			return nil
		},
	}
	h := NewHistoryHandler(resolver, svc, testLogger())

	c, rec := newTestContext(t, http.MethodPost, "/api/history/search", `{"ip":"1.1.1.1"}`)
	c.Set("user_id", "user-1")
	require.NoError(t, h.Search(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user-1", recordedUser)
	assert.Equal(t, "1.1.1.1", recordedIP)
}

func TestHistoryHandler_Search_WriteFailureNotSurfaced(t *testing.T) {
	resolver := &stubResolver{
		resolveFn: func(ctx context.Context, ip string) (*models.GeoSnapshot, error) {
			return &models.GeoSnapshot{IP: ip}, nil
		},
	}
	svc := &stubHistoryService{
		recordFn: func(ctx context.Context, userID, ip string, geo *models.GeoSnapshot) error {
			return errors.New("db down")
		},
	}
	h := NewHistoryHandler(resolver, svc, testLogger())

	c, rec := newTestContext(t, http.MethodPost, "/api/history/search", `{"ip":"1.1.1.1"}`)
	c.Set("user_id", "user-1")
	require.NoError(t, h.Search(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"geo"`)
}

func TestHistoryHandler_Search_InvalidIP(t *testing.T) {
	h := NewHistoryHandler(&stubResolver{}, &stubHistoryService{}, testLogger())

	c, _ := newTestContext(t, http.MethodPost, "/api/history/search", `{"ip":"hello"}`)
	err := h.Search(c)

	var apiErr *httperr.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "INVALID_IP", apiErr.Code)
}

func TestHistoryHandler_List_LimitParsing(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"no limit", "/api/history", 0},
		{"numeric", "/api/history?limit=25", 25},
		{"non-numeric", "/api/history?limit=abc", 0},
		{"negative", "/api/history?limit=-5", -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var sawLimit int
			svc := &stubHistoryService{
				listFn: func(ctx context.Context, userID string, limit int) ([]models.HistoryRecord, error) {
					sawLimit = limit
					return []models.HistoryRecord{}, nil
				},
			}
			h := NewHistoryHandler(&stubResolver{}, svc, testLogger())

			c, rec := newTestContext(t, http.MethodGet, tt.target, "")
			c.Set("user_id", "user-1")
			require.NoError(t, h.List(c))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.want, sawLimit)
			assert.JSONEq(t, `{"items":[]}`, rec.Body.String())
		})
	}
}

func TestHistoryHandler_Delete(t *testing.T) {
	svc := &stubHistoryService{
		deleteFn: func(ctx context.Context, userID string, ids []string) (int, error) {
			require.Equal(t, "user-1", userID)
			require.Len(t, ids, 2)
			return 1, nil
		},
	}
	h := NewHistoryHandler(&stubResolver{}, svc, testLogger())

	body := `{"ids":["7f9c24e5-26a7-41cd-9ab1-4be68abcad49","3b6cba13-7d0e-4b92-92d3-96f5a44c54c4"]}`
	c, rec := newTestContext(t, http.MethodDelete, "/api/history", body)
	c.Set("user_id", "user-1")
	require.NoError(t, h.Delete(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"deleted":1}`, rec.Body.String())
}

func TestHistoryHandler_Delete_Validation(t *testing.T) {
	h := NewHistoryHandler(&stubResolver{}, &stubHistoryService{}, testLogger())

	tests := []struct {
		name string
		body string
	}{
		{"empty ids", `{"ids":[]}`},
		{"missing ids", `{}`},
		{"non-uuid id", `{"ids":["not-a-uuid"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestContext(t, http.MethodDelete, "/api/history", tt.body)
			err := h.Delete(c)

			var apiErr *httperr.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, http.StatusBadRequest, apiErr.Status)
			assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
		})
	}
}
