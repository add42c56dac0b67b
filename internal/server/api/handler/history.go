package handler

import (
	"context"
	"net"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mbelkin/geoauth/internal/logging"
	"github.com/mbelkin/geoauth/internal/models"
	"github.com/mbelkin/geoauth/internal/server/api/httperr"
	"github.com/mbelkin/geoauth/internal/server/api/middleware"
	"github.com/mbelkin/geoauth/internal/server/geo"
)

// HistoryService is the persistence surface the history handlers need.
// history.Service satisfies it.
type HistoryService interface {
	Record(ctx context.Context, userID, ip string, geo *models.GeoSnapshot) error
	List(ctx context.Context, userID string, limit int) ([]models.HistoryRecord, error)
	Delete(ctx context.Context, userID string, ids []string) (int, error)
}

type HistoryHandler struct {
	resolver geo.Resolver
	history  HistoryService
	log      logging.Logger
}

func NewHistoryHandler(resolver geo.Resolver, history HistoryService, log logging.Logger) *HistoryHandler {
	return &HistoryHandler{resolver: resolver, history: history, log: log}
}

type searchRequest struct {
	IP string `json:"ip"`
}

type historyListResponse struct {
	Items []models.HistoryRecord `json:"items"`
}

type historyDeleteRequest struct {
	IDs []string `json:"ids"`
}

type historyDeleteResponse struct {
	Deleted int `json:"deleted"`
}

// Search resolves an IP and records the lookup in the caller's history. The
// history write is best-effort: a storage failure is logged, the snapshot is
// still returned.
func (h *HistoryHandler) Search(c echo.Context) error {
	var req searchRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidJSON()
	}
	if net.ParseIP(req.IP) == nil {
		return errInvalidIP()
	}

	ctx := c.Request().Context()
	snapshot, err := h.resolver.Resolve(ctx, req.IP)
	if err != nil {
		return err
	}

	if err := h.history.Record(ctx, middleware.UserID(c), req.IP, snapshot); err != nil {
		h.log.Warn(ctx, "history write failed", "error", err.Error(), "ip", req.IP)
	}

	return c.JSON(http.StatusOK, geoResponse{Geo: snapshot})
}

// List returns the caller's lookups, newest first. A missing or malformed
// limit falls back to the service default.
func (h *HistoryHandler) List(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	items, err := h.history.List(c.Request().Context(), middleware.UserID(c), limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, historyListResponse{Items: items})
}

// Delete removes the caller-owned rows among the given ids and reports how
// many were actually removed.
func (h *HistoryHandler) Delete(c echo.Context) error {
	var req historyDeleteRequest
	if err := c.Bind(&req); err != nil {
		return errInvalidJSON()
	}
	if len(req.IDs) == 0 {
		return httperr.New(http.StatusBadRequest, "VALIDATION_ERROR", "ids must not be empty")
	}
	for _, id := range req.IDs {
		if _, err := uuid.Parse(id); err != nil {
			return httperr.New(http.StatusBadRequest, "VALIDATION_ERROR", "ids must be valid UUIDs")
		}
	}

	deleted, err := h.history.Delete(c.Request().Context(), middleware.UserID(c), req.IDs)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, historyDeleteResponse{Deleted: deleted})
}
