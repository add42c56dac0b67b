package handler

import (
	"net"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mbelkin/geoauth/internal/models"
	"github.com/mbelkin/geoauth/internal/server/api/httperr"
	"github.com/mbelkin/geoauth/internal/server/geo"
)

type GeoHandler struct {
	resolver geo.Resolver
}

func NewGeoHandler(resolver geo.Resolver) *GeoHandler {
	return &GeoHandler{resolver: resolver}
}

// geoResponse wraps a snapshot that may legitimately be null.
type geoResponse struct {
	Geo *models.GeoSnapshot `json:"geo"`
}

// Self resolves the caller's own address. Private and loopback addresses
// (e.g. a client on localhost) resolve to a null snapshot rather than an
// error.
func (h *GeoHandler) Self(c echo.Context) error {
	snapshot, err := h.resolver.Resolve(c.Request().Context(), c.RealIP())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, geoResponse{Geo: snapshot})
}

// ByIP resolves an explicit address from the path.
func (h *GeoHandler) ByIP(c echo.Context) error {
	ip := c.Param("ip")
	if net.ParseIP(ip) == nil {
		return errInvalidIP()
	}

	snapshot, err := h.resolver.Resolve(c.Request().Context(), ip)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, geoResponse{Geo: snapshot})
}

func errInvalidIP() error {
	return httperr.New(http.StatusBadRequest, "INVALID_IP", "not a valid IP address")
}
