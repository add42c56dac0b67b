package models

// HistoryRecord is one persisted IP search owned by the authenticated user.
// Geo is the snapshot stored at search time and may be nil (private IP,
// resolver failure). CreatedAt is an ISO timestamp assigned by the server.
type HistoryRecord struct {
	ID        string       `json:"id"`
	IP        string       `json:"ip"`
	Geo       *GeoSnapshot `json:"geo"`
	CreatedAt string       `json:"createdAt"`
}
