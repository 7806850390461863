// Package dto provides Data Transfer Objects for API requests/responses.
package dto

// IDResponse is returned from create operations. StoreMode tells the client
// which backend accepted the write ("remote" or "local").
type IDResponse struct {
	ID        string `json:"id"`
	StoreMode string `json:"storeMode,omitempty"`
}

// SuccessResponse is a generic success envelope.
type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ListResponse wraps list results.
type ListResponse struct {
	Items     any    `json:"items"`
	Count     int    `json:"count"`
	StoreMode string `json:"storeMode,omitempty"`
}
