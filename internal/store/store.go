// Package store defines the gateway to the bills backend resource and its
// HTTP implementation.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/billed-app/billed/internal/bill"
)

// Domain errors for store access
var (
	// ErrNotConfigured is returned on write paths when no store is wired in.
	ErrNotConfigured = errors.New("store not configured")
)

// APIError carries a backend failure in the form the UI renders it.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError builds the localized error for a backend status code.
func NewAPIError(statusCode int) *APIError {
	return &APIError{
		StatusCode: statusCode,
		Message:    fmt.Sprintf("Erreur %d", statusCode),
	}
}

// CreateRequest is the multipart payload staging a receipt upload: the
// binary file part plus the owner's email as a text part.
type CreateRequest struct {
	FileName string
	File     io.Reader
	Email    string
}

// CreateResult is the remote reference returned by a successful upload.
type CreateResult struct {
	FileURL string `json:"fileUrl"`
	Key     string `json:"key"`
}

// UpdateRequest submits a completed bill: the JSON-serialized record and the
// remote identifier addressing it.
type UpdateRequest struct {
	Data     string
	Selector string
}

// Resource exposes the three operations of the bills collection.
type Resource interface {
	List(ctx context.Context) ([]bill.Bill, error)
	Create(ctx context.Context, req CreateRequest) (*CreateResult, error)
	Update(ctx context.Context, req UpdateRequest) (*bill.Bill, error)
}

// Store is the abstract record store. Controllers accept a nil Store and
// treat it as "not configured".
type Store interface {
	Bills() Resource
}
