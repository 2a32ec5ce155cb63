package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/billed-app/billed/internal/bill"
	"go.uber.org/zap"
)

// HTTPClient interface for testability
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPStore talks to the bills backend over its REST API.
type HTTPStore struct {
	baseURL    string
	token      string
	httpClient HTTPClient
	logger     *zap.Logger
}

// NewHTTPStore creates a store client for the given backend base URL. The
// token is sent as a bearer credential on every request.
func NewHTTPStore(baseURL, token string, logger *zap.Logger) *HTTPStore {
	return &HTTPStore{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// SetHTTPClient replaces the underlying HTTP client, for tests.
func (s *HTTPStore) SetHTTPClient(c HTTPClient) {
	s.httpClient = c
}

// Bills returns the bills resource of this store.
func (s *HTTPStore) Bills() Resource {
	return &billsResource{store: s}
}

type billsResource struct {
	store *HTTPStore
}

// List retrieves the raw bill records of the authenticated user.
func (r *billsResource) List(ctx context.Context) ([]bill.Bill, error) {
	resp, err := r.store.do(ctx, http.MethodGet, "/bills", "", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, r.store.apiError(resp)
	}

	var bills []bill.Bill
	if err := json.NewDecoder(resp.Body).Decode(&bills); err != nil {
		return nil, fmt.Errorf("failed to decode bills list: %w", err)
	}
	return bills, nil
}

// Create stages a receipt upload: multipart body with the file and the
// owner's email, resolving to the remote file URL and record key.
func (r *billsResource) Create(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", req.FileName)
	if err != nil {
		return nil, fmt.Errorf("failed to create file part: %w", err)
	}
	if _, err := io.Copy(part, req.File); err != nil {
		return nil, fmt.Errorf("failed to write file part: %w", err)
	}
	if err := writer.WriteField("email", req.Email); err != nil {
		return nil, fmt.Errorf("failed to write email part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	resp, err := r.store.do(ctx, http.MethodPost, "/bills", writer.FormDataContentType(), &body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, r.store.apiError(resp)
	}

	var result CreateResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode create result: %w", err)
	}
	return &result, nil
}

// Update submits the serialized bill addressed by its remote identifier.
func (r *billsResource) Update(ctx context.Context, req UpdateRequest) (*bill.Bill, error) {
	path := "/bills/" + req.Selector
	resp, err := r.store.do(ctx, http.MethodPut, path, "application/json", strings.NewReader(req.Data))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, r.store.apiError(resp)
	}

	var updated bill.Bill
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		return nil, fmt.Errorf("failed to decode updated bill: %w", err)
	}
	return &updated, nil
}

func (s *HTTPStore) do(ctx context.Context, method, path, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Error("Store request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, fmt.Errorf("store request failed: %w", err)
	}
	return resp, nil
}

func (s *HTTPStore) apiError(resp *http.Response) error {
	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

	s.logger.Warn("Store returned error status",
		zap.Int("status", resp.StatusCode),
		zap.String("url", resp.Request.URL.Path))
	return NewAPIError(resp.StatusCode)
}
