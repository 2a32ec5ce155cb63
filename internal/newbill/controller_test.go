package newbill

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/billed-app/billed/internal/bill"
	"github.com/billed-app/billed/internal/session"
	"github.com/billed-app/billed/internal/store"
	"github.com/billed-app/billed/internal/ui"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	mu      sync.Mutex
	creates []store.CreateRequest
	updates []store.UpdateRequest

	createFn func(req store.CreateRequest) (*store.CreateResult, error)
	updateFn func(req store.UpdateRequest) (*bill.Bill, error)
}

func (f *fakeStore) Bills() store.Resource { return &fakeResource{s: f} }

func (f *fakeStore) createCalls() []store.CreateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]store.CreateRequest(nil), f.creates...)
}

func (f *fakeStore) updateCalls() []store.UpdateRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]store.UpdateRequest(nil), f.updates...)
}

type fakeResource struct {
	s *fakeStore
}

func (r *fakeResource) List(ctx context.Context) ([]bill.Bill, error) {
	return nil, errors.New("not implemented")
}

func (r *fakeResource) Create(ctx context.Context, req store.CreateRequest) (*store.CreateResult, error) {
	r.s.mu.Lock()
	r.s.creates = append(r.s.creates, req)
	fn := r.s.createFn
	r.s.mu.Unlock()
	if fn == nil {
		return &store.CreateResult{FileURL: "fileURL", Key: "key"}, nil
	}
	return fn(req)
}

func (r *fakeResource) Update(ctx context.Context, req store.UpdateRequest) (*bill.Bill, error) {
	r.s.mu.Lock()
	r.s.updates = append(r.s.updates, req)
	fn := r.s.updateFn
	r.s.mu.Unlock()
	if fn == nil {
		return &bill.Bill{}, nil
	}
	return fn(req)
}

type fakeForm map[string]string

func (f fakeForm) Value(selector string) string { return f[selector] }

// submitFixture matches the new-bill form as the user filled it.
var submitFixture = fakeForm{
	selectorType:       "type",
	selectorName:       "name",
	selectorAmount:     "3000",
	selectorDate:       "date",
	selectorVAT:        "vat",
	selectorPct:        "25",
	selectorCommentary: "commentary",
}

func fileEvent(name string, cleared *bool) FileEvent {
	return FileEvent{
		FileName:   name,
		File:       strings.NewReader("img"),
		ClearInput: func() { *cleared = true },
	}
}

func newTestController(s store.Store) (*Controller, *[]ui.Route) {
	var routes []ui.Route
	navigate := func(r ui.Route) { routes = append(routes, r) }
	sess := session.Session{Email: "user@email.com"}
	return NewController(s, navigate, sess, zap.NewNop()), &routes
}

func TestHandleChangeFileUploadsAcceptedExtension(t *testing.T) {
	fs := &fakeStore{}
	c, _ := newTestController(fs)

	var cleared bool
	require.NoError(t, c.HandleChangeFile(context.Background(), fileEvent("image.png", &cleared)))
	require.NoError(t, c.awaitUpload(context.Background()))

	creates := fs.createCalls()
	require.Len(t, creates, 1)
	assert.Equal(t, "user@email.com", creates[0].Email)
	assert.Equal(t, "image.png", creates[0].FileName)
	assert.False(t, cleared)
	assert.Equal(t, StateUploaded, c.State())
}

func TestHandleChangeFileRejectsBadExtension(t *testing.T) {
	tests := []string{"report.pdf", "notes.txt", "archive", "image.png.exe"}

	for _, name := range tests {
		t.Run(name, func(t *testing.T) {
			fs := &fakeStore{}
			c, _ := newTestController(fs)

			var cleared bool
			err := c.HandleChangeFile(context.Background(), fileEvent(name, &cleared))

			require.NoError(t, err, "a rejected selection must not raise")
			assert.True(t, cleared, "the file input must be cleared")
			assert.Empty(t, fs.createCalls(), "no upload may be attempted")
			assert.Equal(t, StateRejected, c.State())
		})
	}
}

func TestHandleChangeFileAcceptsJpegVariants(t *testing.T) {
	for _, name := range []string{"scan.jpg", "scan.jpeg", "SCAN.PNG"} {
		t.Run(name, func(t *testing.T) {
			fs := &fakeStore{}
			c, _ := newTestController(fs)

			var cleared bool
			require.NoError(t, c.HandleChangeFile(context.Background(), fileEvent(name, &cleared)))
			require.NoError(t, c.awaitUpload(context.Background()))

			assert.Len(t, fs.createCalls(), 1)
			assert.False(t, cleared)
		})
	}
}

func TestHandleChangeFileWithoutStore(t *testing.T) {
	c, _ := newTestController(nil)

	var cleared bool
	err := c.HandleChangeFile(context.Background(), fileEvent("image.png", &cleared))
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotConfigured)
}

func TestHandleSubmitWithoutUpload(t *testing.T) {
	fs := &fakeStore{}
	c, routes := newTestController(fs)

	require.NoError(t, c.HandleSubmit(context.Background(), submitFixture))

	updates := fs.updateCalls()
	require.Len(t, updates, 1)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(updates[0].Data), &got))

	assert.Equal(t, "user@email.com", got["email"])
	assert.Equal(t, "type", got["type"])
	assert.Equal(t, "name", got["name"])
	assert.Equal(t, float64(3000), got["amount"])
	assert.Equal(t, "date", got["date"])
	assert.Equal(t, "vat", got["vat"])
	assert.Equal(t, float64(25), got["pct"])
	assert.Equal(t, "commentary", got["commentary"])
	assert.Nil(t, got["fileUrl"])
	assert.Nil(t, got["fileName"])
	assert.Equal(t, "pending", got["status"])

	require.Len(t, *routes, 1)
	assert.Equal(t, ui.RouteBills, (*routes)[0])
	assert.Equal(t, StateSubmitted, c.State())
}

func TestHandleSubmitUsesRetainedUploadReference(t *testing.T) {
	fs := &fakeStore{
		createFn: func(req store.CreateRequest) (*store.CreateResult, error) {
			return &store.CreateResult{FileURL: "https://files.test/scan.png", Key: "abc123"}, nil
		},
	}
	c, _ := newTestController(fs)

	var cleared bool
	require.NoError(t, c.HandleChangeFile(context.Background(), fileEvent("scan.png", &cleared)))
	require.NoError(t, c.awaitUpload(context.Background()))
	require.NoError(t, c.HandleSubmit(context.Background(), submitFixture))

	updates := fs.updateCalls()
	require.Len(t, updates, 1)
	assert.Equal(t, "abc123", updates[0].Selector)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(updates[0].Data), &got))
	assert.Equal(t, "https://files.test/scan.png", got["fileUrl"])
	assert.Equal(t, "scan.png", got["fileName"])
}

func TestHandleSubmitWaitsForInFlightUpload(t *testing.T) {
	release := make(chan struct{})
	fs := &fakeStore{
		createFn: func(req store.CreateRequest) (*store.CreateResult, error) {
			<-release
			return &store.CreateResult{FileURL: "https://files.test/slow.png", Key: "slow"}, nil
		},
	}
	c, _ := newTestController(fs)

	var cleared bool
	require.NoError(t, c.HandleChangeFile(context.Background(), fileEvent("slow.png", &cleared)))

	submitDone := make(chan error, 1)
	go func() {
		submitDone <- c.HandleSubmit(context.Background(), submitFixture)
	}()

	// The submit must be parked on the upload, not completed with an absent
	// file reference.
	select {
	case err := <-submitDone:
		t.Fatalf("submit completed before upload resolved: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	close(release)
	require.NoError(t, <-submitDone)

	updates := fs.updateCalls()
	require.Len(t, updates, 1)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(updates[0].Data), &got))
	assert.Equal(t, "https://files.test/slow.png", got["fileUrl"])
	assert.Equal(t, "slow", updates[0].Selector)
}

func TestHandleSubmitAbortsAfterFailedUpload(t *testing.T) {
	fs := &fakeStore{
		createFn: func(req store.CreateRequest) (*store.CreateResult, error) {
			return nil, store.NewAPIError(500)
		},
	}
	c, _ := newTestController(fs)

	var cleared bool
	require.NoError(t, c.HandleChangeFile(context.Background(), fileEvent("scan.png", &cleared)))
	require.NoError(t, c.awaitUpload(context.Background()))

	err := c.HandleSubmit(context.Background(), submitFixture)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Erreur 500")
	assert.Empty(t, fs.updateCalls(), "a half-staged record must not be written")
}

func TestLastResolvedUploadWins(t *testing.T) {
	fs := &fakeStore{
		createFn: func(req store.CreateRequest) (*store.CreateResult, error) {
			return &store.CreateResult{FileURL: "https://files.test/" + req.FileName, Key: req.FileName}, nil
		},
	}
	c, _ := newTestController(fs)

	var cleared bool
	require.NoError(t, c.HandleChangeFile(context.Background(), fileEvent("first.png", &cleared)))
	require.NoError(t, c.awaitUpload(context.Background()))
	require.NoError(t, c.HandleChangeFile(context.Background(), fileEvent("second.png", &cleared)))
	require.NoError(t, c.awaitUpload(context.Background()))

	require.NoError(t, c.HandleSubmit(context.Background(), submitFixture))

	updates := fs.updateCalls()
	require.Len(t, updates, 1)
	assert.Equal(t, "second.png", updates[0].Selector)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(updates[0].Data), &got))
	assert.Equal(t, "second.png", got["fileName"])
}

func TestHandleSubmitWithoutStore(t *testing.T) {
	c, _ := newTestController(nil)

	err := c.HandleSubmit(context.Background(), submitFixture)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotConfigured)
}

func TestHandleSubmitSurfacesUpdateFailure(t *testing.T) {
	fs := &fakeStore{
		updateFn: func(req store.UpdateRequest) (*bill.Bill, error) {
			return nil, store.NewAPIError(404)
		},
	}
	c, routes := newTestController(fs)

	err := c.HandleSubmit(context.Background(), submitFixture)
	require.Error(t, err)
	assert.Equal(t, "Erreur 404", err.Error())
	assert.Empty(t, *routes, "no navigation on failure")
	assert.NotEqual(t, StateSubmitted, c.State())
}

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		input    string
		expected int
	}{
		{"3000", 3000},
		{"25", 25},
		{" 42 ", 42},
		{"", 0},
		{"abc", 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, coerceInt(tt.input), "input %q", tt.input)
	}
}
