// Package newbill implements the new expense-note submission controller:
// it stages the receipt upload, retains the remote reference, and submits
// the completed record built from the form.
package newbill

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/billed-app/billed/internal/bill"
	"github.com/billed-app/billed/internal/session"
	"github.com/billed-app/billed/internal/store"
	"github.com/billed-app/billed/internal/ui"
	"go.uber.org/zap"
)

// State tracks the receipt staging lifecycle of one controller instance.
type State int

const (
	// StateNoFile is the initial state, no receipt selected yet.
	StateNoFile State = iota
	// StateFileStaged means an accepted file was selected and its upload is
	// in flight.
	StateFileStaged
	// StateUploaded means the upload resolved and the remote reference is
	// retained for the submit.
	StateUploaded
	// StateRejected means the selected file had an unaccepted extension;
	// the input was cleared and no upload was attempted.
	StateRejected
	// StateSubmitted means the completed record was accepted by the store.
	StateSubmitted
)

// acceptedExtensions are the receipt image formats the backend stores.
var acceptedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
}

// Form field selectors, the contract with the rendered new-bill form.
const (
	selectorType       = `select[data-testid="expense-type"]`
	selectorName       = `input[data-testid="expense-name"]`
	selectorAmount     = `input[data-testid="amount"]`
	selectorDate       = `input[data-testid="datepicker"]`
	selectorVAT        = `input[data-testid="vat"]`
	selectorPct        = `input[data-testid="pct"]`
	selectorCommentary = `textarea[data-testid="commentary"]`
)

// FileEvent carries a file selection from the presentation layer.
type FileEvent struct {
	FileName string
	File     io.Reader
	// ClearInput resets the file input; invoked when the selection is
	// rejected.
	ClearInput func()
}

// Controller owns the new-bill form behavior. The retained upload result is
// the only shared state: the upload goroutine writes it, HandleSubmit reads
// it after waiting for the in-flight attempt to settle.
type Controller struct {
	store      store.Store
	onNavigate ui.Navigator
	session    session.Session
	logger     *zap.Logger

	mu        sync.Mutex
	state     State
	pending   chan struct{}
	uploadErr error
	billID    string
	fileURL   *string
	fileName  *string
}

// NewController creates a submission controller for the given session.
func NewController(s store.Store, onNavigate ui.Navigator, sess session.Session, logger *zap.Logger) *Controller {
	return &Controller{
		store:      s,
		onNavigate: onNavigate,
		session:    sess,
		logger:     logger,
	}
}

// State returns the current staging state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// HandleChangeFile reacts to a file selection. An unaccepted extension
// clears the input and stops there, without touching the store and without
// raising. An accepted file starts an asynchronous upload carrying the
// session email; the resolved remote reference is retained for the submit.
//
// A second selection before the first upload resolves simply starts an
// independent attempt; the most recently resolved one wins the retained
// reference.
func (c *Controller) HandleChangeFile(ctx context.Context, ev FileEvent) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(ev.FileName), "."))
	if !acceptedExtensions[ext] {
		c.logger.Warn("Rejected receipt with unaccepted extension",
			zap.String("file_name", ev.FileName),
			zap.String("extension", ext))
		if ev.ClearInput != nil {
			ev.ClearInput()
		}
		c.mu.Lock()
		c.state = StateRejected
		c.mu.Unlock()
		return nil
	}

	if c.store == nil {
		return fmt.Errorf("cannot stage receipt upload: %w", store.ErrNotConfigured)
	}

	done := make(chan struct{})
	c.mu.Lock()
	c.state = StateFileStaged
	c.pending = done
	c.mu.Unlock()

	go c.upload(ctx, ev, done)
	return nil
}

func (c *Controller) upload(ctx context.Context, ev FileEvent, done chan struct{}) {
	defer close(done)

	result, err := c.store.Bills().Create(ctx, store.CreateRequest{
		FileName: ev.FileName,
		File:     ev.File,
		Email:    c.session.Email,
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.logger.Error("Receipt upload failed",
			zap.String("file_name", ev.FileName),
			zap.Error(err))
		c.uploadErr = err
		c.state = StateNoFile
		return
	}

	fileName := ev.FileName
	c.billID = result.Key
	c.fileURL = &result.FileURL
	c.fileName = &fileName
	c.uploadErr = nil
	c.state = StateUploaded

	c.logger.Info("Receipt upload resolved",
		zap.String("bill_id", result.Key),
		zap.String("file_url", result.FileURL))
}

// awaitUpload blocks until the most recent upload attempt settles. Without
// this barrier a submit racing the upload would read a stale or absent file
// reference.
func (c *Controller) awaitUpload(ctx context.Context) error {
	c.mu.Lock()
	pending := c.pending
	c.mu.Unlock()

	if pending == nil {
		return nil
	}
	select {
	case <-pending:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// HandleSubmit builds the complete record from the form fields and submits
// it to the store, then navigates back to the listing. It waits for any
// in-flight upload first; a failed upload blocks the submit so a half-staged
// record is never written.
func (c *Controller) HandleSubmit(ctx context.Context, form ui.FormReader) error {
	if c.store == nil {
		return fmt.Errorf("cannot submit bill: %w", store.ErrNotConfigured)
	}

	if err := c.awaitUpload(ctx); err != nil {
		return fmt.Errorf("waiting for receipt upload: %w", err)
	}

	c.mu.Lock()
	uploadErr := c.uploadErr
	billID := c.billID
	fileURL := c.fileURL
	fileName := c.fileName
	c.mu.Unlock()

	if uploadErr != nil {
		return fmt.Errorf("receipt upload failed, submit aborted: %w", uploadErr)
	}

	record := bill.Bill{
		Email:      c.session.Email,
		Type:       form.Value(selectorType),
		Name:       form.Value(selectorName),
		Amount:     coerceInt(form.Value(selectorAmount)),
		Date:       form.Value(selectorDate),
		VAT:        form.Value(selectorVAT),
		Pct:        coerceInt(form.Value(selectorPct)),
		Commentary: form.Value(selectorCommentary),
		FileURL:    fileURL,
		FileName:   fileName,
		Status:     bill.StatusPending,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to serialize bill: %w", err)
	}

	if _, err := c.store.Bills().Update(ctx, store.UpdateRequest{
		Data:     string(data),
		Selector: billID,
	}); err != nil {
		c.logger.Error("Bill submission failed",
			zap.String("bill_id", billID),
			zap.Error(err))
		return err
	}

	c.mu.Lock()
	c.state = StateSubmitted
	c.mu.Unlock()

	c.logger.Info("Bill submitted",
		zap.String("bill_id", billID),
		zap.String("email", c.session.Email))

	c.onNavigate(ui.RouteBills)
	return nil
}

// coerceInt mirrors the form's loose numeric inputs: any unparseable value
// becomes zero.
func coerceInt(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
