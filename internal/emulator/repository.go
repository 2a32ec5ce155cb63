// Package emulator is a development stand-in for the bills backend. It
// speaks the same REST surface the HTTP store client expects, persisting
// bills in SQLite and uploaded receipts on disk.
package emulator

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/billed-app/billed/internal/bill"
	"go.uber.org/zap"
)

// BillRepository persists emulator bills
type BillRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBillRepository creates a new bill repository
func NewBillRepository(db *sql.DB, logger *zap.Logger) *BillRepository {
	return &BillRepository{
		db:     db,
		logger: logger,
	}
}

// Init creates the bills table if it does not exist
func (r *BillRepository) Init(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS bills (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			type TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL DEFAULT '',
			date TEXT NOT NULL DEFAULT '',
			amount INTEGER NOT NULL DEFAULT 0,
			vat TEXT NOT NULL DEFAULT '',
			pct INTEGER NOT NULL DEFAULT 0,
			commentary TEXT NOT NULL DEFAULT '',
			file_url TEXT,
			file_name TEXT,
			status TEXT NOT NULL DEFAULT 'pending',
			created_at TIMESTAMP NOT NULL
		)
	`
	if _, err := r.db.ExecContext(ctx, query); err != nil {
		r.logger.Error("Failed to create bills table", zap.Error(err))
		return fmt.Errorf("failed to create bills table: %w", err)
	}
	return nil
}

// List returns all stored bills, insertion order
func (r *BillRepository) List(ctx context.Context) ([]bill.Bill, error) {
	query := `
		SELECT id, email, type, name, date, amount, vat, pct, commentary,
			file_url, file_name, status
		FROM bills
		ORDER BY created_at
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list bills", zap.Error(err))
		return nil, fmt.Errorf("failed to list bills: %w", err)
	}
	defer rows.Close()

	bills := make([]bill.Bill, 0)
	for rows.Next() {
		var b bill.Bill
		var fileURL, fileName sql.NullString
		if err := rows.Scan(
			&b.ID, &b.Email, &b.Type, &b.Name, &b.Date, &b.Amount,
			&b.VAT, &b.Pct, &b.Commentary, &fileURL, &fileName, &b.Status,
		); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		if fileURL.Valid {
			b.FileURL = &fileURL.String
		}
		if fileName.Valid {
			b.FileName = &fileName.String
		}
		bills = append(bills, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bills: %w", err)
	}
	return bills, nil
}

// Create inserts a new draft bill and assigns its identifier
func (r *BillRepository) Create(ctx context.Context, b *bill.Bill) error {
	if b.ID == "" {
		id, err := newID()
		if err != nil {
			return err
		}
		b.ID = id
	}
	if b.Status == "" {
		b.Status = bill.StatusPending
	}

	query := `
		INSERT INTO bills (
			id, email, type, name, date, amount, vat, pct, commentary,
			file_url, file_name, status, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		b.ID, b.Email, b.Type, b.Name, b.Date, b.Amount, b.VAT, b.Pct,
		b.Commentary, b.FileURL, b.FileName, b.Status, time.Now(),
	)
	if err != nil {
		r.logger.Error("Failed to create bill", zap.Error(err))
		return fmt.Errorf("failed to create bill: %w", err)
	}
	return nil
}

// GetByID retrieves a bill; returns nil when it does not exist
func (r *BillRepository) GetByID(ctx context.Context, id string) (*bill.Bill, error) {
	query := `
		SELECT id, email, type, name, date, amount, vat, pct, commentary,
			file_url, file_name, status
		FROM bills
		WHERE id = ?
	`
	var b bill.Bill
	var fileURL, fileName sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&b.ID, &b.Email, &b.Type, &b.Name, &b.Date, &b.Amount,
		&b.VAT, &b.Pct, &b.Commentary, &fileURL, &fileName, &b.Status,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get bill", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get bill: %w", err)
	}
	if fileURL.Valid {
		b.FileURL = &fileURL.String
	}
	if fileName.Valid {
		b.FileName = &fileName.String
	}
	return &b, nil
}

// Update overwrites the stored record addressed by id, keeping the retained
// file reference when the incoming record does not carry one
func (r *BillRepository) Update(ctx context.Context, id string, b bill.Bill) (*bill.Bill, error) {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	if b.FileURL == nil {
		b.FileURL = existing.FileURL
		b.FileName = existing.FileName
	}
	b.ID = id

	query := `
		UPDATE bills
		SET email = ?, type = ?, name = ?, date = ?, amount = ?, vat = ?,
			pct = ?, commentary = ?, file_url = ?, file_name = ?, status = ?
		WHERE id = ?
	`
	_, err = r.db.ExecContext(ctx, query,
		b.Email, b.Type, b.Name, b.Date, b.Amount, b.VAT, b.Pct,
		b.Commentary, b.FileURL, b.FileName, b.Status, id,
	)
	if err != nil {
		r.logger.Error("Failed to update bill", zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to update bill: %w", err)
	}
	return &b, nil
}

func newID() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
