package slip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDraftNotFound is returned when no draft exists for the requested id.
var ErrDraftNotFound = errors.New("slip: draft not found")

// Header carries the customer details printed on the slip. The service
// passes these through untouched; no format is enforced here.
type Header struct {
	Mobile       string `json:"mobile"`
	Date         string `json:"date"`
	CustomerName string `json:"customerName"`
	Bundles      string `json:"bundles"`
}

// Draft is the single working slip a device edits. It is working state, not
// history: finalize deletes it and reset replaces its contents.
type Draft struct {
	ID         string    `json:"id"`
	Header     Header    `json:"header"`
	Adjustment string    `json:"balanceOutstanding"`
	Items      []Item    `json:"items"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Store persists draft slips.
type Store interface {
	Create(ctx context.Context, d Draft) error
	Get(ctx context.Context, id string) (Draft, error)
	Save(ctx context.Context, d Draft) error
	Delete(ctx context.Context, id string) error
}

// PGStore keeps drafts in a single Postgres table with the item rows as a
// jsonb document, mirroring how the client holds them in memory.
type PGStore struct {
	Pool *pgxpool.Pool
}

// Create inserts a new draft row.
func (s PGStore) Create(ctx context.Context, d Draft) error {
	items, err := json.Marshal(d.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	_, err = s.Pool.Exec(ctx, `
		INSERT INTO slip_drafts (id, mobile, slip_date, customer_name, bundles, balance_outstanding, items, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now(), now())`,
		d.ID, d.Header.Mobile, d.Header.Date, d.Header.CustomerName, d.Header.Bundles, d.Adjustment, items,
	)
	return err
}

// Get loads a draft by id.
func (s PGStore) Get(ctx context.Context, id string) (Draft, error) {
	var (
		d        Draft
		itemsRaw []byte
	)
	err := s.Pool.QueryRow(ctx, `
		SELECT id, mobile, slip_date, customer_name, bundles, balance_outstanding, items, created_at, updated_at
		FROM slip_drafts WHERE id = $1`, id,
	).Scan(&d.ID, &d.Header.Mobile, &d.Header.Date, &d.Header.CustomerName, &d.Header.Bundles, &d.Adjustment, &itemsRaw, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Draft{}, ErrDraftNotFound
		}
		return Draft{}, err
	}
	if err := json.Unmarshal(itemsRaw, &d.Items); err != nil {
		return Draft{}, fmt.Errorf("unmarshal items: %w", err)
	}
	return d, nil
}

// Save overwrites the draft's mutable columns.
func (s PGStore) Save(ctx context.Context, d Draft) error {
	items, err := json.Marshal(d.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	tag, err := s.Pool.Exec(ctx, `
		UPDATE slip_drafts
		SET mobile = $2, slip_date = $3, customer_name = $4, bundles = $5, balance_outstanding = $6, items = $7, updated_at = now()
		WHERE id = $1`,
		d.ID, d.Header.Mobile, d.Header.Date, d.Header.CustomerName, d.Header.Bundles, d.Adjustment, items,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrDraftNotFound
	}
	return nil
}

// Delete removes the draft. Deleting a missing draft is not an error.
func (s PGStore) Delete(ctx context.Context, id string) error {
	_, err := s.Pool.Exec(ctx, `DELETE FROM slip_drafts WHERE id = $1`, id)
	return err
}
