package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/giftwell/fulfillment-service/internal/application"
	"github.com/giftwell/fulfillment-service/internal/domain"
	"github.com/jackc/pgx/v5"
)

const giftTable = "gift_records"

// RecordStore reads gift records and businesses. Gift lookups go through
// single-column probes so the caller can tolerate schema drift; rows come
// back as jsonb and are normalized in the mapper rather than scanned against
// a fixed column list.
type RecordStore struct {
	db *DB
}

func NewRecordStore(db *DB) *RecordStore {
	return &RecordStore{db: db}
}

var _ application.RecordStore = (*RecordStore)(nil)

// ProbeGift returns the newest gift record whose column equals value.
func (r *RecordStore) ProbeGift(ctx context.Context, column, value string) (*domain.GiftRecord, error) {
	query := fmt.Sprintf(
		`SELECT to_jsonb(g) FROM %s g WHERE g.%s = $1`,
		giftTable, pgx.Identifier{column}.Sanitize(),
	)
	return r.probeOne(ctx, column, query, value)
}

// ProbeGiftByEmails returns the newest gift record whose column matches any
// of the given addresses.
func (r *RecordStore) ProbeGiftByEmails(ctx context.Context, column string, emails []string) (*domain.GiftRecord, error) {
	query := fmt.Sprintf(
		`SELECT to_jsonb(g) FROM %s g WHERE g.%s = ANY($1)`,
		giftTable, pgx.Identifier{column}.Sanitize(),
	)
	return r.probeOne(ctx, column, query, emails)
}

// probeOne picks the newest match in Go, not in SQL: the creation-time column
// itself drifts across layout generations (created_at vs issued_at), so only
// the probed column may appear in the query. A 42703 is then always about the
// probed column.
func (r *RecordStore) probeOne(ctx context.Context, column, query string, arg any) (*domain.GiftRecord, error) {
	rows, err := r.db.Pool.Query(ctx, query, arg)
	if err != nil {
		return nil, probeError(column, err)
	}
	defer rows.Close()

	var newest *domain.GiftRecord
	for rows.Next() {
		var row map[string]any
		if err := rows.Scan(&row); err != nil {
			return nil, probeError(column, err)
		}
		rec := toGiftRecord(row)
		if newest == nil || !rec.CreatedAt.Before(newest.CreatedAt) {
			newest = rec
		}
	}
	if err := rows.Err(); err != nil {
		return nil, probeError(column, err)
	}
	return newest, nil
}

func probeError(column string, err error) error {
	if IsUndefinedColumn(err) {
		return application.ErrUnknownColumn
	}
	return fmt.Errorf("probe gift record by %s: %w", column, err)
}

// FindBusiness looks a merchant up by id. Returns (nil, nil) when unknown.
func (r *RecordStore) FindBusiness(ctx context.Context, id string) (*domain.Business, error) {
	query := `
		SELECT id, name, slug, COALESCE(stripe_account_id, '')
		FROM businesses WHERE id = $1
	`

	var b domain.Business
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(&b.ID, &b.Name, &b.Slug, &b.StripeAccountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find business %s: %w", id, err)
	}
	return &b, nil
}
