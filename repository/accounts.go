package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	accounts "github.com/goliatone/go-accounts"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// AccountRepository implements accounts.AccountStore using Bun.
type AccountRepository struct {
	db *bun.DB
}

// NewAccountRepository creates a new repository.
func NewAccountRepository(db *bun.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

var _ accounts.AccountStore = (*AccountRepository)(nil)

// Columns the generic mutation paths are allowed to touch. password_hash is
// included because the service layer hashes before it reaches the store.
var updatableColumns = map[string]bool{
	"username":      true,
	"password_hash": true,
	"metadata":      true,
}

// CreateTables bootstraps the schema. Used by cmd/server and tests.
func (r *AccountRepository) CreateTables(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*accounts.Account)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create accounts table")
	}
	return nil
}

// Create inserts record, assigning a fresh UUID when unset.
func (r *AccountRepository) Create(ctx context.Context, record *accounts.Account) (*accounts.Account, error) {
	if record == nil {
		return nil, goerrors.New("record is required", goerrors.CategoryBadInput)
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	now := time.Now()
	if record.CreatedAt == nil {
		record.CreatedAt = &now
	}
	if record.UpdatedAt == nil {
		record.UpdatedAt = &now
	}

	if _, err := r.db.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, r.mapStoreError(err)
	}

	return record, nil
}

// FindOne returns the first record matching criteria.
func (r *AccountRepository) FindOne(ctx context.Context, criteria accounts.Criteria) (*accounts.Account, error) {
	record := &accounts.Account{}

	q := r.db.NewSelect().Model(record)
	q = applySelectCriteria(q, criteria)

	if err := q.Limit(1).Scan(ctx); err != nil {
		return nil, r.mapStoreError(err)
	}

	return record, nil
}

// FindByID returns the record with the given id.
func (r *AccountRepository) FindByID(ctx context.Context, id string) (*accounts.Account, error) {
	record := &accounts.Account{}

	err := r.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, r.mapStoreError(err)
	}

	return record, nil
}

// Find returns every record matching criteria.
func (r *AccountRepository) Find(ctx context.Context, criteria accounts.Criteria) ([]*accounts.Account, error) {
	var records []*accounts.Account

	q := r.db.NewSelect().Model(&records)
	q = applySelectCriteria(q, criteria)

	if err := q.Scan(ctx); err != nil {
		return nil, r.mapStoreError(err)
	}

	if records == nil {
		records = []*accounts.Account{}
	}

	return records, nil
}

// Count reports how many records match criteria.
func (r *AccountRepository) Count(ctx context.Context, criteria accounts.Criteria) (int, error) {
	q := r.db.NewSelect().Model((*accounts.Account)(nil))

	for column, value := range criteria.Where {
		if !safeColumn(column) {
			// Unknown predicate columns match nothing rather than everything.
			return 0, nil
		}
		q = q.Where("? = ?", bun.Ident(column), value)
	}

	count, err := q.Count(ctx)
	if err != nil {
		return 0, r.mapStoreError(err)
	}

	return count, nil
}

// UpdateByID applies a partial update and returns the updated record.
func (r *AccountRepository) UpdateByID(ctx context.Context, id string, changes map[string]any) (*accounts.Account, error) {
	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}

	q := r.db.NewUpdate().
		Model((*accounts.Account)(nil)).
		Where("id = ?", id).
		Where("deleted_at IS NULL")

	for column, value := range changes {
		if !updatableColumns[column] {
			return nil, badPredicate(column)
		}
		q = q.Set("? = ?", bun.Ident(column), normalizeValue(value))
	}

	q = q.Set("updated_at = ?", time.Now())

	if _, err := q.Exec(ctx); err != nil {
		return nil, r.mapStoreError(err)
	}

	return r.FindByID(ctx, id)
}

// ReplaceByID overwrites every mutable column of the record.
func (r *AccountRepository) ReplaceByID(ctx context.Context, id string, record *accounts.Account) (*accounts.Account, error) {
	if record == nil {
		return nil, goerrors.New("record is required", goerrors.CategoryBadInput)
	}

	if _, err := r.FindByID(ctx, id); err != nil {
		return nil, err
	}

	_, err := r.db.NewUpdate().
		Model((*accounts.Account)(nil)).
		Set("username = ?", record.Username).
		Set("password_hash = ?", record.PasswordHash).
		Set("metadata = ?", normalizeValue(record.Metadata)).
		Set("updated_at = ?", time.Now()).
		Where("id = ?", id).
		Where("deleted_at IS NULL").
		Exec(ctx)
	if err != nil {
		return nil, r.mapStoreError(err)
	}

	return r.FindByID(ctx, id)
}

// DeleteByID soft-deletes the record.
func (r *AccountRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.NewDelete().
		Model((*accounts.Account)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return r.mapStoreError(err)
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return accounts.ErrAccountNotFound
	}

	return nil
}

// UpdateAll applies changes to every record matching criteria and reports the
// affected count.
func (r *AccountRepository) UpdateAll(ctx context.Context, criteria accounts.Criteria, changes map[string]any) (int, error) {
	q := r.db.NewUpdate().
		Model((*accounts.Account)(nil)).
		Where("deleted_at IS NULL")

	for column, value := range criteria.Where {
		if !safeColumn(column) {
			return 0, badPredicate(column)
		}
		q = q.Where("? = ?", bun.Ident(column), value)
	}

	for column, value := range changes {
		if !updatableColumns[column] {
			return 0, badPredicate(column)
		}
		q = q.Set("? = ?", bun.Ident(column), normalizeValue(value))
	}

	q = q.Set("updated_at = ?", time.Now())

	res, err := q.Exec(ctx)
	if err != nil {
		return 0, r.mapStoreError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, r.mapStoreError(err)
	}

	return int(affected), nil
}

func applySelectCriteria(q *bun.SelectQuery, criteria accounts.Criteria) *bun.SelectQuery {
	for column, value := range criteria.Where {
		if !safeColumn(column) {
			// Unknown predicate columns match nothing rather than everything.
			return q.Where("1 = 0")
		}
		q = q.Where("? = ?", bun.Ident(column), value)
	}

	if criteria.Order != "" {
		column, direction := splitOrder(criteria.Order)
		if safeColumn(column) {
			q = q.OrderExpr("? ?", bun.Ident(column), bun.Safe(direction))
		}
	}

	if criteria.Limit > 0 {
		q = q.Limit(criteria.Limit)
	}

	if criteria.Offset > 0 {
		q = q.Offset(criteria.Offset)
	}

	return q
}

var queryableColumns = map[string]bool{
	"id":         true,
	"username":   true,
	"created_at": true,
	"updated_at": true,
}

func safeColumn(column string) bool {
	return queryableColumns[column]
}

func splitOrder(order string) (string, string) {
	parts := strings.Fields(order)
	if len(parts) == 0 {
		return "", ""
	}
	column := parts[0]
	direction := "ASC"
	if len(parts) > 1 && strings.EqualFold(parts[1], "DESC") {
		direction = "DESC"
	}
	return column, direction
}

// normalizeValue marshals composite values to JSON text so raw Set/Where
// expressions can bind them; bun only does this automatically for
// model-mapped columns.
func normalizeValue(value any) any {
	switch value.(type) {
	case map[string]any, []any:
		if data, err := json.Marshal(value); err == nil {
			return string(data)
		}
	}
	return value
}

func badPredicate(column string) error {
	return goerrors.New("unsupported field in request", goerrors.CategoryBadInput).
		WithCode(goerrors.CodeBadRequest).
		WithMetadata(map[string]any{"field": column})
}

func (r *AccountRepository) mapStoreError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return accounts.ErrAccountNotFound
	}

	if strings.Contains(err.Error(), "UNIQUE constraint failed") ||
		strings.Contains(err.Error(), "duplicate key value") {
		return accounts.ErrDuplicateAccount
	}

	return goerrors.Wrap(err, goerrors.CategoryInternal, "account store operation failed")
}
