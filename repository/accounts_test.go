package repository

import (
	"context"
	"database/sql"
	"testing"

	accounts "github.com/goliatone/go-accounts"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupAccountRepo(t *testing.T) (*AccountRepository, context.Context) {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	bunDB := bun.NewDB(db, sqlitedialect.New())

	t.Cleanup(func() {
		_ = bunDB.Close()
		_ = db.Close()
	})

	repo := NewAccountRepository(bunDB)
	ctx := context.Background()
	require.NoError(t, repo.CreateTables(ctx))

	return repo, ctx
}

func seedAccount(t *testing.T, repo *AccountRepository, ctx context.Context, username string) *accounts.Account {
	t.Helper()

	record, err := repo.Create(ctx, &accounts.Account{
		Username:     username,
		PasswordHash: accounts.RandomPasswordHash(),
	})
	require.NoError(t, err)

	return record
}

func TestAccountRepositoryCreateAssignsID(t *testing.T) {
	repo, ctx := setupAccountRepo(t)

	record, err := repo.Create(ctx, &accounts.Account{
		Username:     "alice",
		PasswordHash: "hash",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, record.ID)
	assert.NotNil(t, record.CreatedAt)
}

func TestAccountRepositoryCreateDuplicateUsername(t *testing.T) {
	repo, ctx := setupAccountRepo(t)
	seedAccount(t, repo, ctx, "alice")

	_, err := repo.Create(ctx, &accounts.Account{
		Username:     "alice",
		PasswordHash: "hash",
	})
	assert.ErrorIs(t, err, accounts.ErrDuplicateAccount)
}

func TestAccountRepositoryFindOne(t *testing.T) {
	repo, ctx := setupAccountRepo(t)
	seeded := seedAccount(t, repo, ctx, "alice")
	seedAccount(t, repo, ctx, "bob")

	record, err := repo.FindOne(ctx, accounts.Criteria{
		Where: map[string]any{"username": "alice"},
	})
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, record.ID)
	assert.NotEmpty(t, record.PasswordHash)

	_, err = repo.FindOne(ctx, accounts.Criteria{
		Where: map[string]any{"username": "nonexistent"},
	})
	assert.ErrorIs(t, err, accounts.ErrAccountNotFound)
}

func TestAccountRepositoryFindByID(t *testing.T) {
	repo, ctx := setupAccountRepo(t)
	seeded := seedAccount(t, repo, ctx, "alice")

	record, err := repo.FindByID(ctx, seeded.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "alice", record.Username)

	_, err = repo.FindByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, accounts.ErrAccountNotFound)
}

func TestAccountRepositoryFindWithCriteria(t *testing.T) {
	repo, ctx := setupAccountRepo(t)
	for _, username := range []string{"carol", "alice", "bob"} {
		seedAccount(t, repo, ctx, username)
	}

	records, err := repo.Find(ctx, accounts.Criteria{Order: "username ASC"})
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "alice", records[0].Username)
	assert.Equal(t, "carol", records[2].Username)

	records, err = repo.Find(ctx, accounts.Criteria{Order: "username ASC", Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "bob", records[0].Username)

	records, err = repo.Find(ctx, accounts.Criteria{
		Where: map[string]any{"username": "bob"},
	})
	require.NoError(t, err)
	require.Len(t, records, 1)

	// Unknown predicate columns match nothing rather than everything.
	records, err = repo.Find(ctx, accounts.Criteria{
		Where: map[string]any{"drop table": "x"},
	})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestAccountRepositoryCount(t *testing.T) {
	repo, ctx := setupAccountRepo(t)
	seedAccount(t, repo, ctx, "alice")
	seedAccount(t, repo, ctx, "bob")

	count, err := repo.Count(ctx, accounts.Criteria{})
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = repo.Count(ctx, accounts.Criteria{
		Where: map[string]any{"username": "alice"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// Unknown predicate columns match nothing, same as the select paths.
	count, err = repo.Count(ctx, accounts.Criteria{
		Where: map[string]any{"drop table": "x"},
	})
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAccountRepositoryUpdateByID(t *testing.T) {
	repo, ctx := setupAccountRepo(t)
	seeded := seedAccount(t, repo, ctx, "alice")

	record, err := repo.UpdateByID(ctx, seeded.ID.String(), map[string]any{
		"username": "alice-renamed",
		"metadata": map[string]any{"plan": "pro"},
	})
	require.NoError(t, err)
	assert.Equal(t, "alice-renamed", record.Username)
	assert.Equal(t, "pro", record.Metadata["plan"])

	_, err = repo.UpdateByID(ctx, seeded.ID.String(), map[string]any{"deleted_at": "now"})
	assert.Error(t, err)

	_, err = repo.UpdateByID(ctx, uuid.NewString(), map[string]any{"username": "x"})
	assert.ErrorIs(t, err, accounts.ErrAccountNotFound)
}

func TestAccountRepositoryReplaceByID(t *testing.T) {
	repo, ctx := setupAccountRepo(t)
	seeded := seedAccount(t, repo, ctx, "alice")

	record, err := repo.ReplaceByID(ctx, seeded.ID.String(), &accounts.Account{
		Username:     "replaced",
		PasswordHash: "new-hash",
		Metadata:     map[string]any{"source": "replace"},
	})
	require.NoError(t, err)
	assert.Equal(t, "replaced", record.Username)
	assert.Equal(t, "new-hash", record.PasswordHash)
	assert.Equal(t, "replace", record.Metadata["source"])

	_, err = repo.ReplaceByID(ctx, uuid.NewString(), &accounts.Account{Username: "x"})
	assert.ErrorIs(t, err, accounts.ErrAccountNotFound)
}

func TestAccountRepositoryDeleteByID(t *testing.T) {
	repo, ctx := setupAccountRepo(t)
	seeded := seedAccount(t, repo, ctx, "alice")

	require.NoError(t, repo.DeleteByID(ctx, seeded.ID.String()))

	// Soft-deleted records are invisible to reads.
	_, err := repo.FindByID(ctx, seeded.ID.String())
	assert.ErrorIs(t, err, accounts.ErrAccountNotFound)

	count, err := repo.Count(ctx, accounts.Criteria{})
	require.NoError(t, err)
	assert.Zero(t, count)

	assert.ErrorIs(t, repo.DeleteByID(ctx, seeded.ID.String()), accounts.ErrAccountNotFound)
}

func TestAccountRepositoryUpdateAll(t *testing.T) {
	repo, ctx := setupAccountRepo(t)
	seedAccount(t, repo, ctx, "alice")
	seedAccount(t, repo, ctx, "bob")

	affected, err := repo.UpdateAll(ctx, accounts.Criteria{}, map[string]any{
		"metadata": map[string]any{"migrated": true},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, affected)

	record, err := repo.FindOne(ctx, accounts.Criteria{
		Where: map[string]any{"username": "alice"},
	})
	require.NoError(t, err)
	assert.Equal(t, true, record.Metadata["migrated"])

	affected, err = repo.UpdateAll(ctx, accounts.Criteria{
		Where: map[string]any{"username": "bob"},
	}, map[string]any{"username": "bobby"})
	require.NoError(t, err)
	assert.Equal(t, 1, affected)
}
