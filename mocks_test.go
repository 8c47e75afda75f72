package accounts_test

import (
	"context"

	accounts "github.com/goliatone/go-accounts"
	"github.com/stretchr/testify/mock"
)

// MockAccountStore implements accounts.AccountStore
type MockAccountStore struct {
	mock.Mock
}

func (m *MockAccountStore) Create(ctx context.Context, record *accounts.Account) (*accounts.Account, error) {
	args := m.Called(ctx, record)
	return argAccount(args.Get(0)), args.Error(1)
}

func (m *MockAccountStore) FindOne(ctx context.Context, criteria accounts.Criteria) (*accounts.Account, error) {
	args := m.Called(ctx, criteria)
	return argAccount(args.Get(0)), args.Error(1)
}

func (m *MockAccountStore) FindByID(ctx context.Context, id string) (*accounts.Account, error) {
	args := m.Called(ctx, id)
	return argAccount(args.Get(0)), args.Error(1)
}

func (m *MockAccountStore) Find(ctx context.Context, criteria accounts.Criteria) ([]*accounts.Account, error) {
	args := m.Called(ctx, criteria)
	records, _ := args.Get(0).([]*accounts.Account)
	return records, args.Error(1)
}

func (m *MockAccountStore) Count(ctx context.Context, criteria accounts.Criteria) (int, error) {
	args := m.Called(ctx, criteria)
	return args.Int(0), args.Error(1)
}

func (m *MockAccountStore) UpdateByID(ctx context.Context, id string, changes map[string]any) (*accounts.Account, error) {
	args := m.Called(ctx, id, changes)
	return argAccount(args.Get(0)), args.Error(1)
}

func (m *MockAccountStore) ReplaceByID(ctx context.Context, id string, record *accounts.Account) (*accounts.Account, error) {
	args := m.Called(ctx, id, record)
	return argAccount(args.Get(0)), args.Error(1)
}

func (m *MockAccountStore) DeleteByID(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAccountStore) UpdateAll(ctx context.Context, criteria accounts.Criteria, changes map[string]any) (int, error) {
	args := m.Called(ctx, criteria, changes)
	return args.Int(0), args.Error(1)
}

func argAccount(v any) *accounts.Account {
	account, _ := v.(*accounts.Account)
	return account
}

// MockIssuer implements accounts.TokenIssuer
type MockIssuer struct {
	mock.Mock
}

func (m *MockIssuer) Issue(account *accounts.Account) (string, error) {
	args := m.Called(account)
	return args.String(0), args.Error(1)
}
