package accounts_test

import (
	"context"
	"strings"
	"sync"

	accounts "github.com/goliatone/go-accounts"
	"github.com/google/uuid"
)

// memStore is an in-memory AccountStore used by service and controller tests.
type memStore struct {
	mu      sync.Mutex
	records map[string]*accounts.Account

	createCalls int
}

func newMemStore() *memStore {
	return &memStore{records: map[string]*accounts.Account{}}
}

func (m *memStore) Create(ctx context.Context, record *accounts.Account) (*accounts.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.createCalls++

	for _, existing := range m.records {
		if existing.Username == record.Username {
			return nil, accounts.ErrDuplicateAccount
		}
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}

	clone := *record
	m.records[record.ID.String()] = &clone

	return record, nil
}

func (m *memStore) FindOne(ctx context.Context, criteria accounts.Criteria) (*accounts.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, record := range m.records {
		if matches(record, criteria.Where) {
			clone := *record
			return &clone, nil
		}
	}

	return nil, accounts.ErrAccountNotFound
}

func (m *memStore) FindByID(ctx context.Context, id string) (*accounts.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[id]
	if !ok {
		return nil, accounts.ErrAccountNotFound
	}

	clone := *record
	return &clone, nil
}

func (m *memStore) Find(ctx context.Context, criteria accounts.Criteria) ([]*accounts.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matched := []*accounts.Account{}
	for _, record := range m.records {
		if matches(record, criteria.Where) {
			clone := *record
			matched = append(matched, &clone)
		}
	}

	return matched, nil
}

func (m *memStore) Count(ctx context.Context, criteria accounts.Criteria) (int, error) {
	records, err := m.Find(ctx, criteria)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func (m *memStore) UpdateByID(ctx context.Context, id string, changes map[string]any) (*accounts.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[id]
	if !ok {
		return nil, accounts.ErrAccountNotFound
	}

	for key, value := range changes {
		switch strings.ToLower(key) {
		case "username":
			if s, ok := value.(string); ok {
				record.Username = s
			}
		case "password_hash":
			if s, ok := value.(string); ok {
				record.PasswordHash = s
			}
		case "metadata":
			if meta, ok := value.(map[string]any); ok {
				record.Metadata = meta
			}
		}
	}

	clone := *record
	return &clone, nil
}

func (m *memStore) ReplaceByID(ctx context.Context, id string, record *accounts.Account) (*accounts.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.records[id]
	if !ok {
		return nil, accounts.ErrAccountNotFound
	}

	existing.Username = record.Username
	existing.PasswordHash = record.PasswordHash
	existing.Metadata = record.Metadata

	clone := *existing
	return &clone, nil
}

func (m *memStore) DeleteByID(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.records[id]; !ok {
		return accounts.ErrAccountNotFound
	}

	delete(m.records, id)
	return nil
}

func (m *memStore) UpdateAll(ctx context.Context, criteria accounts.Criteria, changes map[string]any) (int, error) {
	m.mu.Lock()

	ids := []string{}
	for id, record := range m.records {
		if matches(record, criteria.Where) {
			ids = append(ids, id)
		}
	}
	m.mu.Unlock()

	for _, id := range ids {
		if _, err := m.UpdateByID(ctx, id, changes); err != nil {
			return 0, err
		}
	}

	return len(ids), nil
}

func matches(record *accounts.Account, where map[string]any) bool {
	for key, value := range where {
		switch strings.ToLower(key) {
		case "username":
			if record.Username != value {
				return false
			}
		case "id":
			if record.ID.String() != value {
				return false
			}
		default:
			return false
		}
	}
	return true
}

var _ accounts.AccountStore = (*memStore)(nil)

// spyHasher wraps a real hasher and counts calls.
type spyHasher struct {
	inner        accounts.PasswordHasher
	hashCalls    int
	compareCalls int
}

func (s *spyHasher) Hash(password string) (string, error) {
	s.hashCalls++
	return s.inner.Hash(password)
}

func (s *spyHasher) Compare(password, hash string) error {
	s.compareCalls++
	return s.inner.Compare(password, hash)
}
