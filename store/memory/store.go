package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/xraph/stakeledger"
	"github.com/xraph/stakeledger/account"
	"github.com/xraph/stakeledger/event"
	"github.com/xraph/stakeledger/id"
	"github.com/xraph/stakeledger/pool"
	ledgerstore "github.com/xraph/stakeledger/store"
)

// compile-time interface check
var _ ledgerstore.Store = (*Store)(nil)

type Store struct {
	mu sync.RWMutex

	// Global accounting state
	state *pool.State

	// Account storage
	accounts map[string]*account.Account

	// Event log, ordered by sequence
	events []event.Event

	closed bool
}

func New() *Store {
	return &Store{
		accounts: make(map[string]*account.Account),
		events:   make([]event.Event, 0),
	}
}

// State Store implementation
func (s *Store) GetState(_ context.Context) (*pool.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, stakeledger.ErrStoreClosed
	}
	if s.state == nil {
		return nil, stakeledger.ErrStateNotFound
	}
	st := *s.state
	return &st, nil
}

// Account Store implementation
func (s *Store) GetAccount(_ context.Context, accountID id.AccountID) (*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, stakeledger.ErrStoreClosed
	}
	if a, ok := s.accounts[accountID.String()]; ok {
		return a.Clone(), nil
	}
	return nil, stakeledger.ErrAccountNotFound
}

func (s *Store) ListAccounts(_ context.Context, opts account.ListOpts) ([]*account.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, stakeledger.ErrStoreClosed
	}

	result := make([]*account.Account, 0, len(s.accounts))
	for _, a := range s.accounts {
		if opts.ActiveOnly && !a.IsActive() {
			continue
		}
		result = append(result, a.Clone())
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID.String() < result[j].ID.String()
	})

	return page(result, opts.Offset, opts.Limit), nil
}

// Event Store implementation
func (s *Store) ListEvents(_ context.Context, opts event.ListOpts) ([]*event.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, stakeledger.ErrStoreClosed
	}

	result := make([]*event.Event, 0)
	for i := range s.events {
		if opts.Matches(&s.events[i]) {
			e := s.events[i]
			result = append(result, &e)
		}
	}

	return page(result, opts.Offset, opts.Limit), nil
}

// Commit applies a checkpoint atomically under the store lock.
func (s *Store) Commit(_ context.Context, cp *ledgerstore.Checkpoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return stakeledger.ErrStoreClosed
	}

	if cp.State != nil {
		st := *cp.State
		s.state = &st
	}
	for _, a := range cp.Accounts {
		s.accounts[a.ID.String()] = a.Clone()
	}
	for _, e := range cp.Events {
		s.events = append(s.events, *e)
	}
	return nil
}

// Core methods
func (s *Store) Migrate(_ context.Context) error {
	return nil
}

func (s *Store) Ping(_ context.Context) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return stakeledger.ErrStoreClosed
	}
	return nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

func page[T any](items []T, offset, limit int) []T {
	start := offset
	if start > len(items) {
		start = len(items)
	}
	end := start + limit
	if limit == 0 || end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
