package memory

import (
	"context"
	"sort"
	"sync"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/storage"
)

// TradeStore implements storage.TradeStore in memory.
type TradeStore struct {
	mu     sync.RWMutex
	trades map[string][]domain.TradeRecord
}

// NewTradeStore creates an empty in-memory trade store.
func NewTradeStore() *TradeStore {
	return &TradeStore{trades: make(map[string][]domain.TradeRecord)}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

// InsertTrades appends a batch of trade records.
func (s *TradeStore) InsertTrades(_ context.Context, trades []domain.TradeRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range trades {
		if t.Mint == "" {
			return storage.ErrInvalidInput
		}
		s.trades[t.Mint] = append(s.trades[t.Mint], t)
	}
	return nil
}

// GetByMint retrieves archived trades for a mint, ordered by timestamp.
func (s *TradeStore) GetByMint(_ context.Context, mint string) ([]domain.TradeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	trades, ok := s.trades[mint]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := append([]domain.TradeRecord(nil), trades...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp < out[j].Timestamp })
	return out, nil
}

// ListMints returns all archived mints.
func (s *TradeStore) ListMints(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mints := make([]string, 0, len(s.trades))
	for mint := range s.trades {
		mints = append(mints, mint)
	}
	sort.Strings(mints)
	return mints, nil
}
