package clickhouse

import (
	"context"
	"fmt"
	"time"

	"pumpwatch/internal/domain"
	"pumpwatch/internal/observability"
	"pumpwatch/internal/storage"
)

// TradeStore implements storage.TradeStore using ClickHouse.
type TradeStore struct {
	conn *Conn
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(conn *Conn) *TradeStore {
	return &TradeStore{conn: conn}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

// InsertTrades appends a batch of trade records.
func (s *TradeStore) InsertTrades(ctx context.Context, trades []domain.TradeRecord) (err error) {
	if len(trades) == 0 {
		return nil
	}
	for _, t := range trades {
		if t.Mint == "" {
			return storage.ErrInvalidInput
		}
	}

	start := time.Now()
	defer func() {
		observability.RecordDBQuery("clickhouse", "insert_trades", time.Since(start).Seconds(), err)
	}()

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO trade_archive (mint, trader, token_amount, sol_amount, is_buy, ts)
	`)
	if err != nil {
		return fmt.Errorf("prepare trade batch: %w", err)
	}

	for _, t := range trades {
		isBuy := uint8(0)
		if t.IsBuy {
			isBuy = 1
		}
		if err := batch.Append(t.Mint, t.Trader, t.TokenAmount, t.SolAmount, isBuy, t.Timestamp); err != nil {
			return fmt.Errorf("append trade: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send trade batch: %w", err)
	}
	return nil
}

// GetByMint retrieves all archived trades for a mint, ordered by timestamp.
func (s *TradeStore) GetByMint(ctx context.Context, mint string) ([]domain.TradeRecord, error) {
	query := `
		SELECT mint, trader, token_amount, sol_amount, is_buy, ts
		FROM trade_archive
		WHERE mint = ?
		ORDER BY ts ASC
	`

	rows, err := s.conn.Query(ctx, query, mint)
	if err != nil {
		return nil, fmt.Errorf("query trades for %s: %w", mint, err)
	}
	defer rows.Close()

	var trades []domain.TradeRecord
	for rows.Next() {
		var t domain.TradeRecord
		var isBuy uint8
		if err := rows.Scan(&t.Mint, &t.Trader, &t.TokenAmount, &t.SolAmount, &isBuy, &t.Timestamp); err != nil {
			return nil, fmt.Errorf("scan trade: %w", err)
		}
		t.IsBuy = isBuy == 1
		trades = append(trades, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trades for %s: %w", mint, err)
	}

	if len(trades) == 0 {
		return nil, storage.ErrNotFound
	}
	return trades, nil
}

// ListMints returns all archived mints.
func (s *TradeStore) ListMints(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT mint FROM trade_archive ORDER BY mint ASC`

	rows, err := s.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list archived mints: %w", err)
	}
	defer rows.Close()

	var mints []string
	for rows.Next() {
		var mint string
		if err := rows.Scan(&mint); err != nil {
			return nil, fmt.Errorf("scan mint: %w", err)
		}
		mints = append(mints, mint)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate archived mints: %w", err)
	}
	return mints, nil
}
