package domain

// TradeRecord is a single trade against a mint, as delivered by the
// trade-history feed. Amounts are raw on-chain units; normalization to
// UI units happens during aggregation.
type TradeRecord struct {
	Mint        string  // token mint the trade was executed against
	Trader      string  // wallet that executed the trade
	TokenAmount float64 // raw token units (10^6 per whole token)
	SolAmount   float64 // raw lamports (10^9 per SOL)
	IsBuy       bool
	Timestamp   int64 // unix seconds
}

// TraderStats accumulates trade totals for one trader on one mint.
// All fields only grow as records are folded in.
type TraderStats struct {
	User            string  `json:"user"`
	BuyTokenAmount  float64 `json:"buyTokenAmount"`
	SellTokenAmount float64 `json:"sellTokenAmount"`
	BuySolAmount    float64 `json:"buySolAmount"`
	SellSolAmount   float64 `json:"sellSolAmount"`
	Buys            int     `json:"buys"`
	Sells           int     `json:"sells"`
}

// NetTokenAmount is buys minus sells in UI units. Negative values are
// possible when a trader sells tokens acquired outside the feed window.
func (s *TraderStats) NetTokenAmount() float64 {
	return s.BuyTokenAmount - s.SellTokenAmount
}

// TotalTraded ranks traders: combined buy and sell token volume.
func (s *TraderStats) TotalTraded() float64 {
	return s.BuyTokenAmount + s.SellTokenAmount
}

// TimeSpan tracks the first and last trade timestamp seen for a mint.
// Zero-value means no trades folded yet.
type TimeSpan struct {
	Min int64
	Max int64
	set bool
}

// Observe widens the span to include ts.
func (t *TimeSpan) Observe(ts int64) {
	if !t.set {
		t.Min = ts
		t.Max = ts
		t.set = true
		return
	}
	if ts < t.Min {
		t.Min = ts
	}
	if ts > t.Max {
		t.Max = ts
	}
}

// Seconds returns Max-Min as a duration in seconds, or 0 when no
// timestamps were observed.
func (t *TimeSpan) Seconds() float64 {
	if !t.set {
		return 0
	}
	return float64(t.Max - t.Min)
}
