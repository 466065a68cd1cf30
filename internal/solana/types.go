package solana

// Transaction represents a Solana transaction.
type Transaction struct {
	Slot      int64
	Signature string
	BlockTime int64 // Unix timestamp (seconds)
	Meta      *TransactionMeta
}

// TransactionMeta contains transaction metadata.
type TransactionMeta struct {
	Err              interface{}
	PreTokenBalances []TokenBalance
}

// TokenBalance is one entry of pre/post token balances in transaction meta.
type TokenBalance struct {
	AccountIndex int
	Mint         string
	Owner        string
}

// TokenAccount is one jsonParsed token account from getTokenAccountsByOwner.
type TokenAccount struct {
	Mint     string
	Owner    string
	Amount   float64 // raw amount in base units
	UIAmount float64
	// UIAmountString is the exact decimal string from the RPC; preferred
	// over UIAmount when both are present.
	UIAmountString string
}
