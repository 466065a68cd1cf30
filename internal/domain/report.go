package domain

// HoldingAccount is one token account owned by a trader. Price and Value
// are zero until the pricing pass runs.
type HoldingAccount struct {
	Mint     string  `json:"mint"`
	Amount   float64 `json:"amount"` // raw sort key from the RPC response
	Owner    string  `json:"owner"`
	UIAmount float64 `json:"uiAmount"`
	Price    float64 `json:"price"`
	Value    float64 `json:"value"` // uiAmount * price
}

// TraderReport is the enriched per-trader entry for one mint.
type TraderReport struct {
	Trader          string           `json:"user"`
	Accounts        []HoldingAccount `json:"accounts"`
	SolBalance      float64          `json:"solBalance"`
	NetTokenAmount  float64          `json:"netTokenAmount"`
	TotalValue      float64          `json:"totalValue"`
	StablecoinValue float64          `json:"stablecoins"`
}

// MintReport summarizes one launch.
type MintReport struct {
	TotalTradersBeforeFilter int            `json:"totalUsersBeforeFilter"`
	TotalSoldByExited        float64        `json:"totalSold"`
	TimeToBond               string         `json:"timeToBond"`
	Traders                  []TraderReport `json:"users"`
}

// Report maps mint address to its summary. Written wholesale once per
// completed processing cycle.
type Report map[string]*MintReport
