package domain

// Well-known mint addresses.
const (
	// WSOLMint is the native wrapped-SOL mint. Pre-balance entries with
	// this mint never identify a launch token.
	WSOLMint = "So11111111111111111111111111111111111111112"

	USDTMint = "Es9vMFrzaCERmJfrF4H2FYD4KCoNkY11McCe8BenwNYB"
	USDCMint = "EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v"

	// TokenProgramID scopes token-account enumeration.
	TokenProgramID = "TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA"
)

// AlwaysIncludeMints are exempt from rank- and amount-based holding
// cutoffs: the two stablecoins plus wrapped SOL.
var AlwaysIncludeMints = map[string]bool{
	USDTMint: true,
	USDCMint: true,
	WSOLMint: true,
}

// StablecoinMints contribute to a trader's stablecoinValue.
var StablecoinMints = map[string]bool{
	USDTMint: true,
	USDCMint: true,
}

// LaunchEvent is one notification from the log subscription. Produced by
// the websocket client, consumed once by the watcher.
type LaunchEvent struct {
	Signature string
	Logs      []string
}
