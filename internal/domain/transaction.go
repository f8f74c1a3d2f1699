package domain

// DefaultTransactionLimit caps transaction listings when the caller gives
// no valid limit.
const DefaultTransactionLimit = 100

// Transaction is one sampled wagering event reported by an operator's
// platform. Read-only from the query layer's perspective.
type Transaction struct {
	TransactionID   int64   `json:"transaction_id"`
	OperatorID      int64   `json:"operator_id"`
	TransactionDate string  `json:"transaction_date"`
	TransactionHour int     `json:"transaction_hour"`
	BetAmount       float64 `json:"bet_amount"`
	PayoutAmount    float64 `json:"payout_amount"`
	GameType        string  `json:"game_type"`
	PlayerID        string  `json:"player_id"`
	IPAddress       string  `json:"ip_address"`
	SuspiciousFlag  bool    `json:"suspicious_flag"`

	// Joined operator column, populated by listing queries.
	OperatorName string `json:"operator_name,omitempty"`
}

// TransactionFilter holds the optional predicates for transaction
// listings. Limit <= 0 falls back to DefaultTransactionLimit.
type TransactionFilter struct {
	OperatorID     *int64
	SuspiciousOnly bool
	Limit          int
}
