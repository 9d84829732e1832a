package account

type ListResponse struct {
	Accounts []Account `json:"accounts"`
	Total    int       `json:"total"`
}

type SummaryResponse struct {
	TotalAccounts    int                `json:"total_accounts"`
	NetWorth         float64            `json:"net_worth"`
	TotalAvailable   float64            `json:"total_available"`
	BalancesByType   map[string]float64 `json:"balances_by_type"`
	AccountsByType   map[string]int     `json:"accounts_by_type"`
}

type SyncResponse struct {
	SyncedCount int `json:"synced_count"`
}
