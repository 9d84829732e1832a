package transaction

import "time"

type ListParams struct {
	Limit     int
	Offset    int
	StartDate *time.Time
	EndDate   *time.Time
}

type ListResponse struct {
	Transactions []Transaction `json:"transactions"`
	Total        int           `json:"total"`
}

type SummaryResponse struct {
	TotalCount    int     `json:"total_count"`
	TotalIncome   float64 `json:"total_income"`
	TotalExpenses float64 `json:"total_expenses"`
	NetBalance    float64 `json:"net_balance"`
}

type SyncResponse struct {
	SyncedCount int `json:"synced_count"`
}
