package usage

import "time"

// RequestLog is one raw gateway request awaiting rollup.
type RequestLog struct {
	ID        int64
	AccountID int64
	Platform  string
	Model     string
	Status    int
	TokensIn  int64
	TokensOut int64
	LatencyMs int
	CreatedAt time.Time
}

// Daily is one aggregated (account, platform, day) usage row.
type Daily struct {
	AccountID int64     `json:"accountId"`
	Platform  string    `json:"platform"`
	Day       time.Time `json:"day"`
	Requests  int64     `json:"requests"`
	TokensIn  int64     `json:"inputTokens"`
	TokensOut int64     `json:"outputTokens"`
}

// DashboardStats is the console landing-page aggregate.
type DashboardStats struct {
	ActiveAccounts int64            `json:"activeAccounts"`
	TotalAccounts  int64            `json:"totalAccounts"`
	RequestsToday  int64            `json:"requestsToday"`
	TokensInToday  int64            `json:"inputTokensToday"`
	TokensOutToday int64            `json:"outputTokensToday"`
	ErrorRate      float64          `json:"errorRate"`
	ByPlatform     map[string]int64 `json:"requestsByPlatform"`
}
