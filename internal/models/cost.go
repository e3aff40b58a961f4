package models

// CostRecord tracks billable usage for generation calls. Records aggregate
// into the demo's accounting field via Add.
type CostRecord struct {
	PromptTokens     int64   `json:"promptTokens"`
	CompletionTokens int64   `json:"completionTokens"`
	TotalTokens      int64   `json:"totalTokens"`
	CostUSD          float64 `json:"costUsd"`
	Provider         string  `json:"provider,omitempty"`
}

// Add accumulates another record into this one.
func (c *CostRecord) Add(other CostRecord) {
	c.PromptTokens += other.PromptTokens
	c.CompletionTokens += other.CompletionTokens
	c.TotalTokens += other.TotalTokens
	c.CostUSD += other.CostUSD
}
