package models

// Condition is the provider's description of a weather state
type Condition struct {
	Text string `json:"text"` // localized description, e.g. "晴れ"
	Icon string `json:"icon"` // icon URL, frequently protocol-relative
}

// Hour is a single hourly forecast point
type Hour struct {
	Time      string    `json:"time"`   // "2006-01-02 15:04"
	TempC     float64   `json:"temp_c"` // in Celsius
	Condition Condition `json:"condition"`
}
