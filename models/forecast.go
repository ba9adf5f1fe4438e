package models

// Day represents one calendar day of a forecast with its hourly breakdown
type Day struct {
	Date      string    `json:"date"`
	AvgTempC  float64   `json:"avgtemp_c"` // in Celsius
	Condition Condition `json:"condition"`
	Hours     []Hour    `json:"hours"` // chronological, 24 entries
}

// Forecast is the ordered list of days returned for a single lookup
type Forecast struct {
	Location string `json:"location"`
	Days     []Day  `json:"days"`
}

// ValidDay reports whether index addresses one of the forecast days
func (f Forecast) ValidDay(index int) bool {
	return index >= 0 && index < len(f.Days)
}
