package entities

// TurfRequest is the admin payload for creating or updating a turf.
type TurfRequest struct {
	Name          string             `json:"name"`
	Address       string             `json:"address"`
	ContactNumber string             `json:"contact_number"`
	OpenTime      string             `json:"open_time"`
	CloseTime     string             `json:"close_time"`
	SlotMinutes   int                `json:"slot_minutes"`
	Active        *bool              `json:"active,omitempty"`
	BlackoutDates []string           `json:"blackout_dates"`
	PriceRules    []PriceRuleRequest `json:"price_rules"`
}

type PriceRuleRequest struct {
	DayClass    string `json:"day_class"`
	WindowStart string `json:"window_start"`
	WindowEnd   string `json:"window_end"`
	Rate        int    `json:"rate"`
}

type RatingRequest struct {
	TurfID  int    `json:"turf_id"`
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

type TurfRatingSummary struct {
	TurfID int     `json:"turf_id"`
	Score  float64 `json:"score"`
	Votes  int     `json:"votes"`
}
