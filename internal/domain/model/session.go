package model

// ConvertedRow is one displayed conversion: the base row or a tracked
// currency.
type ConvertedRow struct {
	Currency Currency `json:"currency"`
	Value    float64  `json:"value"`
	Display  string   `json:"display"`
	IsBase   bool     `json:"is_base,omitempty"`
}

// SessionView is the read side of the binding surface for one session.
type SessionView struct {
	ID           string         `json:"id"`
	BaseCurrency Currency       `json:"base_currency"`
	BaseAmount   string         `json:"base_amount"`
	AsOfDate     string         `json:"as_of_date"`
	Tracked      []Currency     `json:"tracked"`
	Pending      Currency       `json:"pending,omitempty"`
	Currencies   []Currency     `json:"currencies"`
	Rows         []ConvertedRow `json:"rows"`
}
