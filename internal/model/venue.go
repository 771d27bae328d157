package model

// Event, Register, Bar and StockLocation are reference data managed elsewhere;
// the bar core only reads them.
type Event struct {
	ID       string `db:"id" json:"id"`
	Name     string `db:"name" json:"name"`
	IsActive bool   `db:"is_active" json:"is_active"`
}

type Register struct {
	ID      string `db:"id" json:"id"`
	EventID string `db:"event_id" json:"event_id"`
	Name    string `db:"name" json:"name"`
}

type Bar struct {
	ID      string `db:"id" json:"id"`
	EventID string `db:"event_id" json:"event_id"`
	Name    string `db:"name" json:"name"`
}

type StockLocation struct {
	ID       string `db:"id" json:"id"`
	EventID  string `db:"event_id" json:"event_id"`
	Name     string `db:"name" json:"name"`
	Type     string `db:"type" json:"type"`
	IsActive bool   `db:"is_active" json:"is_active"`
}
