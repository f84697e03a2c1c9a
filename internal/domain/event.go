package domain

// Event is a catalog record. Price is in whole currency units.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Category    string `json:"category,omitempty"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
}
