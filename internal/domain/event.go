package domain

// Event describes the single event tickets are issued for. There is no event
// management surface; the descriptor comes from configuration.
type Event struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}
