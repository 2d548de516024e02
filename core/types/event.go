package types

// Event is the flattened form of a state change, suitable for receipts and
// indexers.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}
