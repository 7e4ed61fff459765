package domain

// OrderCreated is published after the order is durably persisted. It
// carries the full record; downstream consumers deduplicate on OrderID.
type OrderCreated struct {
	OrderID    string     `json:"orderId"`
	CarrierRef string     `json:"carrierReference"`
	Items      []LineItem `json:"lineItems"`
}
