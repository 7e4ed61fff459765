package domain

// TransportCreated is published after the transport record is durably
// persisted.
type TransportCreated struct {
	TransportID string     `json:"transportId"`
	StoreName   string     `json:"storeName"`
	Items       []LineItem `json:"lineItems"`
}
