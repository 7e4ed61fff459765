package domain

// LineItem is one product position of an order or transport. ProductName
// is empty until enrichment resolves it against the catalog; once the
// order is persisted every item carries a non-empty name.
type LineItem struct {
	ProductID   string `json:"productId"`
	Quantity    int    `json:"quantity"`
	ProductName string `json:"productName,omitempty"`
}

type Order struct {
	ID         string     `json:"orderId"`
	Items      []LineItem `json:"lineItems"`
	CarrierRef string     `json:"carrierReference"`
}
