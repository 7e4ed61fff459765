package domain

type LineItem struct {
	ProductID   string `json:"productId"`
	Quantity    int    `json:"quantity"`
	ProductName string `json:"productName,omitempty"`
}

type Transport struct {
	ID        string     `json:"transportId,omitempty"`
	Items     []LineItem `json:"lineItems"`
	StoreName string     `json:"storeName"`
}
