package models

// CartLine est une ligne du panier : le produit copié plus sa quantité (toujours >= 1).
type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal renvoie prix unitaire × quantité.
func (l CartLine) Subtotal() int {
	return l.Price * l.Quantity
}

// CartSummary est la vue du panier renvoyée au front.
type CartSummary struct {
	Items    []CartLine `json:"items"`
	Count    int        `json:"count"`
	Total    int        `json:"total"`
	Shipping string     `json:"shipping"`
}
