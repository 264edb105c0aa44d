package models

// LineItem is one product entry with quantity inside the cart or an order.
// Field names mirror the persisted JSON written by the original storefront, so
// an existing "stylehub-cart" payload keeps loading. Prices are display
// strings ("₹1,234.00"); identity for merge purposes is the product name.
type LineItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Image    string `json:"image"`
	Brand    string `json:"brand"`
	Quantity int    `json:"quantity"`
}

type AddItemRequest struct {
	Name  string `json:"name" validate:"required"`
	Price string `json:"price" validate:"required"`
	Image string `json:"image"`
	Brand string `json:"brand"`
}

type UpdateQuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}

type CartResponse struct {
	Items      []LineItem `json:"items"`
	TotalItems int        `json:"total_items"`
	Subtotal   string     `json:"subtotal"`
}

// CartBadge backs the cart count indicator in the page header.
type CartBadge struct {
	TotalItems int `json:"total_items"`
}
