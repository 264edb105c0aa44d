package models

// WishlistEntry is a saved-for-later product. Uniqueness is by Name; a
// duplicate add is rejected rather than merged.
type WishlistEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Image string `json:"image"`
}

type AddWishlistRequest struct {
	Name  string `json:"name" validate:"required"`
	Price string `json:"price" validate:"required"`
	Image string `json:"image"`
}

type WishlistResponse struct {
	Items []WishlistEntry `json:"items"`
	Total int             `json:"total"`
}
