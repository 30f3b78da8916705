package cart

// AddItemRequest is the body of POST /api/cart.
type AddItemRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Quantity  *int   `json:"quantity" validate:"required,min=1,max=1000000"`
}

// UpdateQuantityRequest is the body of PATCH /api/cart/{productId}. Zero
// removes the line.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" validate:"required,min=0,max=1000000"`
}
