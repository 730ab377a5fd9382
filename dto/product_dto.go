package dto

// CreateProductDTO is the `data` JSON part of the multipart create request;
// the image rides alongside as the `image` file part.
type CreateProductDTO struct {
	Name        string  `json:"name" binding:"required"`
	Price       float64 `json:"price" binding:"gte=0"`
	Description string  `json:"description" binding:"required"`
	Category    string  `json:"category" binding:"required"`
	Sell        bool    `json:"sell"`
}

type UpdateProductDTO struct {
	Name        *string  `json:"name,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Sell        *bool    `json:"sell,omitempty"`
}
