package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Categories a product may belong to.
var ProductCategories = []string{"food", "drink", "music", "sticker", "toy", "other"}

func IsProductCategory(c string) bool {
	for _, v := range ProductCategories {
		if v == c {
			return true
		}
	}
	return false
}

type Product struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string        `bson:"name" json:"name"`
	Price       float64       `bson:"price" json:"price"`
	Image       string        `bson:"image" json:"image"`
	Description string        `bson:"description" json:"description"`
	Category    string        `bson:"category" json:"category"`
	Sell        bool          `bson:"sell" json:"sell"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// Validate checks the product constraints shared by create and edit.
func (p *Product) Validate() *ValidationError {
	verr := NewValidationError()

	if p.Name == "" {
		verr.Add("name", "missing product name")
	}
	if p.Price < 0 {
		verr.Add("price", "product price cannot be negative")
	}
	if p.Description == "" {
		verr.Add("description", "missing product description")
	}
	if p.Category == "" {
		verr.Add("category", "missing product category")
	} else if !IsProductCategory(p.Category) {
		verr.Add("category", "product category invalid")
	}
	if p.Image == "" {
		verr.Add("image", "missing product image")
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}
