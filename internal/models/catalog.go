// internal/models/catalog.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

type Category struct {
	BaseModel
	Name        string     `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Description string     `json:"description" gorm:"type:text"`
	Image       string     `json:"image" gorm:"size:500"`
	ParentID    *uuid.UUID `json:"parent_id" gorm:"type:uuid;index"`

	Parent   *Category `json:"parent,omitempty" gorm:"foreignKey:ParentID"`
	Products []Product `json:"products,omitempty" gorm:"foreignKey:CategoryID"`
}

// Product stores its description newline-joined; the catalog service
// exposes it as a line array.
type Product struct {
	BaseModel
	Name           string         `json:"name" gorm:"size:255;not null"`
	Description    string         `json:"description" gorm:"type:text"`
	BasePrice      float64        `json:"base_price" gorm:"type:decimal(10,2);not null;default:0"`
	CategoryID     *uuid.UUID     `json:"category_id" gorm:"type:uuid;index"`
	InStock        bool           `json:"in_stock" gorm:"default:true"`
	Featured       bool           `json:"featured" gorm:"default:false;index"`
	NewArrival     bool           `json:"new_arrival" gorm:"default:false"`
	AdditionalInfo pq.StringArray `json:"additional_info" gorm:"type:text[]"`

	// Relationships
	Category   *Category      `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Variations []Variation    `json:"variations,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Images     []ProductImage `json:"images,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	Reviews    []Review       `json:"reviews,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// Variation is a purchasable configuration of a product. Price 0 means
// "no price" when the catalog service computes minimums.
type Variation struct {
	BaseModel
	ProductID     uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	Name          string    `json:"name" gorm:"size:100;not null"`
	SKU           string    `json:"sku" gorm:"size:100"`
	Price         float64   `json:"price" gorm:"type:decimal(10,2);not null;default:0"`
	StockQuantity int       `json:"stock_quantity" gorm:"default:0"`
	Attributes    JSONB     `json:"attributes" gorm:"type:jsonb"`
	Meta          JSONB     `json:"meta" gorm:"type:jsonb"`

	Images []ProductImage `json:"images,omitempty" gorm:"foreignKey:VariationID"`
}

// ProductImage belongs to a product, or to one of its variations when
// VariationID is set. At most one image per product carries IsPrimary;
// the first uploaded one wins by convention, not by constraint.
type ProductImage struct {
	BaseModel
	ProductID   uuid.UUID  `json:"product_id" gorm:"type:uuid;not null;index"`
	VariationID *uuid.UUID `json:"variation_id" gorm:"type:uuid;index"`
	URL         string     `json:"url" gorm:"size:500;not null"`
	Position    int        `json:"position" gorm:"not null;default:0"`
	IsPrimary   bool       `json:"is_primary" gorm:"default:false"`
}

type Review struct {
	BaseModel
	ProductID  uuid.UUID `json:"product_id" gorm:"type:uuid;not null;index"`
	AuthorName string    `json:"author_name" gorm:"size:100;not null"`
	Rating     float64   `json:"rating" gorm:"type:decimal(3,2);not null"`
	Comment    string    `json:"comment" gorm:"type:text"`
}
