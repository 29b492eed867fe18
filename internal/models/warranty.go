// internal/models/warranty.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Warranty struct {
	BaseModel
	Code           string         `json:"code" gorm:"uniqueIndex;size:32;not null"`
	ProductID      uuid.UUID      `json:"product_id" gorm:"type:uuid;not null;index"`
	CustomerName   string         `json:"customer_name" gorm:"size:100;not null"`
	CustomerEmail  string         `json:"customer_email" gorm:"size:255"`
	CustomerPhone  string         `json:"customer_phone" gorm:"size:20;not null;index"`
	VehicleDetails JSONB          `json:"vehicle_details" gorm:"type:jsonb"`
	PurchaseDate   time.Time      `json:"purchase_date" gorm:"not null"`
	DurationMonths int            `json:"duration_months" gorm:"not null;default:12"`
	Status         WarrantyStatus `json:"status" gorm:"type:varchar(20);default:'active';index"`
	RegisteredBy   *uuid.UUID     `json:"registered_by" gorm:"type:uuid;index"`

	Product   Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Registrar *User   `json:"registrar,omitempty" gorm:"foreignKey:RegisteredBy"`
}

// ExpiresAt is the end of coverage derived from purchase date and duration.
func (w *Warranty) ExpiresAt() time.Time {
	return w.PurchaseDate.AddDate(0, w.DurationMonths, 0)
}
