// internal/models/posm.go
package models

import (
	"github.com/google/uuid"
)

// PosmRequest is a franchise request for point-of-sale material, tracked
// as a ticketed conversation between the vendor and the admin team.
type PosmRequest struct {
	BaseModel
	VendorID uuid.UUID  `json:"vendor_id" gorm:"type:uuid;not null;index"`
	Item     string     `json:"item" gorm:"size:255;not null"`
	Quantity int        `json:"quantity" gorm:"not null;default:1"`
	Note     string     `json:"note" gorm:"type:text"`
	Status   PosmStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`

	Vendor   User          `json:"vendor,omitempty" gorm:"foreignKey:VendorID"`
	Messages []PosmMessage `json:"messages,omitempty" gorm:"foreignKey:RequestID;constraint:OnDelete:CASCADE"`
}

type PosmMessage struct {
	BaseModel
	RequestID uuid.UUID `json:"request_id" gorm:"type:uuid;not null;index"`
	AuthorID  uuid.UUID `json:"author_id" gorm:"type:uuid;not null"`
	Body      string    `json:"body" gorm:"type:text;not null"`

	Author User `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
}
