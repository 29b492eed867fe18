// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

// Scan tolerates both structured values and serialized text: rows written
// by the legacy importer carry double-encoded JSON strings.
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	if err := json.Unmarshal(bytes, j); err != nil {
		var inner string
		if err2 := json.Unmarshal(bytes, &inner); err2 == nil {
			return json.Unmarshal([]byte(inner), j)
		}
		return err
	}
	return nil
}

// Enums
type UserRole string

const (
	UserRoleAdmin    UserRole = "admin"
	UserRoleVendor   UserRole = "vendor"
	UserRoleCustomer UserRole = "customer"
)

type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

type NotificationType string

const (
	NotificationTypeSystem   NotificationType = "system"
	NotificationTypeAlert    NotificationType = "alert"
	NotificationTypeProduct  NotificationType = "product"
	NotificationTypeWarranty NotificationType = "warranty"
	NotificationTypeOrder    NotificationType = "order"
	NotificationTypeScheme   NotificationType = "scheme"
	NotificationTypePosm     NotificationType = "posm"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationTypeSystem, NotificationTypeAlert, NotificationTypeProduct,
		NotificationTypeWarranty, NotificationTypeOrder, NotificationTypeScheme,
		NotificationTypePosm:
		return true
	}
	return false
}

type NotificationAudience string

const (
	AudienceAll      NotificationAudience = "all"
	AudienceSpecific NotificationAudience = "specific"
)

type WarrantyStatus string

const (
	WarrantyStatusActive  WarrantyStatus = "active"
	WarrantyStatusExpired WarrantyStatus = "expired"
	WarrantyStatusVoid    WarrantyStatus = "void"
)

type GrievanceStatus string

const (
	GrievanceStatusOpen       GrievanceStatus = "open"
	GrievanceStatusInProgress GrievanceStatus = "in_progress"
	GrievanceStatusResolved   GrievanceStatus = "resolved"
	GrievanceStatusClosed     GrievanceStatus = "closed"
	GrievanceStatusReopened   GrievanceStatus = "reopened"
)

type PosmStatus string

const (
	PosmStatusPending    PosmStatus = "pending"
	PosmStatusApproved   PosmStatus = "approved"
	PosmStatusDispatched PosmStatus = "dispatched"
	PosmStatusDelivered  PosmStatus = "delivered"
	PosmStatusRejected   PosmStatus = "rejected"
)
