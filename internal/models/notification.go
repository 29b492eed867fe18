// internal/models/notification.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// Notification is immutable after creation; only per-recipient read state
// changes. BroadcastAll marks an "everyone in TargetRole" send, while
// audience=specific sends materialize one NotificationRecipient per user.
// Snapshotted records that recipient rows were written at send time; rows
// imported from before recipient materialization existed leave it false and
// are resolved against the target role on read instead.
type Notification struct {
	BaseModel
	Type         NotificationType `json:"type" gorm:"type:varchar(20);not null;index"`
	Title        string           `json:"title" gorm:"size:255;not null"`
	Message      string           `json:"message" gorm:"type:text;not null"`
	Link         string           `json:"link,omitempty" gorm:"size:500"`
	Metadata     JSONB            `json:"metadata,omitempty" gorm:"type:jsonb"`
	TargetRole   UserRole         `json:"target_role" gorm:"type:varchar(20);not null;index"`
	BroadcastAll bool             `json:"broadcast_all" gorm:"default:false"`
	Snapshotted  bool             `json:"-" gorm:"default:false"`
	CreatedBy    *uuid.UUID       `json:"created_by" gorm:"type:uuid"`

	Recipients []NotificationRecipient `json:"recipients,omitempty" gorm:"foreignKey:NotificationID;constraint:OnDelete:CASCADE"`
}

type NotificationRecipient struct {
	BaseModel
	NotificationID uuid.UUID  `json:"notification_id" gorm:"type:uuid;not null;index:idx_notification_recipient,unique"`
	UserID         uuid.UUID  `json:"user_id" gorm:"type:uuid;not null;index:idx_notification_recipient,unique;index"`
	Read           bool       `json:"read" gorm:"default:false;index"`
	ReadAt         *time.Time `json:"read_at"`

	Notification Notification `json:"notification,omitempty" gorm:"foreignKey:NotificationID"`
}

// FeedItem is one entry of a user's merged notification view.
type FeedItem struct {
	Notification
	Read   bool       `json:"read"`
	ReadAt *time.Time `json:"read_at,omitempty"`
}
