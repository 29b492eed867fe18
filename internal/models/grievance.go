// internal/models/grievance.go
package models

import (
	"time"

	"github.com/google/uuid"
)

type Grievance struct {
	BaseModel
	RaisedBy    uuid.UUID       `json:"raised_by" gorm:"type:uuid;not null;index"`
	WarrantyID  *uuid.UUID      `json:"warranty_id" gorm:"type:uuid;index"`
	Subject     string          `json:"subject" gorm:"size:255;not null"`
	Description string          `json:"description" gorm:"type:text;not null"`
	Category    string          `json:"category" gorm:"size:50;index"`
	Status      GrievanceStatus `json:"status" gorm:"type:varchar(20);default:'open';index"`
	Resolution  string          `json:"resolution,omitempty" gorm:"type:text"`
	AssignedTo  *uuid.UUID      `json:"assigned_to" gorm:"type:uuid"`
	ResolvedAt  *time.Time      `json:"resolved_at"`

	Raiser   User      `json:"raiser,omitempty" gorm:"foreignKey:RaisedBy"`
	Warranty *Warranty `json:"warranty,omitempty" gorm:"foreignKey:WarrantyID"`
	Assignee *User     `json:"assignee,omitempty" gorm:"foreignKey:AssignedTo"`
}
