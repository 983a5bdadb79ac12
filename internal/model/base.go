package model

import "time"

// BaseModel carries the audit timestamps embedded by every business model.
//
// Soft delete is intentionally an explicit IsActive flag on each entity
// rather than gorm.DeletedAt: deactivated rows must stay visible to admin
// listings and be reactivatable.
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}
