package models

import "time"

// Audit carries the created/modified stamps and the soft-delete flag shared by
// every persisted entity. Repositories filter on IsDeleted explicitly.
type Audit struct {
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	CreatedBy  string    `gorm:"type:varchar(128)" json:"created_by,omitempty"`
	ModifiedAt time.Time `gorm:"not null" json:"modified_at"`
	ModifiedBy string    `gorm:"type:varchar(128)" json:"modified_by,omitempty"`
	IsDeleted  bool      `gorm:"not null;default:false;index" json:"-"`
}

// Stamp marks a new record as created and modified by actor at now.
func (a *Audit) Stamp(actor string, now time.Time) {
	a.CreatedAt = now
	a.CreatedBy = actor
	a.ModifiedAt = now
	a.ModifiedBy = actor
}

// Touch records a modification.
func (a *Audit) Touch(actor string, now time.Time) {
	a.ModifiedAt = now
	a.ModifiedBy = actor
}

// MarkDeleted soft-deletes the record.
func (a *Audit) MarkDeleted(actor string, now time.Time) {
	a.IsDeleted = true
	a.Touch(actor, now)
}
