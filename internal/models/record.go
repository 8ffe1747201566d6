package models

// Record represents a registered person/account managed by the service.
//
// CreatedAt is stored as an ISO-8601 UTC text column and is set exactly once
// at insert time. Active starts true and is only ever flipped to false by a
// soft delete; readers must never see inactive rows. The email unique index
// spans all rows regardless of the active flag, so a deleted email cannot be
// reused.
type Record struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	Name      string `json:"name" gorm:"type:varchar(255);not null"`
	Email     string `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Password  string `json:"-" gorm:"column:credential;type:varchar(64);not null"` // SHA-256 hex digest, never serialized
	Phone     string `json:"phone" gorm:"type:varchar(50)"`
	CreatedAt string `json:"created_at" gorm:"type:varchar(40);not null"`
	Active    bool   `json:"-" gorm:"not null;default:true"`
}
