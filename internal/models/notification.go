package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notification is a stored in-app notification. Delivery is handled
// elsewhere; this service only writes rows (meal reminders).
type Notification struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	RecipientID uuid.UUID `gorm:"type:varchar(36);not null;index" json:"recipient_id"`
	Type        string    `gorm:"size:50;not null" json:"type"`
	Message     string    `gorm:"type:text;not null" json:"message"`
	RelatedID   uuid.UUID `gorm:"type:varchar(36)" json:"related_id"`
	Read        bool      `gorm:"not null;default:false" json:"read"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
