package subscription

import "time"

// EmailSubscription is an address on the public mailing list.
type EmailSubscription struct {
	ID        uint      `gorm:"primaryKey;column:id" json:"-"`
	Email     string    `gorm:"not null;uniqueIndex;column:email" json:"email"`
	CreatedAt time.Time `gorm:"not null;column:created_at" json:"created_at"`
}

func (EmailSubscription) TableName() string { return "email_subscription" }
