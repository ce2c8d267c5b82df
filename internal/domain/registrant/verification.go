package registrant

import (
	"github.com/google/uuid"
)

// EmailVerification is the satellite row proving a registrant owns their
// address. It is shared by every version of the record that points at it.
type EmailVerification struct {
	ID         uint      `gorm:"primaryKey;column:id" json:"-"`
	ExternalID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex;column:external_id" json:"id"`
	Email      string    `gorm:"not null;column:email" json:"email"`
	Token      string    `gorm:"not null;column:email_token" json:"-"`
	Verified   bool      `gorm:"not null;default:false;column:verified" json:"verified"`
}

func (EmailVerification) TableName() string { return "email_verification" }

func NewEmailVerification(email string) *EmailVerification {
	return &EmailVerification{
		ExternalID: uuid.New(),
		Email:      email,
		Token:      uuid.NewString(),
	}
}
