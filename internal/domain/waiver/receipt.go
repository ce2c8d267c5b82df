package waiver

import (
	"time"

	"gorm.io/datatypes"
)

// Receipt is the audit row kept for every accepted envelope callback.
type Receipt struct {
	ID             uint           `gorm:"primaryKey;column:id" json:"id"`
	EnvelopeID     string         `gorm:"column:envelope_id;index" json:"envelope_id"`
	EnvelopeStatus string         `gorm:"column:envelope_status" json:"envelope_status"`
	SignerEmail    string         `gorm:"not null;index;column:signer_email" json:"signer_email"`
	GuardianEmail  *string        `gorm:"column:guardian_email" json:"guardian_email,omitempty"`
	Matches        datatypes.JSON `gorm:"column:matches" json:"matches"`
	ReceivedAt     time.Time      `gorm:"not null;column:received_at" json:"received_at"`
}

func (Receipt) TableName() string { return "waiver_receipt" }

// Match is one registrant the callback resolved to.
type Match struct {
	Kind       string `json:"kind"`
	ExternalID string `json:"id"`
	Signed     bool   `json:"signed"`
}
