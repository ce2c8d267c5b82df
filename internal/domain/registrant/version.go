package registrant

import (
	"time"

	"github.com/google/uuid"
)

// Version is the metadata every versioned row carries. Rows sharing an
// ExternalID form one record's history; at most one of them is current.
type Version struct {
	ID         uint      `gorm:"primaryKey;column:id" json:"-"`
	ExternalID uuid.UUID `gorm:"type:uuid;not null;index;column:external_id" json:"id"`
	Outdated   bool      `gorm:"not null;default:false;index;column:outdated" json:"outdated"`
	Timestamp  time.Time `gorm:"not null;column:timestamp" json:"timestamp"`
}

func (v *Version) Meta() *Version { return v }

// Successor resets v to describe the version that replaces prev: same
// external id, a fresh row id, current, and a timestamp strictly after prev.
func (v *Version) Successor(prev Version, now time.Time) {
	v.ID = 0
	v.ExternalID = prev.ExternalID
	v.Outdated = false
	v.Timestamp = NextTimestamp(prev.Timestamp, now)
}

// Fresh resets v for a brand new record.
func (v *Version) Fresh(now time.Time) {
	v.ID = 0
	v.ExternalID = uuid.New()
	v.Outdated = false
	v.Timestamp = now.UTC().Truncate(time.Microsecond)
}

// NextTimestamp returns now, or prev+1µs when the clock has not advanced.
// Microseconds because that is the finest resolution postgres keeps.
func NextTimestamp(prev, now time.Time) time.Time {
	now = now.UTC().Truncate(time.Microsecond)
	if !now.After(prev) {
		return prev.UTC().Truncate(time.Microsecond).Add(time.Microsecond)
	}
	return now
}

// Satellites holds the foreign keys to the 1:1 side tables. They are
// carried unchanged from one version to the next.
type Satellites struct {
	EmailVerificationID *uint `gorm:"column:email_verification_id;index" json:"-"`
	SignInID            *uint `gorm:"column:sign_in_id;index" json:"-"`

	EmailVerified bool `gorm:"-" json:"email_verified"`
	SignedIn      bool `gorm:"-" json:"signed_in"`
}

func (s *Satellites) Sats() *Satellites { return s }

// CarryFrom copies the foreign keys from the previous version.
func (s *Satellites) CarryFrom(prev Satellites) {
	s.EmailVerificationID = prev.EmailVerificationID
	s.SignInID = prev.SignInID
}

// Clear drops foreign keys and computed flags, e.g. on input from clients.
func (s *Satellites) Clear() {
	*s = Satellites{}
}
