package registrant

import (
	"fmt"
	"strings"
)

// Kind names a registrant table and the label used in messages.
type Kind string

const (
	KindAttendee  Kind = "attendee"
	KindMentor    Kind = "mentor"
	KindGuest     Kind = "guest"
	KindChaperone Kind = "chaperone"
)

// Label is the capitalised kind used in user-facing messages.
func (k Kind) Label() string {
	s := string(k)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Entity is implemented by pointers to every registrant kind.
type Entity interface {
	Meta() *Version
	Sats() *Satellites
	ContactEmail() string
	// Normalize canonicalises client input in place.
	Normalize()
	// Validate checks the business rules a version must satisfy.
	Validate() error
	// WaiverEligible reports whether a signed waiver counts for this
	// registrant given whether a guardian also signed.
	WaiverEligible(guardianSigned bool) bool
	HasSignedWaiver() bool
	SetSignedWaiver(signed bool)
	// ResetPrivileged clears the fields only organisers may set.
	ResetPrivileged()
}

// Record constrains a generic parameter to *T implementing Entity.
type Record[T any] interface {
	*T
	Entity
}

// Delta is a partial update. Apply returns the clone-with-overrides of cur
// and whether any field actually differs.
type Delta[T any] interface {
	Apply(cur T) (next T, changed bool)
	// VerifiedOverride is the requested email verification flag, if any.
	VerifiedOverride() *bool
}

// ErrGuardianRequired is returned by Validate for minors without a guardian.
var ErrGuardianRequired = fmt.Errorf("guardian information required")

func set[V comparable](dst *V, src *V, changed *bool) {
	if src == nil || *dst == *src {
		return
	}
	*dst = *src
	*changed = true
}

func setOpt[V comparable](dst **V, src *V, changed *bool) {
	if src == nil {
		return
	}
	if *dst != nil && **dst == *src {
		return
	}
	v := *src
	*dst = &v
	*changed = true
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}
