package registrant

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

type OutdatedMode int

const (
	// OutdatedCurrent matches only current versions (the default).
	OutdatedCurrent OutdatedMode = iota
	// OutdatedOnly matches only superseded versions.
	OutdatedOnly
	// OutdatedAny matches every version.
	OutdatedAny
)

// OutdatedFilter decodes the `outdated` search field: absent or false,
// true, or the wildcard "*".
type OutdatedFilter struct {
	Mode OutdatedMode
	Set  bool
}

func (f *OutdatedFilter) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch string(b) {
	case "null":
		*f = OutdatedFilter{}
	case "true":
		*f = OutdatedFilter{Mode: OutdatedOnly, Set: true}
	case "false":
		*f = OutdatedFilter{Mode: OutdatedCurrent, Set: true}
	default:
		var s string
		if err := json.Unmarshal(b, &s); err != nil || s != "*" {
			return fmt.Errorf("outdated must be a boolean or \"*\"")
		}
		*f = OutdatedFilter{Mode: OutdatedAny, Set: true}
	}
	return nil
}

// Filter is a structured search over one kind.
type Filter interface {
	// Conditions maps column names to required values.
	Conditions() map[string]any
	OutdatedMode() OutdatedMode
	// EmailVerifiedFilter is applied after rows are loaded.
	EmailVerifiedFilter() *bool
}

// Common holds the filter fields shared by every kind.
type Common struct {
	ID            *string        `json:"id"`
	Email         *string        `json:"email"`
	SignedWaiver  *bool          `json:"signed_waiver"`
	Outdated      OutdatedFilter `json:"outdated"`
	EmailVerified *bool          `json:"email_verified"`
}

func (c Common) OutdatedMode() OutdatedMode  { return c.Outdated.Mode }
func (c Common) EmailVerifiedFilter() *bool { return c.EmailVerified }

func (c Common) conditions() map[string]any {
	m := map[string]any{}
	if c.ID != nil {
		// An unparseable id can never match; uuid.Nil is never assigned.
		id, err := uuid.Parse(strings.TrimSpace(*c.ID))
		if err != nil {
			id = uuid.Nil
		}
		m["external_id"] = id
	}
	if c.Email != nil {
		m["email"] = strings.ToLower(strings.TrimSpace(*c.Email))
	}
	cond(m, "signed_waiver", c.SignedWaiver)
	return m
}

func cond[V any](m map[string]any, col string, v *V) {
	if v != nil {
		m[col] = *v
	}
}
