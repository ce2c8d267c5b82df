package registrant

import "strings"

// GuestInfo is the field set shared by guests and chaperones.
type GuestInfo struct {
	Name         string    `gorm:"not null;column:name" json:"name" binding:"required"`
	Phone        *string   `gorm:"column:phone" json:"phone"`
	Email        string    `gorm:"not null;index;column:email" json:"email" binding:"required,email"`
	Kind         GuestKind `gorm:"not null;column:kind" json:"kind" binding:"required,oneof=sponsor chaperone judge"`
	SignedWaiver bool      `gorm:"not null;default:false;column:signed_waiver" json:"signed_waiver"`
}

func (g *GuestInfo) ContactEmail() string { return g.Email }

func (g *GuestInfo) Normalize() {
	g.Email = strings.ToLower(strings.TrimSpace(g.Email))
	g.Name = strings.TrimSpace(g.Name)
}

func (g *GuestInfo) Validate() error { return nil }

// Guests and chaperones are adults; their own signature always suffices.
func (g *GuestInfo) WaiverEligible(bool) bool { return true }

func (g *GuestInfo) HasSignedWaiver() bool { return g.SignedWaiver }

func (g *GuestInfo) SetSignedWaiver(signed bool) { g.SignedWaiver = signed }

func (g *GuestInfo) ResetPrivileged() { g.SignedWaiver = false }

// Guest is a sponsor, judge or visiting chaperone added by organisers.
type Guest struct {
	Version
	GuestInfo
	Satellites
}

func (Guest) TableName() string { return "guest" }

// Chaperone is an adult accompanying attendees from a school.
type Chaperone struct {
	Version
	GuestInfo
	Satellites
}

func (Chaperone) TableName() string { return "chaperone" }

type GuestInfoDelta struct {
	Name         *string    `json:"name" binding:"omitempty,min=1"`
	Phone        *string    `json:"phone"`
	Email        *string    `json:"email" binding:"omitempty,email"`
	Kind         *GuestKind `json:"kind" binding:"omitempty,oneof=sponsor chaperone judge"`
	SignedWaiver *bool      `json:"signed_waiver"`
}

func (d GuestInfoDelta) apply(cur GuestInfo) (GuestInfo, bool) {
	next := cur
	changed := false
	set(&next.Name, trimPtr(d.Name), &changed)
	setOpt(&next.Phone, d.Phone, &changed)
	set(&next.Email, lowerPtr(d.Email), &changed)
	set(&next.Kind, d.Kind, &changed)
	set(&next.SignedWaiver, d.SignedWaiver, &changed)
	return next, changed
}

// Neither guests nor chaperones carry email verification.
func (d GuestInfoDelta) VerifiedOverride() *bool { return nil }

type GuestDelta struct{ GuestInfoDelta }

func (d GuestDelta) Apply(cur Guest) (Guest, bool) {
	info, changed := d.apply(cur.GuestInfo)
	cur.GuestInfo = info
	return cur, changed
}

type ChaperoneDelta struct{ GuestInfoDelta }

func (d ChaperoneDelta) Apply(cur Chaperone) (Chaperone, bool) {
	info, changed := d.apply(cur.GuestInfo)
	cur.GuestInfo = info
	return cur, changed
}

type GuestInfoFilter struct {
	Common
	Name  *string    `json:"name"`
	Phone *string    `json:"phone"`
	Kind  *GuestKind `json:"kind"`
}

func (f GuestInfoFilter) Conditions() map[string]any {
	m := f.Common.conditions()
	cond(m, "name", f.Name)
	cond(m, "phone", f.Phone)
	cond(m, "kind", f.Kind)
	return m
}
