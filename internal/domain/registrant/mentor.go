package registrant

import "strings"

type Mentor struct {
	Version

	Name                string           `gorm:"not null;column:name" json:"name" binding:"required"`
	Phone               string           `gorm:"not null;column:phone" json:"phone" binding:"required"`
	Email               string           `gorm:"not null;index;column:email" json:"email" binding:"required,email"`
	Over18              *bool            `gorm:"not null;column:over_18" json:"over_18" binding:"required"`
	Skillset            *string          `gorm:"column:skillset" json:"skillset"`
	TShirtSize          TShirtSize       `gorm:"not null;column:tshirt_size" json:"tshirt_size" binding:"required,oneof=S M L XL"`
	DietaryRestrictions *string          `gorm:"column:dietary_restrictions" json:"dietary_restrictions"`
	SignedWaiver        bool             `gorm:"not null;default:false;column:signed_waiver" json:"signed_waiver"`
	AcceptanceStatus    AcceptanceStatus `gorm:"not null;default:'none';column:acceptance_status" json:"acceptance_status" binding:"omitempty,oneof=none waitlist_queue waitlisted rejected queue accepted"`

	Satellites
}

func (Mentor) TableName() string { return "mentor" }

func (m *Mentor) ContactEmail() string { return m.Email }

func (m *Mentor) Normalize() {
	m.Email = strings.ToLower(strings.TrimSpace(m.Email))
	m.Name = strings.TrimSpace(m.Name)
	if m.AcceptanceStatus == "" {
		m.AcceptanceStatus = AcceptanceNone
	}
}

func (m *Mentor) Validate() error { return nil }

func (m *Mentor) IsAdult() bool { return m.Over18 != nil && *m.Over18 }

func (m *Mentor) WaiverEligible(guardianSigned bool) bool {
	return m.IsAdult() || guardianSigned
}

func (m *Mentor) HasSignedWaiver() bool { return m.SignedWaiver }

func (m *Mentor) SetSignedWaiver(signed bool) { m.SignedWaiver = signed }

func (m *Mentor) ResetPrivileged() {
	m.SignedWaiver = false
	m.AcceptanceStatus = AcceptanceNone
}

type MentorDelta struct {
	Name                *string           `json:"name" binding:"omitempty,min=1"`
	Phone               *string           `json:"phone" binding:"omitempty,min=1"`
	Email               *string           `json:"email" binding:"omitempty,email"`
	Over18              *bool             `json:"over_18"`
	Skillset            *string           `json:"skillset" binding:"omitempty,min=1"`
	TShirtSize          *TShirtSize       `json:"tshirt_size" binding:"omitempty,oneof=S M L XL"`
	DietaryRestrictions *string           `json:"dietary_restrictions"`
	SignedWaiver        *bool             `json:"signed_waiver"`
	AcceptanceStatus    *AcceptanceStatus `json:"acceptance_status" binding:"omitempty,oneof=none waitlist_queue waitlisted rejected queue accepted"`
	EmailVerified       *bool             `json:"email_verified"`
}

func (d MentorDelta) VerifiedOverride() *bool { return d.EmailVerified }

func (d MentorDelta) Apply(cur Mentor) (Mentor, bool) {
	next := cur
	changed := false
	set(&next.Name, trimPtr(d.Name), &changed)
	set(&next.Phone, d.Phone, &changed)
	set(&next.Email, lowerPtr(d.Email), &changed)
	setOpt(&next.Over18, d.Over18, &changed)
	setOpt(&next.Skillset, d.Skillset, &changed)
	set(&next.TShirtSize, d.TShirtSize, &changed)
	setOpt(&next.DietaryRestrictions, d.DietaryRestrictions, &changed)
	set(&next.SignedWaiver, d.SignedWaiver, &changed)
	set(&next.AcceptanceStatus, d.AcceptanceStatus, &changed)
	return next, changed
}

type MentorFilter struct {
	Common
	Name                *string           `json:"name"`
	Phone               *string           `json:"phone"`
	Over18              *bool             `json:"over_18"`
	Skillset            *string           `json:"skillset"`
	TShirtSize          *TShirtSize       `json:"tshirt_size"`
	DietaryRestrictions *string           `json:"dietary_restrictions"`
	AcceptanceStatus    *AcceptanceStatus `json:"acceptance_status"`
}

func (f MentorFilter) Conditions() map[string]any {
	m := f.Common.conditions()
	cond(m, "name", f.Name)
	cond(m, "phone", f.Phone)
	cond(m, "over_18", f.Over18)
	cond(m, "skillset", f.Skillset)
	cond(m, "tshirt_size", f.TShirtSize)
	cond(m, "dietary_restrictions", f.DietaryRestrictions)
	cond(m, "acceptance_status", f.AcceptanceStatus)
	return m
}
