package registrant

import (
	"strings"
)

// Attendee is one version of a student's hackathon signup.
type Attendee struct {
	Version

	FirstName           string           `gorm:"not null;column:first_name" json:"first_name" binding:"required"`
	Surname             string           `gorm:"not null;column:surname" json:"surname" binding:"required"`
	Email               string           `gorm:"not null;index;column:email" json:"email" binding:"required,email"`
	Age                 int              `gorm:"not null;column:age" json:"age" binding:"required,min=1,max=120"`
	School              string           `gorm:"not null;column:school" json:"school" binding:"required"`
	Grade               int              `gorm:"not null;column:grade" json:"grade" binding:"required"`
	StudentPhoneNumber  string           `gorm:"not null;column:student_phone_number" json:"student_phone_number" binding:"required"`
	Gender              string           `gorm:"not null;column:gender" json:"gender" binding:"required"`
	Ethnicity           *string          `gorm:"column:ethnicity" json:"ethnicity"`
	TShirtSize          TShirtSize       `gorm:"not null;column:tshirt_size" json:"tshirt_size" binding:"required,oneof=S M L XL"`
	PreviousHackathons  int              `gorm:"not null;default:0;column:previous_hackathons" json:"previous_hackathons" binding:"min=0"`
	GuardianName        *string          `gorm:"column:guardian_name" json:"guardian_name"`
	GuardianEmail       *string          `gorm:"column:guardian_email" json:"guardian_email" binding:"omitempty,email"`
	GuardianPhoneNumber *string          `gorm:"column:guardian_phone_number" json:"guardian_phone_number"`
	GithubUsername      *string          `gorm:"column:github_username" json:"github_username"`
	LinkedinProfile     *string          `gorm:"column:linkedin_profile" json:"linkedin_profile"`
	DietaryRestrictions *string          `gorm:"column:dietary_restrictions" json:"dietary_restrictions"`
	SignedWaiver        bool             `gorm:"not null;default:false;column:signed_waiver" json:"signed_waiver"`
	AcceptanceStatus    AcceptanceStatus `gorm:"not null;default:'none';column:acceptance_status" json:"acceptance_status" binding:"omitempty,oneof=none waitlist_queue waitlisted rejected queue accepted"`

	Satellites
}

func (Attendee) TableName() string { return "attendee" }

func (a *Attendee) ContactEmail() string { return a.Email }

func (a *Attendee) Normalize() {
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	a.FirstName = strings.TrimSpace(a.FirstName)
	a.Surname = strings.TrimSpace(a.Surname)
	if a.GuardianEmail != nil {
		v := strings.ToLower(strings.TrimSpace(*a.GuardianEmail))
		a.GuardianEmail = &v
	}
	if a.AcceptanceStatus == "" {
		a.AcceptanceStatus = AcceptanceNone
	}
}

// Validate requires guardian contact details for attendees under 18.
func (a *Attendee) Validate() error {
	if a.Age < 18 && (blank(a.GuardianName) || blank(a.GuardianEmail) || blank(a.GuardianPhoneNumber)) {
		return ErrGuardianRequired
	}
	return nil
}

func (a *Attendee) WaiverEligible(guardianSigned bool) bool {
	return a.Age >= 18 || guardianSigned
}

func (a *Attendee) HasSignedWaiver() bool { return a.SignedWaiver }

func (a *Attendee) SetSignedWaiver(signed bool) { a.SignedWaiver = signed }

func (a *Attendee) ResetPrivileged() {
	a.SignedWaiver = false
	a.AcceptanceStatus = AcceptanceNone
}

type AttendeeDelta struct {
	FirstName           *string           `json:"first_name" binding:"omitempty,min=1"`
	Surname             *string           `json:"surname" binding:"omitempty,min=1"`
	Email               *string           `json:"email" binding:"omitempty,email"`
	Age                 *int              `json:"age" binding:"omitempty,min=1,max=120"`
	School              *string           `json:"school" binding:"omitempty,min=1"`
	Grade               *int              `json:"grade"`
	StudentPhoneNumber  *string           `json:"student_phone_number" binding:"omitempty,min=1"`
	Gender              *string           `json:"gender" binding:"omitempty,min=1"`
	Ethnicity           *string           `json:"ethnicity"`
	TShirtSize          *TShirtSize       `json:"tshirt_size" binding:"omitempty,oneof=S M L XL"`
	PreviousHackathons  *int              `json:"previous_hackathons" binding:"omitempty,min=0"`
	GuardianName        *string           `json:"guardian_name"`
	GuardianEmail       *string           `json:"guardian_email" binding:"omitempty,email"`
	GuardianPhoneNumber *string           `json:"guardian_phone_number"`
	GithubUsername      *string           `json:"github_username"`
	LinkedinProfile     *string           `json:"linkedin_profile"`
	DietaryRestrictions *string           `json:"dietary_restrictions"`
	SignedWaiver        *bool             `json:"signed_waiver"`
	AcceptanceStatus    *AcceptanceStatus `json:"acceptance_status" binding:"omitempty,oneof=none waitlist_queue waitlisted rejected queue accepted"`
	EmailVerified       *bool             `json:"email_verified"`
}

func (d AttendeeDelta) VerifiedOverride() *bool { return d.EmailVerified }

func (d AttendeeDelta) Apply(cur Attendee) (Attendee, bool) {
	next := cur
	changed := false
	set(&next.FirstName, trimPtr(d.FirstName), &changed)
	set(&next.Surname, trimPtr(d.Surname), &changed)
	set(&next.Email, lowerPtr(d.Email), &changed)
	set(&next.Age, d.Age, &changed)
	set(&next.School, d.School, &changed)
	set(&next.Grade, d.Grade, &changed)
	set(&next.StudentPhoneNumber, d.StudentPhoneNumber, &changed)
	set(&next.Gender, d.Gender, &changed)
	setOpt(&next.Ethnicity, d.Ethnicity, &changed)
	set(&next.TShirtSize, d.TShirtSize, &changed)
	set(&next.PreviousHackathons, d.PreviousHackathons, &changed)
	setOpt(&next.GuardianName, d.GuardianName, &changed)
	setOpt(&next.GuardianEmail, lowerPtr(d.GuardianEmail), &changed)
	setOpt(&next.GuardianPhoneNumber, d.GuardianPhoneNumber, &changed)
	setOpt(&next.GithubUsername, d.GithubUsername, &changed)
	setOpt(&next.LinkedinProfile, d.LinkedinProfile, &changed)
	setOpt(&next.DietaryRestrictions, d.DietaryRestrictions, &changed)
	set(&next.SignedWaiver, d.SignedWaiver, &changed)
	set(&next.AcceptanceStatus, d.AcceptanceStatus, &changed)
	return next, changed
}

type AttendeeFilter struct {
	Common
	FirstName           *string           `json:"first_name"`
	Surname             *string           `json:"surname"`
	Age                 *int              `json:"age"`
	School              *string           `json:"school"`
	Grade               *int              `json:"grade"`
	StudentPhoneNumber  *string           `json:"student_phone_number"`
	Gender              *string           `json:"gender"`
	Ethnicity           *string           `json:"ethnicity"`
	TShirtSize          *TShirtSize       `json:"tshirt_size"`
	PreviousHackathons  *int              `json:"previous_hackathons"`
	GuardianName        *string           `json:"guardian_name"`
	GuardianEmail       *string           `json:"guardian_email"`
	GuardianPhoneNumber *string           `json:"guardian_phone_number"`
	GithubUsername      *string           `json:"github_username"`
	LinkedinProfile     *string           `json:"linkedin_profile"`
	DietaryRestrictions *string           `json:"dietary_restrictions"`
	AcceptanceStatus    *AcceptanceStatus `json:"acceptance_status"`
}

func (f AttendeeFilter) Conditions() map[string]any {
	m := f.Common.conditions()
	cond(m, "first_name", f.FirstName)
	cond(m, "surname", f.Surname)
	cond(m, "age", f.Age)
	cond(m, "school", f.School)
	cond(m, "grade", f.Grade)
	cond(m, "student_phone_number", f.StudentPhoneNumber)
	cond(m, "gender", f.Gender)
	cond(m, "ethnicity", f.Ethnicity)
	cond(m, "tshirt_size", f.TShirtSize)
	cond(m, "previous_hackathons", f.PreviousHackathons)
	cond(m, "guardian_name", f.GuardianName)
	cond(m, "guardian_email", lowerPtr(f.GuardianEmail))
	cond(m, "guardian_phone_number", f.GuardianPhoneNumber)
	cond(m, "github_username", f.GithubUsername)
	cond(m, "linkedin_profile", f.LinkedinProfile)
	cond(m, "dietary_restrictions", f.DietaryRestrictions)
	cond(m, "acceptance_status", f.AcceptanceStatus)
	return m
}

func lowerPtr(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.ToLower(strings.TrimSpace(*s))
	return &v
}
