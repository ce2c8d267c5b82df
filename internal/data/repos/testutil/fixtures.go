package testutil

import (
	"testing"
	"time"

	"gorm.io/gorm"

	types "github.com/losaltoshacks/registration-backend/internal/domain"
	"github.com/losaltoshacks/registration-backend/internal/domain/registrant"
)

func strp(s string) *string { return &s }
func boolp(b bool) *bool    { return &b }

// NewAttendee returns an adult attendee that passes validation.
func NewAttendee(email string) *types.Attendee {
	return &types.Attendee{
		FirstName:          "Ada",
		Surname:            "Lovelace",
		Email:              email,
		Age:                18,
		School:             "Los Altos High School",
		Grade:              12,
		StudentPhoneNumber: "650-555-0100",
		Gender:             "female",
		TShirtSize:         registrant.TShirtM,
		AcceptanceStatus:   registrant.AcceptanceNone,
	}
}

// NewMinor returns a 16 year old attendee with complete guardian details.
func NewMinor(email string) *types.Attendee {
	a := NewAttendee(email)
	a.Age = 16
	a.Grade = 10
	a.GuardianName = strp("Grace Hopper")
	a.GuardianEmail = strp("guardian@example.com")
	a.GuardianPhoneNumber = strp("650-555-0199")
	return a
}

func NewMentor(email string, over18 bool) *types.Mentor {
	return &types.Mentor{
		Name:             "Linus",
		Phone:            "650-555-0110",
		Email:            email,
		Over18:           boolp(over18),
		Skillset:         strp("go, postgres"),
		TShirtSize:       registrant.TShirtL,
		AcceptanceStatus: registrant.AcceptanceNone,
	}
}

func NewGuest(email string) *types.Guest {
	g := &types.Guest{}
	g.GuestInfo = registrant.GuestInfo{Name: "Sam Sponsor", Email: email, Kind: registrant.GuestSponsor}
	return g
}

func NewChaperone(email string) *types.Chaperone {
	c := &types.Chaperone{}
	c.GuestInfo = registrant.GuestInfo{Name: "Casey", Email: email, Kind: registrant.GuestChaperone, Phone: strp("650-555-0120")}
	return c
}

// SeedVersion inserts row directly as a fresh current version.
func SeedVersion[T any, P registrant.Record[T]](tb testing.TB, gdb *gorm.DB, row P) P {
	tb.Helper()
	row.Meta().Fresh(time.Now())
	if err := gdb.Create(row).Error; err != nil {
		tb.Fatalf("seed version: %v", err)
	}
	return row
}
