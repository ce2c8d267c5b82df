package services

import "github.com/losaltoshacks/registration-backend/internal/domain/registrant"

var guestTextColumns = []string{"name", "email", "phone"}

var (
	AttendeeSchema = Schema{
		Kind:        registrant.KindAttendee,
		RoutePrefix: "/registration/v1",
		TextColumns: []string{
			"first_name", "surname", "email", "student_phone_number",
			"guardian_name", "guardian_email", "guardian_phone_number",
		},
		Verifies: true,
	}
	MentorSchema = Schema{
		Kind:        registrant.KindMentor,
		RoutePrefix: "/mentor/v1",
		TextColumns: []string{"name", "email", "phone"},
		Verifies:    true,
	}
	GuestSchema = Schema{
		Kind:        registrant.KindGuest,
		RoutePrefix: "/guest/v1",
		TextColumns: guestTextColumns,
	}
	ChaperoneSchema = Schema{
		Kind:        registrant.KindChaperone,
		RoutePrefix: "/chaperone/v1",
		TextColumns: guestTextColumns,
	}
)
