package handlers

import (
	types "github.com/losaltoshacks/registration-backend/internal/domain"
	"github.com/losaltoshacks/registration-backend/internal/domain/registrant"
	"github.com/losaltoshacks/registration-backend/internal/services"
)

type (
	AttendeeHandler  = RegistrantHandler[types.Attendee, *types.Attendee, registrant.AttendeeDelta, registrant.AttendeeFilter]
	MentorHandler    = RegistrantHandler[types.Mentor, *types.Mentor, registrant.MentorDelta, registrant.MentorFilter]
	GuestHandler     = RegistrantHandler[types.Guest, *types.Guest, registrant.GuestDelta, registrant.GuestInfoFilter]
	ChaperoneHandler = RegistrantHandler[types.Chaperone, *types.Chaperone, registrant.ChaperoneDelta, registrant.GuestInfoFilter]
)

func NewAttendeeHandler(svc services.RegistrantService[types.Attendee, *types.Attendee], redirect string) *AttendeeHandler {
	return NewRegistrantHandler[types.Attendee, *types.Attendee, registrant.AttendeeDelta, registrant.AttendeeFilter](svc, redirect)
}

func NewMentorHandler(svc services.RegistrantService[types.Mentor, *types.Mentor], redirect string) *MentorHandler {
	return NewRegistrantHandler[types.Mentor, *types.Mentor, registrant.MentorDelta, registrant.MentorFilter](svc, redirect)
}

// Guests and chaperones are added by organisers and never verify email.
func NewGuestHandler(svc services.RegistrantService[types.Guest, *types.Guest]) *GuestHandler {
	return NewRegistrantHandler[types.Guest, *types.Guest, registrant.GuestDelta, registrant.GuestInfoFilter](svc, "")
}

func NewChaperoneHandler(svc services.RegistrantService[types.Chaperone, *types.Chaperone]) *ChaperoneHandler {
	return NewRegistrantHandler[types.Chaperone, *types.Chaperone, registrant.ChaperoneDelta, registrant.GuestInfoFilter](svc, "")
}
