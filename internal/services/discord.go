package services

import (
	"context"

	types "github.com/losaltoshacks/registration-backend/internal/domain"
	"github.com/losaltoshacks/registration-backend/internal/normalization"
	"github.com/losaltoshacks/registration-backend/internal/platform/apierr"
)

// DiscordRole is what the community bot needs to assign a server role.
type DiscordRole struct {
	Role string `json:"role"`
	Name string `json:"name"`
}

type DiscordService interface {
	Lookup(ctx context.Context, email string) (*DiscordRole, error)
}

type discordService struct {
	attendees  RegistrantService[types.Attendee, *types.Attendee]
	mentors    RegistrantService[types.Mentor, *types.Mentor]
	chaperones RegistrantService[types.Chaperone, *types.Chaperone]
}

func NewDiscordService(
	attendees RegistrantService[types.Attendee, *types.Attendee],
	mentors RegistrantService[types.Mentor, *types.Mentor],
	chaperones RegistrantService[types.Chaperone, *types.Chaperone],
) DiscordService {
	return &discordService{attendees: attendees, mentors: mentors, chaperones: chaperones}
}

// Lookup resolves email to a role, preferring mentors, then chaperones,
// then attendees. Mentors and attendees must have verified their email.
func (s *discordService) Lookup(ctx context.Context, email string) (*DiscordRole, error) {
	email = normalization.ParseInputString(email)

	mentor, err := s.mentors.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if mentor != nil {
		if !mentor.EmailVerified {
			return nil, apierr.Validation("Email not verified")
		}
		return &DiscordRole{Role: "mentor", Name: mentor.Name}, nil
	}

	chaperone, err := s.chaperones.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if chaperone != nil {
		return &DiscordRole{Role: string(chaperone.Kind), Name: chaperone.Name}, nil
	}

	attendee, err := s.attendees.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if attendee != nil {
		if !attendee.EmailVerified {
			return nil, apierr.Validation("Email not verified")
		}
		return &DiscordRole{Role: "attendee", Name: attendee.FirstName + " " + attendee.Surname}, nil
	}
	return nil, apierr.Validation("Email not found in database")
}
