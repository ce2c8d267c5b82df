package app

import (
	"gorm.io/gorm"

	types "github.com/losaltoshacks/registration-backend/internal/domain"
	"github.com/losaltoshacks/registration-backend/internal/observability"
	"github.com/losaltoshacks/registration-backend/internal/platform/logger"
	"github.com/losaltoshacks/registration-backend/internal/services"
)

type Services struct {
	Auth         services.AuthService
	Attendee     services.RegistrantService[types.Attendee, *types.Attendee]
	Mentor       services.RegistrantService[types.Mentor, *types.Mentor]
	Guest        services.RegistrantService[types.Guest, *types.Guest]
	Chaperone    services.RegistrantService[types.Chaperone, *types.Chaperone]
	DayOf        services.DayOfService
	Waiver       services.WaiverService
	Subscription services.SubscriptionService
	Discord      services.DiscordService
}

func wireServices(
	db *gorm.DB,
	log *logger.Logger,
	cfg Config,
	reposet Repos,
	sender services.MailSender,
	metrics *observability.Metrics,
) Services {
	log.Info("Wiring services...")
	notifier := services.NewNotifier(log, sender, cfg.Mail.APIEndpoint, metrics)

	attendees := services.NewRegistrantService(db, log, services.AttendeeSchema, reposet.Attendee, reposet.EmailVerification, notifier, metrics)
	mentors := services.NewRegistrantService(db, log, services.MentorSchema, reposet.Mentor, reposet.EmailVerification, notifier, metrics)
	guests := services.NewRegistrantService(db, log, services.GuestSchema, reposet.Guest, reposet.EmailVerification, notifier, metrics)
	chaperones := services.NewRegistrantService(db, log, services.ChaperoneSchema, reposet.Chaperone, reposet.EmailVerification, notifier, metrics)

	return Services{
		Auth:         services.NewAuthService(log, cfg.Auth.JWTSecret, cfg.Auth.Domain, cfg.Auth.TokenTTL, cfg.Auth.Disabled),
		Attendee:     attendees,
		Mentor:       mentors,
		Guest:        guests,
		Chaperone:    chaperones,
		DayOf:        services.NewDayOfService(db, log, reposet.SignIn, metrics, attendees, mentors, guests, chaperones),
		Waiver:       services.NewWaiverService(db, log, reposet.WaiverReceipt, metrics, attendees, mentors, guests, chaperones),
		Subscription: services.NewSubscriptionService(log, reposet.EmailSubscription),
		Discord:      services.NewDiscordService(attendees, mentors, chaperones),
	}
}
