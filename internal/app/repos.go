package app

import (
	"gorm.io/gorm"

	"github.com/losaltoshacks/registration-backend/internal/data/repos"
	"github.com/losaltoshacks/registration-backend/internal/platform/logger"
)

type Repos struct {
	Attendee          repos.AttendeeRepo
	Mentor            repos.MentorRepo
	Guest             repos.GuestRepo
	Chaperone         repos.ChaperoneRepo
	EmailVerification repos.EmailVerificationRepo
	SignIn            repos.SignInRepo
	EmailSubscription repos.EmailSubscriptionRepo
	WaiverReceipt     repos.WaiverReceiptRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Attendee:          repos.NewAttendeeRepo(db, log),
		Mentor:            repos.NewMentorRepo(db, log),
		Guest:             repos.NewGuestRepo(db, log),
		Chaperone:         repos.NewChaperoneRepo(db, log),
		EmailVerification: repos.NewEmailVerificationRepo(db, log),
		SignIn:            repos.NewSignInRepo(db, log),
		EmailSubscription: repos.NewEmailSubscriptionRepo(db, log),
		WaiverReceipt:     repos.NewWaiverReceiptRepo(db, log),
	}
}
