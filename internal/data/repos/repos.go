package repos

import (
	"gorm.io/gorm"

	"github.com/losaltoshacks/registration-backend/internal/data/repos/dayof"
	"github.com/losaltoshacks/registration-backend/internal/data/repos/subscription"
	"github.com/losaltoshacks/registration-backend/internal/data/repos/versioned"
	"github.com/losaltoshacks/registration-backend/internal/data/repos/waiver"
	types "github.com/losaltoshacks/registration-backend/internal/domain"
	"github.com/losaltoshacks/registration-backend/internal/platform/logger"
)

type AttendeeRepo = versioned.Repo[types.Attendee, *types.Attendee]
type MentorRepo = versioned.Repo[types.Mentor, *types.Mentor]
type GuestRepo = versioned.Repo[types.Guest, *types.Guest]
type ChaperoneRepo = versioned.Repo[types.Chaperone, *types.Chaperone]

type EmailVerificationRepo = versioned.EmailVerificationRepo
type SignInRepo = dayof.SignInRepo
type EmailSubscriptionRepo = subscription.EmailSubscriptionRepo
type WaiverReceiptRepo = waiver.ReceiptRepo

func NewAttendeeRepo(db *gorm.DB, baseLog *logger.Logger) AttendeeRepo {
	return versioned.NewRepo[types.Attendee](db, baseLog, "AttendeeRepo")
}

func NewMentorRepo(db *gorm.DB, baseLog *logger.Logger) MentorRepo {
	return versioned.NewRepo[types.Mentor](db, baseLog, "MentorRepo")
}

func NewGuestRepo(db *gorm.DB, baseLog *logger.Logger) GuestRepo {
	return versioned.NewRepo[types.Guest](db, baseLog, "GuestRepo")
}

func NewChaperoneRepo(db *gorm.DB, baseLog *logger.Logger) ChaperoneRepo {
	return versioned.NewRepo[types.Chaperone](db, baseLog, "ChaperoneRepo")
}

func NewEmailVerificationRepo(db *gorm.DB, baseLog *logger.Logger) EmailVerificationRepo {
	return versioned.NewEmailVerificationRepo(db, baseLog)
}

func NewSignInRepo(db *gorm.DB, baseLog *logger.Logger) SignInRepo {
	return dayof.NewSignInRepo(db, baseLog)
}

func NewEmailSubscriptionRepo(db *gorm.DB, baseLog *logger.Logger) EmailSubscriptionRepo {
	return subscription.NewEmailSubscriptionRepo(db, baseLog)
}

func NewWaiverReceiptRepo(db *gorm.DB, baseLog *logger.Logger) WaiverReceiptRepo {
	return waiver.NewReceiptRepo(db, baseLog)
}
