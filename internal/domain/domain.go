package domain

import (
	"github.com/losaltoshacks/registration-backend/internal/domain/dayof"
	"github.com/losaltoshacks/registration-backend/internal/domain/registrant"
	"github.com/losaltoshacks/registration-backend/internal/domain/subscription"
	"github.com/losaltoshacks/registration-backend/internal/domain/waiver"
)

type (
	Attendee          = registrant.Attendee
	Mentor            = registrant.Mentor
	Guest             = registrant.Guest
	Chaperone         = registrant.Chaperone
	EmailVerification = registrant.EmailVerification
	SignIn            = dayof.SignIn
	EmailSubscription = subscription.EmailSubscription
	WaiverReceipt     = waiver.Receipt
)

// Models lists every table, in migration order.
func Models() []any {
	return []any{
		&EmailVerification{},
		&SignIn{},
		&Attendee{},
		&Mentor{},
		&Guest{},
		&Chaperone{},
		&EmailSubscription{},
		&WaiverReceipt{},
	}
}
