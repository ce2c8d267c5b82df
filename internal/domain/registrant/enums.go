package registrant

type TShirtSize string

const (
	TShirtS  TShirtSize = "S"
	TShirtM  TShirtSize = "M"
	TShirtL  TShirtSize = "L"
	TShirtXL TShirtSize = "XL"
)

type AcceptanceStatus string

const (
	AcceptanceNone          AcceptanceStatus = "none"
	AcceptanceWaitlistQueue AcceptanceStatus = "waitlist_queue"
	AcceptanceWaitlisted    AcceptanceStatus = "waitlisted"
	AcceptanceRejected      AcceptanceStatus = "rejected"
	AcceptanceQueue         AcceptanceStatus = "queue"
	AcceptanceAccepted      AcceptanceStatus = "accepted"
)

// GuestKind is the role a guest or chaperone attends under.
type GuestKind string

const (
	GuestSponsor   GuestKind = "sponsor"
	GuestChaperone GuestKind = "chaperone"
	GuestJudge     GuestKind = "judge"
)
