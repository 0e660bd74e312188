package events

// Note Event Types
const (
	NoteCreated  = "NOTE_CREATED"
	NoteSigned   = "NOTE_SIGNED"
	NoteDeclined = "NOTE_DECLINED"
	NoteDeleted  = "NOTE_DELETED"
)

// Payment Event Types
const (
	PaymentPending   = "PAYMENT_PENDING"
	PaymentSucceeded = "PAYMENT_SUCCEEDED"
	PaymentFailed    = "PAYMENT_FAILED"
	FundsReceived    = "FUNDS_RECEIVED"
)

// Term Event Types
const (
	TermsChanged     = "TERMS_CHANGED"
	TermSheetCreated = "TERM_SHEET_CREATED"
)

// Kafka Topics
const (
	NoteActivityTopic    = "safe.note.activity"
	PaymentActivityTopic = "safe.payment.activity"
	TermChangesTopic     = "safe.term.changes"
)
