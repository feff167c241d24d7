package types

// ReplyVariant identifies which SMS reply the dialogue chose. Rendering to
// text happens at the edge (see replies.go); the decision logic only ever
// deals in variants.
type ReplyVariant int

const (
	ReplyNone ReplyVariant = iota // ignore the message entirely (no response body)
	ReplyAskName
	ReplyAskEmail
	ReplyRetryEmail
	ReplyForwardingInstructions
	ReplyForwardingReminder
	ReplyQrAccepted
	ReplyQrDeclined
	ReplyQrRetry
	ReplyNoIdea
	ReplyDisableInstructions
	ReplyUnknownCarrier
	ReplyWhitelistAdded
	ReplyWhitelistRetry
	ReplyResetAskName
	ReplyImportRefused
	ReplyImportRestored
	ReplyImportFailed
	ReplyForwardingConfirmedAskQr
	ReplyForwardingConfirmedDone
	ReplyContactInfo
)

// Command is one of the special first-token SMS commands.
type Command string

const (
	CommandDisable   Command = "disable"
	CommandWhitelist Command = "whitelist"
	CommandReset     Command = "reset"
)

// MailboxMutation describes the field updates a dialogue decision asks for.
// The zero value means "no mutation". Applying it is the caller's job; the
// decision itself never touches the store.
type MailboxMutation struct {
	SetName           *string
	SetEmail          *string
	SetQrPreference   *QrPreference
	AddWhitelist      *string
	ConfirmForwarding bool
	Reset             bool // delete the mailbox and restart onboarding
}

// IsZero reports whether the mutation changes anything.
func (mu MailboxMutation) IsZero() bool {
	return mu.SetName == nil && mu.SetEmail == nil && mu.SetQrPreference == nil &&
		mu.AddWhitelist == nil && !mu.ConfirmForwarding && !mu.Reset
}

// DialogueDecision is the outcome of running one inbound text through the
// onboarding state machine: which fields to update and which reply to send.
type DialogueDecision struct {
	Reply           ReplyVariant
	Mutation        MailboxMutation
	SendConfigImage bool // trigger the async config-image MMS
}
