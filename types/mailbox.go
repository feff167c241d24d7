package types

// QrPreference is the mailbox owner's answer to the config-image question
type QrPreference string

const (
	QrPreferenceUnset    QrPreference = ""
	QrPreferenceAccepted QrPreference = "accepted"
	QrPreferenceDeclined QrPreference = "declined"
)

// OnboardingStep is derived from which mailbox fields are still unset.
// It is never stored; the order of the constants is the order of the dialogue.
type OnboardingStep int

const (
	StepName OnboardingStep = iota
	StepEmail
	StepForwarding
	StepQrPreference
	StepIdle // fully onboarded
)

// Mailbox is the single onboarded user's configuration record.
// The system is single-tenant: at most one mailbox exists at any time.
type Mailbox struct {
	UnderscoreID  string `json:"_id,omitempty"`
	UnderscoreRev string `json:"_rev,omitempty"`

	PhoneNumber             string       `json:"phoneNumber" validate:"required"` // canonical E.164, immutable after creation
	Carrier                 string       `json:"carrier,omitempty"`               // resolved once at creation, never re-resolved
	Name                    string       `json:"name,omitempty"`
	Email                   string       `json:"email,omitempty"`
	CallForwardingConfirmed bool         `json:"callForwardingConfirmed"`
	QrCodePreference        QrPreference `json:"qrCodePreference,omitempty"`
	Whitelist               []string     `json:"whitelist,omitempty"` // E.164 numbers exempt from screening
	Created                 int64        `json:"created,omitempty"`
	Modified                int64        `json:"modified,omitempty"`
}

// Step computes the current onboarding step from the unset fields, in fixed order.
func (m *Mailbox) Step() OnboardingStep {
	if m.Name == "" {
		return StepName
	}
	if m.Email == "" {
		return StepEmail
	}
	if !m.CallForwardingConfirmed {
		return StepForwarding
	}
	if m.QrCodePreference == QrPreferenceUnset {
		return StepQrPreference
	}
	return StepIdle
}

// IsWhitelisted reports whether number is exempt from screening.
func (m *Mailbox) IsWhitelisted(number string) bool {
	for _, n := range m.Whitelist {
		if n == number {
			return true
		}
	}
	return false
}

// AddToWhitelist adds number to the whitelist. Set union, idempotent.
func (m *Mailbox) AddToWhitelist(number string) {
	if m.IsWhitelisted(number) {
		return
	}
	m.Whitelist = append(m.Whitelist, number)
}
