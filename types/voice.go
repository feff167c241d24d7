package types

// VoiceAction is the terminal decision for an incoming call.
type VoiceAction int

const (
	// VoiceActionMisconfigured ends the call with an apology (no mailbox or no email yet)
	VoiceActionMisconfigured VoiceAction = iota
	// VoiceActionRedirectToRecord skips screening and goes straight to voicemail recording
	VoiceActionRedirectToRecord
	// VoiceActionScreenAndOfferText tells a mobile caller a contact-info text is on its way
	VoiceActionScreenAndOfferText
	// VoiceActionScreenAndRecord suggests text/email but gates voicemail behind a single digit
	VoiceActionScreenAndRecord
)

func (a VoiceAction) String() string {
	switch a {
	case VoiceActionMisconfigured:
		return "misconfigured"
	case VoiceActionRedirectToRecord:
		return "redirect_to_record"
	case VoiceActionScreenAndOfferText:
		return "screen_and_offer_text"
	case VoiceActionScreenAndRecord:
		return "screen_and_record"
	}
	return "unknown"
}

// RouteDecision is the outcome of routing one incoming call: the voice action
// plus the side effects the caller must apply. On a provider retry the action
// is recomputed identically but the side-effect flags are suppressed.
type RouteDecision struct {
	Action            VoiceAction
	SendContactInfo   bool // text the caller the owner's contact info
	MarkScreened      bool // remember this caller in the recent-caller cache
	ConfirmForwarding bool // the owner's self-test call confirms forwarding works
}

// DeviceInfo is the result of a carrier/device lookup for a phone number.
type DeviceInfo struct {
	DeviceType  string `json:"type"`
	CarrierName string `json:"name"`
}

const DeviceTypeMobile = "mobile"

// DeviceUnknown is what a failed or empty lookup degrades to.
var DeviceUnknown = DeviceInfo{}

// Textable reports whether the device can plausibly receive SMS: a mobile
// line with a named carrier.
func (d DeviceInfo) Textable() bool {
	return d.DeviceType == DeviceTypeMobile && d.CarrierName != ""
}

// TextEvent is an inbound SMS/MMS webhook event, stripped of transport detail.
type TextEvent struct {
	From     string
	Body     string
	MediaURL string // set when the message carries an image (config restore)
}

// CallEvent is an inbound call webhook event.
type CallEvent struct {
	From    string
	IsRetry bool // the provider is retrying after a delivery error
}

// Voicemail is a recorded+transcribed voicemail reported by the provider.
type Voicemail struct {
	ID            string `json:"id"`
	From          string `json:"from"`
	Transcription string `json:"transcription"`
	RecordingSid  string `json:"recordingSid"`
	RecordingURL  string `json:"recordingUrl,omitempty"`
	Created       int64  `json:"created"`
}
