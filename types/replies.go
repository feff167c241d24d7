package types

import (
	"fmt"
	"strings"
)

// ReplyContext carries the already-formatted values a reply can mention.
// Callers fill in only what the chosen variant needs.
type ReplyContext struct {
	OwnerName      string
	OwnerEmail     string
	VoicemailLine  string // the Twilio number, national format
	ForwardingCode string // carrier star code that enables conditional forwarding
	DisableCode    string // carrier star code that disables it again
	Carrier        string
	NewNumber      string   // the number just whitelisted
	Whitelist      []string // full whitelist after the change
}

// RenderReply turns a reply variant into the literal SMS body. The dialogue
// and router decide variants only; wording lives here and nowhere else.
func RenderReply(v ReplyVariant, ctx ReplyContext) string {
	switch v {
	case ReplyAskName:
		return "Hi, I'm your new anti-voicemail! What's your name? (Reply with just your name, e.g. \"Jane\")"
	case ReplyResetAskName:
		return "Done - I forgot everything about you. Let's start over: what's your name?"
	case ReplyAskEmail:
		return fmt.Sprintf("Nice to meet you, %s! What email address should voicemail notifications go to?", ctx.OwnerName)
	case ReplyRetryEmail:
		return "Hmm, that doesn't look like an email address. Try again? (e.g. jane@example.com)"
	case ReplyForwardingInstructions:
		if ctx.ForwardingCode == "" {
			return fmt.Sprintf("Almost there! Ask your carrier (%s) how to forward unanswered calls to %s, then call your own number to confirm it works.", ctx.Carrier, ctx.VoicemailLine)
		}
		return fmt.Sprintf("Almost there! Dial %s to forward unanswered calls to me, then call your own number to confirm it works.", ctx.ForwardingCode)
	case ReplyForwardingReminder:
		return "Still waiting for your confirmation call! Call your own number and let it ring through to voicemail so I know forwarding works."
	case ReplyQrAccepted:
		return "A kindred spirit! Your config image is on its way - save it somewhere safe and text it back to me if you ever need to restore your settings."
	case ReplyQrDeclined:
		return "Suit yourself. You can always fetch your config image from the web app later."
	case ReplyQrRetry:
		return "Sorry, I didn't catch that - do you like QR codes? (yes/no)"
	case ReplyNoIdea:
		return "I have no idea why you're texting me. Your voicemail is all set up - go live your life!"
	case ReplyDisableInstructions:
		return fmt.Sprintf("To disable anti-voicemail, dial %s. Text me if you change your mind!", ctx.DisableCode)
	case ReplyUnknownCarrier:
		return fmt.Sprintf("Sorry - I don't have call-forwarding codes for %q. Ask your carrier how to manage conditional call forwarding.", ctx.Carrier)
	case ReplyWhitelistAdded:
		return fmt.Sprintf("Done! Calls from %s will go straight to voicemail recording. Whitelist: %s", ctx.NewNumber, strings.Join(ctx.Whitelist, ", "))
	case ReplyWhitelistRetry:
		return "I couldn't read that phone number. Resend it like: whitelist +15556667777"
	case ReplyImportRefused:
		return "Sorry, I can't restore settings from this number."
	case ReplyImportRestored:
		return "Now I remember *everything* about you. Re-enable call forwarding and call your own number to confirm, and you're back in business."
	case ReplyImportFailed:
		return "Ooops! I couldn't read that config image. Make sure it's the QR code I sent you and try again."
	case ReplyForwardingConfirmedAskQr:
		return "Call forwarding works - you're all set! One last thing: how do you feel about QR codes? (yes/no)"
	case ReplyForwardingConfirmedDone:
		return "Call forwarding works - everything is back in order. Now get on with your life!"
	case ReplyContactInfo:
		return fmt.Sprintf("Hello! This is %s's anti-voicemail. %s prefers text or email: reply to this number or write to %s. If you really must leave a voicemail, call back and press 1.", ctx.OwnerName, ctx.OwnerName, ctx.OwnerEmail)
	}
	return ""
}
