package services

import (
	"context"
	"testing"
	"time"

	"github.com/antivoicemail/go-antivoicemail-server/types"
	"github.com/stretchr/testify/assert"
)

func noLookup(string) types.DeviceInfo {
	return types.DeviceUnknown
}

func mobileLookup(string) types.DeviceInfo {
	return types.DeviceInfo{DeviceType: "mobile", CarrierName: "T-Mobile USA, Inc."}
}

func onboardedMailbox() *types.Mailbox {
	return &types.Mailbox{
		PhoneNumber: ownerNumber, Carrier: "Verizon Wireless",
		Name: "Jane", Email: "jane@example.com", CallForwardingConfirmed: true,
		QrCodePreference: types.QrPreferenceDeclined,
	}
}

func TestRouteMisconfiguredWithoutMailbox(t *testing.T) {
	decision := Route(nil, strangerPhone, false, false, noLookup)
	assert.Equal(t, types.VoiceActionMisconfigured, decision.Action)
	assert.False(t, decision.SendContactInfo)
}

func TestRouteMisconfiguredWithoutEmail(t *testing.T) {
	mailbox := &types.Mailbox{PhoneNumber: ownerNumber, Name: "Jane"}
	decision := Route(mailbox, strangerPhone, false, false, noLookup)
	assert.Equal(t, types.VoiceActionMisconfigured, decision.Action)
}

func TestRouteWhitelistedSkipsScreening(t *testing.T) {
	mailbox := onboardedMailbox()
	mailbox.Whitelist = []string{strangerPhone}
	decision := Route(mailbox, strangerPhone, false, false, mobileLookup)
	assert.Equal(t, types.VoiceActionRedirectToRecord, decision.Action)
	assert.False(t, decision.SendContactInfo)
	assert.False(t, decision.MarkScreened)
}

func TestRouteRecentlyScreenedSkipsEverything(t *testing.T) {
	// The cache wins even over a missing mailbox, so the check costs nothing.
	decision := Route(onboardedMailbox(), strangerPhone, false, true, mobileLookup)
	assert.Equal(t, types.VoiceActionRedirectToRecord, decision.Action)
	assert.False(t, decision.SendContactInfo)
}

func TestRouteMobileCallerGetsContactInfoText(t *testing.T) {
	decision := Route(onboardedMailbox(), strangerPhone, false, false, mobileLookup)
	assert.Equal(t, types.VoiceActionScreenAndOfferText, decision.Action)
	assert.True(t, decision.SendContactInfo)
	assert.True(t, decision.MarkScreened)
}

func TestRouteLandlineCallerGetsGatedRecording(t *testing.T) {
	decision := Route(onboardedMailbox(), strangerPhone, false, false, noLookup)
	assert.Equal(t, types.VoiceActionScreenAndRecord, decision.Action)
	assert.False(t, decision.SendContactInfo)
	assert.False(t, decision.MarkScreened)
}

func TestRouteRetryRecomputesActionButSuppressesEffects(t *testing.T) {
	first := Route(onboardedMailbox(), strangerPhone, false, false, mobileLookup)
	retry := Route(onboardedMailbox(), strangerPhone, true, false, mobileLookup)
	assert.Equal(t, first.Action, retry.Action)
	assert.False(t, retry.SendContactInfo)
	assert.False(t, retry.MarkScreened)
	assert.False(t, retry.ConfirmForwarding)
}

func TestRouteRetryAfterCacheMarkKeepsAction(t *testing.T) {
	// The first routing marked the caller, so the retry arrives with the
	// cache already set. It still has to land on the first call's action.
	first := Route(onboardedMailbox(), strangerPhone, false, false, mobileLookup)
	retry := Route(onboardedMailbox(), strangerPhone, true, true, mobileLookup)
	assert.Equal(t, types.VoiceActionScreenAndOfferText, first.Action)
	assert.Equal(t, first.Action, retry.Action)
	assert.False(t, retry.SendContactInfo)
	assert.False(t, retry.MarkScreened)
}

func TestRouteOwnerSelfCallConfirmsForwarding(t *testing.T) {
	mailbox := onboardedMailbox()
	mailbox.CallForwardingConfirmed = false
	decision := Route(mailbox, ownerNumber, false, false, mobileLookup)
	assert.True(t, decision.ConfirmForwarding)

	// Already confirmed: nothing left to confirm.
	decision = Route(onboardedMailbox(), ownerNumber, false, false, mobileLookup)
	assert.False(t, decision.ConfirmForwarding)
}

func TestRouteOwnerSelfCallUnknownDeviceLeavesForwardingUnconfirmed(t *testing.T) {
	// When the lookup degrades the owner's own number to an unknown device
	// there is no follow-up text, so nothing may flip silently.
	mailbox := onboardedMailbox()
	mailbox.CallForwardingConfirmed = false
	decision := Route(mailbox, ownerNumber, false, false, noLookup)
	assert.Equal(t, types.VoiceActionScreenAndRecord, decision.Action)
	assert.False(t, decision.ConfirmForwarding)
}

func newRouterFixture(mailbox *types.Mailbox, lookup types.DeviceInfo) (*CallRouterService, *memStore, *stubNotifier, *RecentCallerCache) {
	store := &memStore{mailbox: mailbox}
	notifier := &stubNotifier{}
	cache := newRecentCallerCache(ScreenedCallerTTL, time.Now)
	router := NewCallRouterService(store, &stubLookup{device: lookup}, cache, notifier)
	return router, store, notifier, cache
}

func TestHandleIncomingCallTextsAndMarksCaller(t *testing.T) {
	router, _, notifier, cache := newRouterFixture(onboardedMailbox(), types.DeviceInfo{DeviceType: "mobile", CarrierName: "AT&T Wireless"})

	decision, mailbox, err := router.HandleIncomingCall(context.Background(), types.CallEvent{From: strangerPhone})
	assert.NoError(t, err)
	assert.Equal(t, types.VoiceActionScreenAndOfferText, decision.Action)
	assert.Equal(t, "Jane", mailbox.Name)
	assert.Len(t, notifier.texts, 1)
	assert.Equal(t, strangerPhone, notifier.texts[0].To)
	assert.Contains(t, notifier.texts[0].Body, "Jane's anti-voicemail")
	assert.True(t, cache.WasRecentlyScreened(strangerPhone))
}

func TestHandleIncomingCallSecondCallWithinWindow(t *testing.T) {
	router, _, notifier, _ := newRouterFixture(onboardedMailbox(), types.DeviceInfo{DeviceType: "mobile", CarrierName: "AT&T Wireless"})

	_, _, err := router.HandleIncomingCall(context.Background(), types.CallEvent{From: strangerPhone})
	assert.NoError(t, err)
	decision, _, err := router.HandleIncomingCall(context.Background(), types.CallEvent{From: strangerPhone})
	assert.NoError(t, err)
	assert.Equal(t, types.VoiceActionRedirectToRecord, decision.Action)
	assert.Len(t, notifier.texts, 1)
}

func TestHandleIncomingCallQueueFailureLeavesCacheUnmarked(t *testing.T) {
	router, _, notifier, cache := newRouterFixture(onboardedMailbox(), types.DeviceInfo{DeviceType: "mobile", CarrierName: "AT&T Wireless"})
	notifier.fail = true

	decision, _, err := router.HandleIncomingCall(context.Background(), types.CallEvent{From: strangerPhone})
	assert.NoError(t, err)
	assert.Equal(t, types.VoiceActionScreenAndOfferText, decision.Action)
	assert.False(t, cache.WasRecentlyScreened(strangerPhone))
}

func TestHandleIncomingCallOwnerSelfTest(t *testing.T) {
	mailbox := onboardedMailbox()
	mailbox.CallForwardingConfirmed = false
	mailbox.QrCodePreference = types.QrPreferenceUnset
	router, store, notifier, _ := newRouterFixture(mailbox, types.DeviceInfo{DeviceType: "mobile", CarrierName: "Verizon Wireless"})

	decision, _, err := router.HandleIncomingCall(context.Background(), types.CallEvent{From: ownerNumber})
	assert.NoError(t, err)
	assert.True(t, decision.ConfirmForwarding)
	assert.True(t, store.mailbox.CallForwardingConfirmed)
	// The owner gets the delayed welcome, not the contact card.
	assert.Empty(t, notifier.texts)
	assert.Len(t, notifier.ownerTexts, 1)
	assert.Contains(t, notifier.ownerTexts[0].Body, "QR codes")
}

func TestHandleIncomingCallOwnerAfterRestore(t *testing.T) {
	mailbox := onboardedMailbox()
	mailbox.CallForwardingConfirmed = false // restored config always needs a fresh self-test
	router, store, notifier, _ := newRouterFixture(mailbox, types.DeviceInfo{DeviceType: "mobile", CarrierName: "Verizon Wireless"})

	_, _, err := router.HandleIncomingCall(context.Background(), types.CallEvent{From: ownerNumber})
	assert.NoError(t, err)
	assert.True(t, store.mailbox.CallForwardingConfirmed)
	assert.Len(t, notifier.ownerTexts, 1)
	assert.Contains(t, notifier.ownerTexts[0].Body, "get on with your life")
}

func TestHandleIncomingCallRetryDoesNotDoubleText(t *testing.T) {
	router, _, notifier, cache := newRouterFixture(onboardedMailbox(), types.DeviceInfo{DeviceType: "mobile", CarrierName: "AT&T Wireless"})

	decision, _, err := router.HandleIncomingCall(context.Background(), types.CallEvent{From: strangerPhone, IsRetry: true})
	assert.NoError(t, err)
	assert.Equal(t, types.VoiceActionScreenAndOfferText, decision.Action)
	assert.Empty(t, notifier.texts)
	assert.False(t, cache.WasRecentlyScreened(strangerPhone))
}

func TestHandleIncomingCallRetryAfterDeliveredFirstAttempt(t *testing.T) {
	router, _, notifier, _ := newRouterFixture(onboardedMailbox(), types.DeviceInfo{DeviceType: "mobile", CarrierName: "AT&T Wireless"})

	first, _, err := router.HandleIncomingCall(context.Background(), types.CallEvent{From: strangerPhone})
	assert.NoError(t, err)
	assert.Equal(t, types.VoiceActionScreenAndOfferText, first.Action)

	// The first attempt marked the cache, yet the retry must replay the
	// same action without queueing a second text.
	retry, _, err := router.HandleIncomingCall(context.Background(), types.CallEvent{From: strangerPhone, IsRetry: true})
	assert.NoError(t, err)
	assert.Equal(t, first.Action, retry.Action)
	assert.Len(t, notifier.texts, 1)
}
