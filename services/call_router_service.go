package services

import (
	"context"
	"errors"

	"github.com/antivoicemail/go-antivoicemail-server/global"
	"github.com/antivoicemail/go-antivoicemail-server/types"
	"github.com/go-kit/log/level"
)

// CallRouterService decides what happens to each incoming call and applies
// the resulting side effects (contact-info text, cache marking, forwarding
// confirmation).
type CallRouterService struct {
	mailboxes MailboxStore
	lookup    DeviceLookup
	cache     *RecentCallerCache
	notifier  Notifier
}

func NewCallRouterService(mailboxes MailboxStore, lookup DeviceLookup, cache *RecentCallerCache, notifier Notifier) *CallRouterService {
	return &CallRouterService{
		mailboxes: mailboxes,
		lookup:    lookup,
		cache:     cache,
		notifier:  notifier,
	}
}

// Route picks the voice action for one call. lookup is only consulted when
// the earlier checks don't already settle the call. On a provider retry the
// same action comes back but every side-effect flag stays false, so replaying
// a webhook never texts or marks twice. The recently-screened shortcut is
// skipped on retries too: the first routing is what put the caller in the
// cache, and the replay has to land on the same action it produced.
func Route(mailbox *types.Mailbox, caller string, isRetry bool, recentlyScreened bool, lookup func(string) types.DeviceInfo) types.RouteDecision {
	if recentlyScreened && !isRetry {
		return types.RouteDecision{Action: types.VoiceActionRedirectToRecord}
	}
	if mailbox == nil || mailbox.Email == "" {
		return types.RouteDecision{Action: types.VoiceActionMisconfigured}
	}
	if mailbox.IsWhitelisted(caller) {
		return types.RouteDecision{Action: types.VoiceActionRedirectToRecord}
	}

	device := lookup(caller)
	if device.Textable() {
		// The forwarding self-test only confirms on this path, where the
		// owner is told about it in the follow-up text.
		confirm := caller == mailbox.PhoneNumber && !mailbox.CallForwardingConfirmed
		return types.RouteDecision{
			Action:            types.VoiceActionScreenAndOfferText,
			SendContactInfo:   !isRetry,
			MarkScreened:      !isRetry,
			ConfirmForwarding: confirm && !isRetry,
		}
	}
	return types.RouteDecision{Action: types.VoiceActionScreenAndRecord}
}

// HandleIncomingCall routes the call and applies its side effects. The
// returned mailbox (possibly nil) lets the webhook layer render the right
// voice response.
func (cs *CallRouterService) HandleIncomingCall(ctx context.Context, event types.CallEvent) (types.RouteDecision, *types.Mailbox, error) {
	mailbox, err := cs.mailboxes.GetAny(ctx)
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		return types.RouteDecision{}, nil, err
	}

	decision := Route(mailbox, event.From, event.IsRetry, cs.cache.WasRecentlyScreened(event.From), func(number string) types.DeviceInfo {
		return cs.lookup.LookupDevice(ctx, number)
	})

	level.Info(global.Logger).Log("msg", "routed call", "action", decision.Action.String(), "retry", event.IsRetry)

	if decision.ConfirmForwarding {
		mailbox.CallForwardingConfirmed = true
		if uErr := cs.mailboxes.Update(ctx, mailbox); uErr != nil {
			return types.RouteDecision{}, nil, uErr
		}
	}
	if decision.SendContactInfo {
		if sent := cs.sendContactInfo(ctx, mailbox, event.From); sent && decision.MarkScreened {
			cs.cache.MarkScreened(event.From)
		}
	}
	return decision, mailbox, nil
}

// sendContactInfo queues the contact-info text. A call from the owner's own
// number is the forwarding self-test, so the owner gets a delayed welcome
// text instead of the caller-facing contact card.
func (cs *CallRouterService) sendContactInfo(ctx context.Context, mailbox *types.Mailbox, caller string) bool {
	var body string
	var err error
	if caller == mailbox.PhoneNumber {
		variant := types.ReplyForwardingConfirmedAskQr
		if mailbox.QrCodePreference != types.QrPreferenceUnset {
			variant = types.ReplyForwardingConfirmedDone
		}
		body = types.RenderReply(variant, types.ReplyContext{})
		err = cs.notifier.QueueOwnerText(ctx, caller, body)
	} else {
		body = types.RenderReply(types.ReplyContactInfo, types.ReplyContext{
			OwnerName:  mailbox.Name,
			OwnerEmail: mailbox.Email,
		})
		err = cs.notifier.QueueText(ctx, caller, body)
	}
	if err != nil {
		level.Error(global.Logger).Log("error", err, "msg", "failed to queue contact info text")
		return false
	}
	return true
}
