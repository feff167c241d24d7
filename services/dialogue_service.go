package services

import (
	"context"
	"errors"
	"strings"

	"github.com/antivoicemail/go-antivoicemail-server/global"
	"github.com/antivoicemail/go-antivoicemail-server/types"
	"github.com/antivoicemail/go-antivoicemail-server/util"
	"github.com/go-kit/log/level"
	"github.com/go-playground/validator/v10"
)

// ConfigDecoder extracts the config payload string from a config image URL.
type ConfigDecoder interface {
	DecodeConfigImage(ctx context.Context, imageURL string) (string, error)
}

var emailValidator = validator.New()

// DialogueService runs the SMS onboarding dialogue and the owner commands.
type DialogueService struct {
	mailboxes MailboxStore
	lookup    DeviceLookup
	notifier  Notifier
	decoder   ConfigDecoder
}

func NewDialogueService(mailboxes MailboxStore, lookup DeviceLookup, notifier Notifier, decoder ConfigDecoder) *DialogueService {
	return &DialogueService{
		mailboxes: mailboxes,
		lookup:    lookup,
		notifier:  notifier,
		decoder:   decoder,
	}
}

// Decide runs one inbound text through the dialogue and returns what should
// change and what to reply. It never touches the store; the caller applies
// the mutation. regionCode is the default region for parsing bare numbers;
// enabled restricts which commands are live (nil means all of them).
func Decide(mailbox *types.Mailbox, body string, regionCode string, enabled map[types.Command]bool) types.DialogueDecision {
	text := strings.TrimSpace(body)
	lower := strings.ToLower(text)

	// Owner commands win over whatever step the dialogue is on.
	if cmd, arg, ok := parseCommand(lower, text); ok && (enabled == nil || enabled[cmd]) {
		return decideCommand(mailbox, cmd, arg, regionCode)
	}

	switch mailbox.Step() {
	case types.StepName:
		if text == "" {
			return types.DialogueDecision{Reply: types.ReplyAskName}
		}
		name := text
		return types.DialogueDecision{
			Reply:    types.ReplyAskEmail,
			Mutation: types.MailboxMutation{SetName: &name},
		}
	case types.StepEmail:
		if emailValidator.Var(text, "required,email") != nil {
			return types.DialogueDecision{Reply: types.ReplyRetryEmail}
		}
		email := text
		return types.DialogueDecision{
			Reply:    types.ReplyForwardingInstructions,
			Mutation: types.MailboxMutation{SetEmail: &email},
		}
	case types.StepForwarding:
		// Confirmation comes from the owner's self-call, not from texting.
		return types.DialogueDecision{Reply: types.ReplyForwardingReminder}
	case types.StepQrPreference:
		// Only the first character counts, so "yes", "y" and "yeah" all
		// accept and "i know" is neither answer.
		switch {
		case strings.HasPrefix(lower, "y"):
			pref := types.QrPreferenceAccepted
			return types.DialogueDecision{
				Reply:           types.ReplyQrAccepted,
				Mutation:        types.MailboxMutation{SetQrPreference: &pref},
				SendConfigImage: true,
			}
		case strings.HasPrefix(lower, "n"):
			pref := types.QrPreferenceDeclined
			return types.DialogueDecision{
				Reply:    types.ReplyQrDeclined,
				Mutation: types.MailboxMutation{SetQrPreference: &pref},
			}
		}
		return types.DialogueDecision{Reply: types.ReplyQrRetry}
	}
	return types.DialogueDecision{Reply: types.ReplyNoIdea}
}

// enabledCommands builds the live command set from config. An empty list in
// the config means everything is enabled.
func enabledCommands() map[types.Command]bool {
	if len(global.Conf.App.Commands) == 0 {
		return nil
	}
	enabled := make(map[types.Command]bool, len(global.Conf.App.Commands))
	for _, c := range global.Conf.App.Commands {
		enabled[types.Command(strings.ToLower(c))] = true
	}
	return enabled
}

func parseCommand(lower, original string) (types.Command, string, bool) {
	fields := strings.Fields(lower)
	if len(fields) == 0 {
		return "", "", false
	}
	switch types.Command(fields[0]) {
	case types.CommandReset:
		return types.CommandReset, "", true
	case types.CommandDisable:
		return types.CommandDisable, "", true
	case types.CommandWhitelist:
		arg := strings.TrimSpace(original[len(fields[0]):])
		return types.CommandWhitelist, arg, true
	}
	return "", "", false
}

func decideCommand(mailbox *types.Mailbox, cmd types.Command, arg string, regionCode string) types.DialogueDecision {
	switch cmd {
	case types.CommandReset:
		return types.DialogueDecision{
			Reply:    types.ReplyResetAskName,
			Mutation: types.MailboxMutation{Reset: true},
		}
	case types.CommandDisable:
		if _, err := util.DisableCode(mailbox.Carrier); err != nil {
			return types.DialogueDecision{Reply: types.ReplyUnknownCarrier}
		}
		return types.DialogueDecision{Reply: types.ReplyDisableInstructions}
	case types.CommandWhitelist:
		region := util.RegionCode(mailbox.PhoneNumber, regionCode)
		number, err := util.ParsePhoneNumber(arg, region)
		if err != nil {
			return types.DialogueDecision{Reply: types.ReplyWhitelistRetry}
		}
		return types.DialogueDecision{
			Reply:    types.ReplyWhitelistAdded,
			Mutation: types.MailboxMutation{AddWhitelist: &number},
		}
	}
	return types.DialogueDecision{Reply: types.ReplyNoIdea}
}

// HandleIncomingText processes one SMS/MMS webhook event end to end and
// returns the reply body. An empty reply means stay silent.
func (ds *DialogueService) HandleIncomingText(ctx context.Context, event types.TextEvent) (string, error) {
	if event.MediaURL != "" {
		return ds.ImportConfig(ctx, event.From, event.MediaURL)
	}

	mailbox, err := ds.mailboxes.GetByNumber(ctx, event.From)
	if errors.Is(err, types.ErrNotFound) {
		return ds.startOnboarding(ctx, event.From)
	}
	if err != nil {
		return "", err
	}

	decision := Decide(mailbox, event.Body, global.Conf.App.DefaultRegionCode, enabledCommands())
	if decision.Mutation.Reset {
		if dErr := ds.mailboxes.DeleteAll(ctx); dErr != nil {
			return "", dErr
		}
		if _, cErr := ds.createMailbox(ctx, event.From); cErr != nil {
			return "", cErr
		}
		return types.RenderReply(decision.Reply, types.ReplyContext{}), nil
	}
	if !decision.Mutation.IsZero() {
		applyMutation(mailbox, decision.Mutation)
		if uErr := ds.mailboxes.Update(ctx, mailbox); uErr != nil {
			return "", uErr
		}
	}
	if decision.SendConfigImage {
		if qErr := ds.notifier.QueueConfigImage(ctx, event.From); qErr != nil {
			level.Error(global.Logger).Log("error", qErr, "msg", "failed to queue config image")
		}
	}
	return types.RenderReply(decision.Reply, ds.replyContext(mailbox, decision)), nil
}

// startOnboarding creates the mailbox for the very first texter. Once a
// mailbox exists, texts from any other number are ignored outright.
func (ds *DialogueService) startOnboarding(ctx context.Context, from string) (string, error) {
	_, err := ds.mailboxes.GetAny(ctx)
	if err == nil {
		return "", nil
	}
	if !errors.Is(err, types.ErrNotFound) {
		return "", err
	}
	if _, cErr := ds.createMailbox(ctx, from); cErr != nil {
		return "", cErr
	}
	return types.RenderReply(types.ReplyAskName, types.ReplyContext{}), nil
}

func (ds *DialogueService) createMailbox(ctx context.Context, from string) (*types.Mailbox, error) {
	device := ds.lookup.LookupDevice(ctx, from)
	mailbox := &types.Mailbox{
		PhoneNumber: from,
		Carrier:     device.CarrierName,
	}
	if err := ds.mailboxes.Create(ctx, mailbox); err != nil {
		return nil, err
	}
	return mailbox, nil
}

// ImportConfig restores a mailbox from a texted config image. All or nothing:
// either the decoded payload replaces the store completely or nothing changes.
func (ds *DialogueService) ImportConfig(ctx context.Context, from string, imageURL string) (string, error) {
	existing, err := ds.mailboxes.GetAny(ctx)
	if err != nil && !errors.Is(err, types.ErrNotFound) {
		return "", err
	}
	if existing != nil && existing.PhoneNumber != from {
		return types.RenderReply(types.ReplyImportRefused, types.ReplyContext{}), nil
	}

	payload, dErr := ds.decoder.DecodeConfigImage(ctx, imageURL)
	if dErr != nil {
		level.Warn(global.Logger).Log("error", dErr, "msg", "config image decode failed")
		return types.RenderReply(types.ReplyImportFailed, types.ReplyContext{}), nil
	}
	restored, pErr := types.ImportPayload(payload)
	if pErr != nil {
		level.Warn(global.Logger).Log("error", pErr, "msg", "config payload rejected")
		return types.RenderReply(types.ReplyImportFailed, types.ReplyContext{}), nil
	}

	if wErr := ds.mailboxes.DeleteAll(ctx); wErr != nil {
		return "", wErr
	}
	if cErr := ds.mailboxes.Create(ctx, restored); cErr != nil {
		return "", cErr
	}
	return types.RenderReply(types.ReplyImportRestored, types.ReplyContext{}), nil
}

func applyMutation(mailbox *types.Mailbox, mu types.MailboxMutation) {
	if mu.SetName != nil {
		mailbox.Name = *mu.SetName
	}
	if mu.SetEmail != nil {
		mailbox.Email = *mu.SetEmail
	}
	if mu.SetQrPreference != nil {
		mailbox.QrCodePreference = *mu.SetQrPreference
	}
	if mu.AddWhitelist != nil {
		mailbox.AddToWhitelist(*mu.AddWhitelist)
	}
	if mu.ConfirmForwarding {
		mailbox.CallForwardingConfirmed = true
	}
}

func (ds *DialogueService) replyContext(mailbox *types.Mailbox, decision types.DialogueDecision) types.ReplyContext {
	rc := types.ReplyContext{
		OwnerName:     mailbox.Name,
		OwnerEmail:    mailbox.Email,
		VoicemailLine: util.NationalFormat(global.Conf.Twilio.PhoneNumber),
		Carrier:       mailbox.Carrier,
	}
	if code, err := util.ForwardingCode(mailbox.Carrier, global.Conf.Twilio.PhoneNumber); err == nil {
		rc.ForwardingCode = code
	}
	if code, err := util.DisableCode(mailbox.Carrier); err == nil {
		rc.DisableCode = code
	}
	if decision.Mutation.AddWhitelist != nil {
		rc.NewNumber = util.NationalFormat(*decision.Mutation.AddWhitelist)
		for _, n := range mailbox.Whitelist {
			rc.Whitelist = append(rc.Whitelist, util.NationalFormat(n))
		}
	}
	return rc
}
