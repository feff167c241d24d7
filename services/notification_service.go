package services

import (
	"context"
	"fmt"
	"time"

	"github.com/antivoicemail/go-antivoicemail-server/global"
	"github.com/antivoicemail/go-antivoicemail-server/types"
	"github.com/antivoicemail/go-antivoicemail-server/util"
	"github.com/go-resty/resty/v2"
	"github.com/jarcoal/httpmock"
)

// NotificationService tells the owner about a new voicemail, by email
// (Mailgun) and by text.
type NotificationService struct {
	client *resty.Client
}

func NewNotificationService(mailgunBaseURL, apiKey string, mock bool) *NotificationService {
	client := resty.New().
		SetBaseURL(mailgunBaseURL).
		SetBasicAuth("api", apiKey)
	if mock {
		httpmock.ActivateNonDefault(client.GetClient())
	}
	return &NotificationService{client: client}
}

// SendVoicemailEmail mails the transcription and recording link to the owner.
func (ns *NotificationService) SendVoicemailEmail(ctx context.Context, mailbox *types.Mailbox, vm *types.Voicemail) error {
	caller := util.NationalFormat(vm.From)
	when := time.UnixMilli(vm.Created).UTC().Format("Jan 2 15:04 MST")
	subject := fmt.Sprintf("New voicemail from %s", caller)
	body := fmt.Sprintf("%s left you a voicemail at %s.\n\nTranscription:\n%s\n\nRecording: %s\n",
		caller, when, vm.Transcription, vm.RecordingURL)

	resp, err := ns.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"from":    global.Conf.Mailgun.Sender,
			"to":      mailbox.Email,
			"subject": subject,
			"text":    body,
		}).
		Post(fmt.Sprintf("/v3/%s/messages", global.Conf.Mailgun.Domain))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("mailgun returned %d: %s", resp.StatusCode(), resp.Body())
	}
	return nil
}

// VoicemailText composes the owner-facing SMS for a new voicemail.
func VoicemailText(vm *types.Voicemail) string {
	transcription := vm.Transcription
	if transcription == "" {
		transcription = "(transcription unavailable)"
	}
	return fmt.Sprintf("New voicemail from %s: %q Listen: %s", util.NationalFormat(vm.From), transcription, vm.RecordingURL)
}
