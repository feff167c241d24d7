package services

import (
	"context"
	"fmt"
	"time"

	"github.com/antivoicemail/go-antivoicemail-server/global"
	"github.com/antivoicemail/go-antivoicemail-server/metrics"
	"github.com/antivoicemail/go-antivoicemail-server/types"
	"github.com/go-kit/log/level"
	"github.com/hibiken/asynq"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// Notifier queues outbound texts so webhook handlers can respond immediately.
type Notifier interface {
	QueueText(ctx context.Context, to string, body string) error
	QueueOwnerText(ctx context.Context, to string, body string) error
	QueueConfigImage(ctx context.Context, to string) error
}

// MessagingService sends SMS/MMS through Twilio and manages the webhook
// configuration of the incoming phone number.
type MessagingService struct {
	env *types.Environment
}

func NewMessagingService(env *types.Environment) *MessagingService {
	return &MessagingService{env: env}
}

// QueueText enqueues an outbound text for immediate delivery.
func (ms *MessagingService) QueueText(ctx context.Context, to string, body string) error {
	task, err := types.NewSendTextTask(&types.SendTextTask{To: to, Body: body})
	if err != nil {
		return err
	}
	_, err = ms.env.TaskClient.EnqueueContext(ctx, task, asynq.MaxRetry(3), asynq.Timeout(30*time.Second))
	return err
}

// QueueOwnerText enqueues a text to the owner with a short delay, so it lands
// after they hang up their forwarding self-test call.
func (ms *MessagingService) QueueOwnerText(ctx context.Context, to string, body string) error {
	task, err := types.NewSendTextTask(&types.SendTextTask{To: to, Body: body})
	if err != nil {
		return err
	}
	delay := time.Duration(global.Conf.App.ContactInfoDelaySecs) * time.Second
	if delay <= 0 {
		delay = 15 * time.Second
	}
	_, err = ms.env.TaskClient.EnqueueContext(ctx, task, asynq.ProcessIn(delay), asynq.MaxRetry(3), asynq.Timeout(30*time.Second))
	return err
}

// QueueConfigImage enqueues the config-image MMS for the owner.
func (ms *MessagingService) QueueConfigImage(ctx context.Context, to string) error {
	task, err := types.NewConfigImageTask(&types.SendTextTask{To: to})
	if err != nil {
		return err
	}
	_, err = ms.env.TaskClient.EnqueueContext(ctx, task, asynq.MaxRetry(3), asynq.Timeout(30*time.Second))
	return err
}

// QueueVoicemail enqueues the notification fan-out for a new voicemail.
func (ms *MessagingService) QueueVoicemail(ctx context.Context, vm *types.Voicemail) error {
	task, err := types.NewVoicemailTask(&types.VoicemailTask{Voicemail: vm})
	if err != nil {
		return err
	}
	_, err = ms.env.TaskClient.EnqueueContext(ctx, task, asynq.MaxRetry(5), asynq.Timeout(2*time.Minute))
	return err
}

// SendText delivers one text (optionally with media) through the Twilio REST
// API. Called from the queue workers, never from a webhook handler.
func (ms *MessagingService) SendText(task *types.SendTextTask) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(task.To)
	params.SetFrom(global.Conf.Twilio.PhoneNumber)
	params.SetBody(task.Body)
	if task.MediaURL != "" {
		params.SetMediaUrl([]string{task.MediaURL})
	}
	resp, err := ms.env.Twilio.Api.CreateMessage(params)
	if err != nil {
		return err
	}
	if resp.Sid != nil {
		level.Info(global.Logger).Log("msg", "sent text", "sid", *resp.Sid)
	}
	metrics.TextsSentMetricsCount.Inc()
	return nil
}

// EnsureNumberWebhooks points the configured Twilio number at this server's
// webhook endpoints. Runs at startup and from a daily cron so a redeployment
// under a new public URL heals itself.
func (ms *MessagingService) EnsureNumberWebhooks(ctx context.Context) error {
	listParams := &twilioApi.ListIncomingPhoneNumberParams{}
	listParams.SetPhoneNumber(global.Conf.Twilio.PhoneNumber)
	numbers, err := ms.env.Twilio.Api.ListIncomingPhoneNumber(listParams)
	if err != nil {
		return err
	}
	if len(numbers) == 0 {
		return fmt.Errorf("number %s not found on the account", global.Conf.Twilio.PhoneNumber)
	}

	base := global.Conf.App.PublicURL
	for _, number := range numbers {
		if number.Sid == nil {
			continue
		}
		updateParams := &twilioApi.UpdateIncomingPhoneNumberParams{}
		updateParams.SetSmsUrl(base + "/webhook/sms")
		updateParams.SetSmsFallbackUrl(base + "/webhook/sms/fallback")
		updateParams.SetVoiceUrl(base + "/webhook/voice")
		updateParams.SetVoiceFallbackUrl(base + "/webhook/voice/fallback")
		if _, uErr := ms.env.Twilio.Api.UpdateIncomingPhoneNumber(*number.Sid, updateParams); uErr != nil {
			return uErr
		}
		level.Info(global.Logger).Log("msg", "updated number webhooks", "sid", *number.Sid, "base", base)
	}
	return nil
}
