package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/antivoicemail/go-antivoicemail-server/global"
	"github.com/antivoicemail/go-antivoicemail-server/repository"
	"github.com/antivoicemail/go-antivoicemail-server/services"
	"github.com/antivoicemail/go-antivoicemail-server/types"
	"github.com/go-kit/log/level"
	"github.com/hibiken/asynq"
)

// NotificationQueue holds the asynq task handlers for outbound texts, the
// config-image MMS and voicemail notifications.
type NotificationQueue struct {
	mailboxService      *services.MailboxService
	messagingService    *services.MessagingService
	notificationService *services.NotificationService
	configImageService  *services.ConfigImageService
	archiveService      *services.ArchiveService
	env                 *types.Environment
}

func NewNotificationQueue(dbSelector *repository.CouchDBSelector, env *types.Environment) *NotificationQueue {
	mailboxService := services.NewMailboxService(dbSelector)
	messagingService := services.NewMessagingService(env)
	notificationService := services.NewNotificationService(global.Conf.Mailgun.BaseURL, global.Conf.Mailgun.ApiKey, false)
	configImageService := services.NewConfigImageService(global.Conf.App.QrDecodeURL, false)

	var archiveService *services.ArchiveService
	if global.Conf.Storage.ArchiveRecordings {
		archiveService = services.NewArchiveService(env, false)
	}

	return &NotificationQueue{
		mailboxService:      mailboxService,
		messagingService:    messagingService,
		notificationService: notificationService,
		configImageService:  configImageService,
		archiveService:      archiveService,
		env:                 env,
	}
}

// ProcessSendTextTask delivers one queued SMS.
func (nq *NotificationQueue) ProcessSendTextTask(ctx context.Context, t *asynq.Task) error {
	var task types.SendTextTask
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	if task.To == "" {
		return fmt.Errorf("send text task without recipient: %w", asynq.SkipRetry)
	}
	return nq.messagingService.SendText(&task)
}

// ProcessConfigImageTask sends the owner their config image as an MMS. The
// media URL points back at this server, which renders the image on demand.
func (nq *NotificationQueue) ProcessConfigImageTask(ctx context.Context, t *asynq.Task) error {
	var task types.SendTextTask
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	mailbox, mErr := nq.mailboxService.GetByNumber(ctx, task.To)
	if mErr != nil {
		if errors.Is(mErr, types.ErrNotFound) {
			// mailbox got reset between queueing and processing
			return fmt.Errorf("no mailbox for %s: %w", task.To, asynq.SkipRetry)
		}
		return mErr
	}
	return nq.messagingService.SendText(&types.SendTextTask{
		To:       mailbox.PhoneNumber,
		Body:     "Here's your config image. Save it somewhere safe!",
		MediaURL: global.Conf.App.PublicURL + "/config-image",
	})
}

// ProcessVoicemailTask fans a transcribed voicemail out to the owner: email,
// SMS and (optionally) an archived copy of the recording.
func (nq *NotificationQueue) ProcessVoicemailTask(ctx context.Context, t *asynq.Task) error {
	var task types.VoicemailTask
	if err := json.Unmarshal(t.Payload(), &task); err != nil {
		return fmt.Errorf("json.Unmarshal failed: %v: %w", err, asynq.SkipRetry)
	}
	if task.Voicemail == nil {
		return fmt.Errorf("voicemail task without payload: %w", asynq.SkipRetry)
	}
	mailbox, mErr := nq.mailboxService.GetAny(ctx)
	if mErr != nil {
		if errors.Is(mErr, types.ErrNotFound) {
			return fmt.Errorf("no mailbox to notify: %w", asynq.SkipRetry)
		}
		return mErr
	}

	if global.Conf.Mailgun.Enabled {
		if eErr := nq.notificationService.SendVoicemailEmail(ctx, mailbox, task.Voicemail); eErr != nil {
			level.Error(global.Logger).Log("error", eErr, "msg", "voicemail email failed")
			return eErr
		}
	}

	if sErr := nq.messagingService.SendText(&types.SendTextTask{
		To:   mailbox.PhoneNumber,
		Body: services.VoicemailText(task.Voicemail),
	}); sErr != nil {
		return sErr
	}

	if nq.archiveService != nil {
		if _, aErr := nq.archiveService.ArchiveRecording(ctx, task.Voicemail); aErr != nil {
			// notification already went out; don't retry the whole task over the archive
			level.Error(global.Logger).Log("error", aErr, "msg", "recording archive failed", "sid", task.Voicemail.RecordingSid)
		}
	}
	return nil
}
