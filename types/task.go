package types

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

var (
	QueueTypeSendText    = "notify:text"
	QueueTypeConfigImage = "notify:configimage"
	QueueTypeVoicemail   = "notify:voicemail"
)

// SendTextTask is a queued outbound SMS/MMS. Sends are fire-and-forget with
// respect to the webhook response that produced them.
type SendTextTask struct {
	To       string `json:"to" validate:"required"`
	Body     string `json:"body"`
	MediaURL string `json:"mediaUrl,omitempty"`
}

// VoicemailTask carries a transcribed voicemail to the notification handlers
// (email + SMS to the owner, optional recording archive).
type VoicemailTask struct {
	Voicemail *Voicemail `json:"voicemail" validate:"required"`
}

func NewSendTextTask(task *SendTextTask) (*asynq.Task, error) {
	payload, err := json.Marshal(task)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(QueueTypeSendText, payload), nil
}

func NewConfigImageTask(task *SendTextTask) (*asynq.Task, error) {
	payload, err := json.Marshal(task)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(QueueTypeConfigImage, payload), nil
}

func NewVoicemailTask(task *VoicemailTask) (*asynq.Task, error) {
	payload, err := json.Marshal(task)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(QueueTypeVoicemail, payload), nil
}
