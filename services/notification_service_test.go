package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/antivoicemail/go-antivoicemail-server/global"
	"github.com/antivoicemail/go-antivoicemail-server/types"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
)

const mailgunURL = "http://localhost:4030"

func TestSendVoicemailEmail(t *testing.T) {
	global.Conf.Mailgun.Domain = "mg.example.com"
	global.Conf.Mailgun.Sender = "voicemail@mg.example.com"
	ns := NewNotificationService(mailgunURL, "key-test", true)
	defer httpmock.DeactivateAndReset()

	var posted map[string]string
	httpmock.RegisterResponder("POST", mailgunURL+"/v3/mg.example.com/messages",
		func(req *http.Request) (*http.Response, error) {
			req.ParseForm()
			posted = map[string]string{
				"to":      req.PostFormValue("to"),
				"subject": req.PostFormValue("subject"),
				"text":    req.PostFormValue("text"),
			}
			return httpmock.NewJsonResponse(200, map[string]string{"id": "<123>", "message": "Queued."})
		})

	mailbox := &types.Mailbox{PhoneNumber: ownerNumber, Email: "jane@example.com"}
	vm := &types.Voicemail{
		From:          strangerPhone,
		Transcription: "hey, call me back",
		RecordingSid:  "RE123",
		RecordingURL:  "https://api.twilio.com/recordings/RE123",
	}
	err := ns.SendVoicemailEmail(context.Background(), mailbox, vm)
	assert.NoError(t, err)
	assert.Equal(t, "jane@example.com", posted["to"])
	assert.Contains(t, posted["subject"], "New voicemail from")
	assert.Contains(t, posted["text"], "hey, call me back")
	assert.Contains(t, posted["text"], "https://api.twilio.com/recordings/RE123")
}

func TestSendVoicemailEmailFailure(t *testing.T) {
	global.Conf.Mailgun.Domain = "mg.example.com"
	ns := NewNotificationService(mailgunURL, "key-test", true)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("POST", mailgunURL+"/v3/mg.example.com/messages",
		httpmock.NewStringResponder(401, `{"message":"Invalid private key"}`))

	err := ns.SendVoicemailEmail(context.Background(), &types.Mailbox{Email: "jane@example.com"}, &types.Voicemail{From: strangerPhone})
	assert.Error(t, err)
}

func TestVoicemailText(t *testing.T) {
	vm := &types.Voicemail{
		From:          "+17775551234",
		Transcription: "call me back",
		RecordingURL:  "https://api.twilio.com/recordings/RE123",
	}
	text := VoicemailText(vm)
	assert.Contains(t, text, "(777) 555-1234")
	assert.Contains(t, text, "call me back")

	vm.Transcription = ""
	assert.Contains(t, VoicemailText(vm), "(transcription unavailable)")
}
