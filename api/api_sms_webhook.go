package api

import (
	"net/http"

	"github.com/antivoicemail/go-antivoicemail-server/global"
	"github.com/antivoicemail/go-antivoicemail-server/metrics"
	"github.com/antivoicemail/go-antivoicemail-server/services"
	"github.com/antivoicemail/go-antivoicemail-server/types"
	"github.com/gin-gonic/gin"
	"github.com/go-kit/log/level"
	"github.com/twilio/twilio-go/twiml"
)

type SmsWebhookApi struct {
	dialogueService *services.DialogueService
}

func NewSmsWebhookApi(dialogueService *services.DialogueService) *SmsWebhookApi {
	return &SmsWebhookApi{
		dialogueService: dialogueService,
	}
}

// Incoming SMS/MMS webhook
// @Summary Handle an inbound text from Twilio
// @Description Runs the onboarding dialogue, owner commands or a config-image restore and answers with TwiML
// @Tags Webhooks
// @Param From formData string true "Sender phone number (E.164)"
// @Param Body formData string false "Message body"
// @Param MediaUrl0 formData string false "First attached media URL"
// @Success 200 {string} string "TwiML message response"
// @Accept x-www-form-urlencoded
// @Produce xml
// @Router /webhook/sms [post]
func (sa *SmsWebhookApi) IncomingSms(c *gin.Context) {
	from := c.PostForm("From")
	if from == "" {
		ApiErrorf(c, http.StatusBadRequest, "missing From parameter")
		return
	}
	event := types.TextEvent{
		From:     from,
		Body:     c.PostForm("Body"),
		MediaURL: c.PostForm("MediaUrl0"),
	}

	metrics.TextsReceivedMetricsCount.Inc()

	reply, err := sa.dialogueService.HandleIncomingText(c.Request.Context(), event)
	if err != nil {
		level.Error(global.Logger).Log("error", err, "msg", "sms webhook failed")
		ApiErrorf(c, http.StatusInternalServerError, "failed to process message")
		return
	}
	if reply == "" {
		c.Status(http.StatusNoContent)
		return
	}
	replyMessage(c, reply)
}

// SMS fallback webhook
// @Summary Answer with a generic apology when the primary SMS webhook errored
// @Tags Webhooks
// @Success 200 {string} string "TwiML message response"
// @Produce xml
// @Router /webhook/sms/fallback [post]
func (sa *SmsWebhookApi) SmsFallback(c *gin.Context) {
	replyMessage(c, "Whoops, something went wrong on my end. Please text me again in a little while.")
}

// replyMessage writes a single-message TwiML response.
func replyMessage(c *gin.Context, body string) {
	message := &twiml.MessagingMessage{Body: body}
	doc, err := twiml.Messages([]twiml.Element{message})
	if err != nil {
		ApiErrorf(c, http.StatusInternalServerError, "failed to render response")
		return
	}
	c.Header("Content-Type", "text/xml")
	c.String(http.StatusOK, doc)
}
