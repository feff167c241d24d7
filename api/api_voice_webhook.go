package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/antivoicemail/go-antivoicemail-server/global"
	"github.com/antivoicemail/go-antivoicemail-server/metrics"
	"github.com/antivoicemail/go-antivoicemail-server/services"
	"github.com/antivoicemail/go-antivoicemail-server/types"
	"github.com/gin-gonic/gin"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"
	"github.com/twilio/twilio-go/twiml"
)

const (
	sayMisconfigured = "Sorry, this phone number isn't set up yet. Goodbye!"
	sayApology       = "Whoops, something went wrong on my end. Please call back in a little while."
	sayTextOnItsWay  = "I'm sending you a text message with their contact info right now. Bye!"
	sayLeaveMessage  = "Leave a message after the tone."
	sayRecorded      = "Your message has been recorded. Goodbye!"
	sayNotRecording  = "Ok, I won't record anything. Goodbye!"
	sayPressOne      = "To leave a voicemail anyway, press 1."
)

type VoiceWebhookApi struct {
	routerService    *services.CallRouterService
	messagingService *services.MessagingService
}

func NewVoiceWebhookApi(routerService *services.CallRouterService, messagingService *services.MessagingService) *VoiceWebhookApi {
	return &VoiceWebhookApi{
		routerService:    routerService,
		messagingService: messagingService,
	}
}

// Incoming call webhook
// @Summary Route an incoming call
// @Description Screens the caller, redirects whitelisted and recently screened callers to recording and answers with TwiML
// @Tags Webhooks
// @Param From formData string true "Caller phone number (E.164)"
// @Success 200 {string} string "TwiML voice response"
// @Accept x-www-form-urlencoded
// @Produce xml
// @Router /webhook/voice [post]
func (va *VoiceWebhookApi) IncomingCall(c *gin.Context) {
	va.handleCall(c, false)
}

// Voice fallback webhook
// @Summary Retry routing after a webhook delivery error
// @Description Twilio calls this when the primary voice webhook failed. Routing is recomputed without repeating side effects; if even that fails the caller hears a generic apology.
// @Tags Webhooks
// @Param From formData string true "Caller phone number (E.164)"
// @Success 200 {string} string "TwiML voice response"
// @Accept x-www-form-urlencoded
// @Produce xml
// @Router /webhook/voice/fallback [post]
func (va *VoiceWebhookApi) CallFallback(c *gin.Context) {
	defer func() {
		if r := recover(); r != nil {
			level.Error(global.Logger).Log("panic", fmt.Sprintf("%v", r), "msg", "voice fallback panicked")
			respondVoice(c, []twiml.Element{
				&twiml.VoiceSay{Message: sayApology},
				&twiml.VoiceHangup{},
			})
		}
	}()
	va.handleCall(c, true)
}

func (va *VoiceWebhookApi) handleCall(c *gin.Context, isRetry bool) {
	from := c.PostForm("From")
	if from == "" {
		ApiErrorf(c, http.StatusBadRequest, "missing From parameter")
		return
	}

	decision, mailbox, err := va.routerService.HandleIncomingCall(c.Request.Context(), types.CallEvent{From: from, IsRetry: isRetry})
	if err != nil {
		level.Error(global.Logger).Log("error", err, "msg", "call routing failed")
		respondVoice(c, []twiml.Element{
			&twiml.VoiceSay{Message: sayApology},
			&twiml.VoiceHangup{},
		})
		return
	}

	metrics.CallsRoutedMetricsTotal.WithLabelValues(decision.Action.String()).Inc()

	switch decision.Action {
	case types.VoiceActionRedirectToRecord:
		respondVoice(c, []twiml.Element{
			&twiml.VoiceRedirect{Url: "/webhook/voice/record"},
		})
	case types.VoiceActionScreenAndOfferText:
		respondVoice(c, []twiml.Element{
			&twiml.VoiceSay{Message: screeningIntro(mailbox)},
			&twiml.VoiceSay{Message: sayTextOnItsWay},
			&twiml.VoiceHangup{},
		})
	case types.VoiceActionScreenAndRecord:
		gather := &twiml.VoiceGather{
			NumDigits: "1",
			Action:    "/webhook/voice/record",
			InnerElements: []twiml.Element{
				&twiml.VoiceSay{Message: sayPressOne},
			},
		}
		respondVoice(c, []twiml.Element{
			&twiml.VoiceSay{Message: screeningIntro(mailbox)},
			&twiml.VoiceSay{Message: fmt.Sprintf("You can reach them by text at this number, or by email at %s.", mailbox.Email)},
			&twiml.VoicePause{Length: "1"},
			gather,
			&twiml.VoiceSay{Message: "Goodbye!"},
			&twiml.VoiceHangup{},
		})
	default:
		respondVoice(c, []twiml.Element{
			&twiml.VoiceSay{Message: sayMisconfigured},
			&twiml.VoiceHangup{},
		})
	}
}

// Record webhook
// @Summary Record a voicemail
// @Description Entered from a redirect (whitelisted or recently screened callers) or from the press-1 gather. Any digit other than 1 hangs up without recording.
// @Tags Webhooks
// @Param Digits formData string false "Digit pressed in the gather, absent on redirect"
// @Success 200 {string} string "TwiML voice response"
// @Accept x-www-form-urlencoded
// @Produce xml
// @Router /webhook/voice/record [post]
func (va *VoiceWebhookApi) Record(c *gin.Context) {
	digits := c.PostForm("Digits")
	if digits != "" && digits != "1" {
		respondVoice(c, []twiml.Element{
			&twiml.VoiceSay{Message: sayNotRecording},
			&twiml.VoiceHangup{},
		})
		return
	}
	respondVoice(c, []twiml.Element{
		&twiml.VoiceSay{Message: sayLeaveMessage},
		&twiml.VoiceRecord{
			Action:             "/webhook/voice/hangup",
			MaxLength:          "120",
			Transcribe:         "true",
			TranscribeCallback: "/webhook/voice/transcription",
		},
	})
}

// Hangup webhook
// @Summary Close the call after a recording finished
// @Tags Webhooks
// @Success 200 {string} string "TwiML voice response"
// @Produce xml
// @Router /webhook/voice/hangup [post]
func (va *VoiceWebhookApi) HangUp(c *gin.Context) {
	respondVoice(c, []twiml.Element{
		&twiml.VoiceSay{Message: sayRecorded},
		&twiml.VoiceHangup{},
	})
}

// Transcription callback
// @Summary Accept a finished voicemail transcription
// @Description Queues the voicemail notification fan-out (email, text, optional recording archive)
// @Tags Webhooks
// @Param From formData string true "Caller phone number (E.164)"
// @Param TranscriptionText formData string false "Transcribed voicemail text"
// @Param TranscriptionStatus formData string false "completed or failed"
// @Param RecordingSid formData string true "Recording identifier"
// @Param RecordingUrl formData string false "Recording media URL"
// @Success 204 "queued"
// @Accept x-www-form-urlencoded
// @Router /webhook/voice/transcription [post]
func (va *VoiceWebhookApi) Transcription(c *gin.Context) {
	transcription := c.PostForm("TranscriptionText")
	if c.PostForm("TranscriptionStatus") != "completed" || transcription == "" {
		transcription = "(transcription failed)"
	}
	vm := &types.Voicemail{
		ID:            uuid.NewString(),
		From:          c.PostForm("From"),
		Transcription: transcription,
		RecordingSid:  c.PostForm("RecordingSid"),
		RecordingURL:  c.PostForm("RecordingUrl"),
		Created:       time.Now().UTC().UnixMilli(),
	}
	if err := va.messagingService.QueueVoicemail(c.Request.Context(), vm); err != nil {
		level.Error(global.Logger).Log("error", err, "msg", "failed to queue voicemail notification")
		ApiErrorf(c, http.StatusInternalServerError, "failed to queue notification")
		return
	}
	metrics.VoicemailsReceivedMetricsCount.Inc()
	c.Status(http.StatusNoContent)
}

func screeningIntro(mailbox *types.Mailbox) string {
	return fmt.Sprintf("Hello! %s can't answer the phone right now, and they don't check voicemail either.", mailbox.Name)
}

func respondVoice(c *gin.Context, elements []twiml.Element) {
	doc, err := twiml.Voice(elements)
	if err != nil {
		ApiErrorf(c, http.StatusInternalServerError, "failed to render response")
		return
	}
	c.Header("Content-Type", "text/xml")
	c.String(http.StatusOK, doc)
}
