package apiroutes

import (
	"github.com/antivoicemail/go-antivoicemail-server/api"
	restinterceptors "github.com/antivoicemail/go-antivoicemail-server/api/interceptors"
	"github.com/antivoicemail/go-antivoicemail-server/global"
	"github.com/antivoicemail/go-antivoicemail-server/metrics"
	"github.com/antivoicemail/go-antivoicemail-server/repository"
	"github.com/antivoicemail/go-antivoicemail-server/services"
	"github.com/antivoicemail/go-antivoicemail-server/types"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// REST API routes
func ConfigRoutes(router *gin.Engine, dbSelector *repository.CouchDBSelector, env *types.Environment) *gin.Engine {
	// init metrics
	if global.Conf.Prometheus.Enabled {

		metrics.InitMetrics()

		authorized := router.Group("/metrics", gin.BasicAuth(gin.Accounts{
			global.Conf.Prometheus.Username: global.Conf.Prometheus.Password,
		}))

		authorized.GET("", gin.WrapH(promhttp.Handler()))
	}

	// SERVICE definitions
	mailboxService := services.NewMailboxService(dbSelector)
	lookupService := services.NewLookupService(global.Conf.Twilio.LookupURL, global.Conf.Twilio.AccountSid, global.Conf.Twilio.AuthToken, false)
	messagingService := services.NewMessagingService(env)
	configImageService := services.NewConfigImageService(global.Conf.App.QrDecodeURL, false)
	recentCallers := services.NewRecentCallerCache()

	dialogueService := services.NewDialogueService(mailboxService, lookupService, messagingService, configImageService)
	routerService := services.NewCallRouterService(mailboxService, lookupService, recentCallers, messagingService)

	// API definitions
	smsApi := api.NewSmsWebhookApi(dialogueService)
	voiceApi := api.NewVoiceWebhookApi(routerService, messagingService)
	configImageApi := api.NewConfigImageApi(mailboxService, configImageService)
	healthApi := api.NewHealthCheckAPI()

	// WEBHOOKS (signed by Twilio)
	webhooks := router.Group("/webhook", metrics.MetricsMiddleware(), restinterceptors.RateLimitMiddleware(), restinterceptors.TwilioSignatureMiddleware())
	{
		webhooks.POST("/sms", smsApi.IncomingSms)
		webhooks.POST("/sms/fallback", smsApi.SmsFallback)
		webhooks.POST("/voice", voiceApi.IncomingCall)
		webhooks.POST("/voice/fallback", voiceApi.CallFallback)
		webhooks.POST("/voice/record", voiceApi.Record)
		webhooks.POST("/voice/hangup", voiceApi.HangUp)
		webhooks.POST("/voice/transcription", voiceApi.Transcription)
	}

	// PUBLIC API (Twilio fetches the MMS media from here without a signature)
	publicApi := router.Group("/", metrics.MetricsMiddleware(), restinterceptors.RateLimitMiddleware())
	{
		publicApi.GET("/config-image", configImageApi.GetConfigImage)
		publicApi.GET("/api/v1/healthcheck", healthApi.HealthCheck)
	}

	return router
}
