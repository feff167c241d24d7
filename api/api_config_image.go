package api

import (
	"errors"
	"net/http"

	"github.com/antivoicemail/go-antivoicemail-server/services"
	"github.com/antivoicemail/go-antivoicemail-server/types"
	"github.com/gin-gonic/gin"
)

type ConfigImageApi struct {
	mailboxService     services.MailboxStore
	configImageService *services.ConfigImageService
}

func NewConfigImageApi(mailboxService services.MailboxStore, configImageService *services.ConfigImageService) *ConfigImageApi {
	return &ConfigImageApi{
		mailboxService:     mailboxService,
		configImageService: configImageService,
	}
}

// Config image
// @Summary Render the mailbox config as a QR code image
// @Description Twilio fetches this URL as the MMS media when the config image is texted to the owner
// @Tags Config
// @Success 200 {string} string "PNG image"
// @Produce png
// @Router /config-image [get]
func (ca *ConfigImageApi) GetConfigImage(c *gin.Context) {
	mailbox, err := ca.mailboxService.GetAny(c.Request.Context())
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			ApiErrorf(c, http.StatusNotFound, "no mailbox configured")
			return
		}
		ApiErrorf(c, http.StatusInternalServerError, "failed to load mailbox")
		return
	}
	img, gErr := ca.configImageService.GenerateConfigImage(mailbox)
	if gErr != nil {
		ApiErrorf(c, http.StatusInternalServerError, "failed to render config image")
		return
	}
	c.Data(http.StatusOK, "image/png", img)
}
