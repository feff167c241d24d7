package interceptors

import (
	"net/http"

	"github.com/antivoicemail/go-antivoicemail-server/global"
	"github.com/gin-gonic/gin"
	"github.com/twilio/twilio-go/client"
)

// TwilioSignatureMiddleware rejects webhook requests whose X-Twilio-Signature
// doesn't match the posted form. The signature covers the public URL Twilio
// called, so the check uses the configured public base, not the Host header.
func TwilioSignatureMiddleware() gin.HandlerFunc {
	validator := client.NewRequestValidator(global.Conf.Twilio.AuthToken)
	return func(c *gin.Context) {
		if global.Conf.Mode == "test" {
			c.Next()
			return
		}

		if pErr := c.Request.ParseForm(); pErr != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": "malformed form body"})
			return
		}
		params := map[string]string{}
		for key, values := range c.Request.PostForm {
			if len(values) > 0 {
				params[key] = values[0]
			}
		}

		url := global.Conf.App.PublicURL + c.Request.URL.RequestURI()
		signature := c.GetHeader("X-Twilio-Signature")
		if !validator.Validate(url, params, signature) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"code": http.StatusForbidden, "message": "invalid webhook signature"})
			return
		}
		c.Next()
	}
}
