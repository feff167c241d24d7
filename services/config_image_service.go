package services

import (
	"context"
	"fmt"

	"github.com/antivoicemail/go-antivoicemail-server/types"
	"github.com/go-resty/resty/v2"
	"github.com/jarcoal/httpmock"
	qrcode "github.com/skip2/go-qrcode"
)

// ConfigImageService turns the mailbox into a QR config image and back.
// Decoding goes through a remote read-qr-code API because the texted image
// arrives as a Twilio media URL, not as bytes.
type ConfigImageService struct {
	client *resty.Client
}

type qrReadResult struct {
	Type   string `json:"type"`
	Symbol []struct {
		Data  *string `json:"data"`
		Error *string `json:"error"`
	} `json:"symbol"`
}

func NewConfigImageService(decodeBaseURL string, mock bool) *ConfigImageService {
	client := resty.New().SetBaseURL(decodeBaseURL)
	if mock {
		httpmock.ActivateNonDefault(client.GetClient())
	}
	return &ConfigImageService{client: client}
}

// GenerateConfigImage renders the mailbox's portable config payload as a
// QR code PNG.
func (cs *ConfigImageService) GenerateConfigImage(mailbox *types.Mailbox) ([]byte, error) {
	payload, err := types.ExportMailbox(mailbox)
	if err != nil {
		return nil, err
	}
	return qrcode.Encode(payload, qrcode.Medium, 512)
}

// DecodeConfigImage reads the QR code at imageURL and returns the embedded
// payload string.
func (cs *ConfigImageService) DecodeConfigImage(ctx context.Context, imageURL string) (string, error) {
	var results []qrReadResult
	resp, err := cs.client.R().
		SetContext(ctx).
		SetQueryParam("fileurl", imageURL).
		SetResult(&results).
		Get("/v1/read-qr-code/")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("qr read api returned %d", resp.StatusCode())
	}
	if len(results) == 0 || len(results[0].Symbol) == 0 {
		return "", types.ErrInvalidPayload
	}
	symbol := results[0].Symbol[0]
	if symbol.Data == nil {
		if symbol.Error != nil {
			return "", fmt.Errorf("qr read failed: %s", *symbol.Error)
		}
		return "", types.ErrInvalidPayload
	}
	return *symbol.Data, nil
}
