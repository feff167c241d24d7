package services

import (
	"context"
	"net/url"

	"github.com/antivoicemail/go-antivoicemail-server/global"
	"github.com/antivoicemail/go-antivoicemail-server/types"
	"github.com/go-kit/log/level"
	"github.com/go-resty/resty/v2"
	"github.com/jarcoal/httpmock"
)

// DeviceLookup resolves a phone number to device and carrier information.
// Implementations never return an error; a failed lookup degrades to
// DeviceUnknown so call routing can fall back to the gated recording path.
type DeviceLookup interface {
	LookupDevice(ctx context.Context, number string) types.DeviceInfo
}

// LookupService queries the Twilio Lookup API for carrier information.
type LookupService struct {
	client *resty.Client
}

type lookupResponse struct {
	Carrier types.DeviceInfo `json:"carrier"`
}

func NewLookupService(baseURL, accountSid, authToken string, mock bool) *LookupService {
	client := resty.New().
		SetBaseURL(baseURL).
		SetBasicAuth(accountSid, authToken)
	if mock {
		httpmock.ActivateNonDefault(client.GetClient())
	}
	return &LookupService{client: client}
}

// LookupDevice fetches the carrier block for the number. Any failure is
// logged and reported as DeviceUnknown.
func (ls *LookupService) LookupDevice(ctx context.Context, number string) types.DeviceInfo {
	var result lookupResponse
	resp, err := ls.client.R().
		SetContext(ctx).
		SetQueryParam("Type", "carrier").
		SetResult(&result).
		Get("/v1/PhoneNumbers/" + url.PathEscape(number))
	if err != nil {
		level.Error(global.Logger).Log("error", err, "msg", "carrier lookup failed", "number", number)
		return types.DeviceUnknown
	}
	if resp.IsError() {
		level.Warn(global.Logger).Log("status", resp.StatusCode(), "msg", "carrier lookup rejected", "number", number)
		return types.DeviceUnknown
	}
	return result.Carrier
}
