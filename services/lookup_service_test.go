package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
)

var jsonHeader = http.Header{"Content-Type": []string{"application/json"}}

const lookupURL = "http://localhost:4010"

func TestLookupDeviceMobile(t *testing.T) {
	ls := NewLookupService(lookupURL, "AC123", "secret", true)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", lookupURL+"/v1/PhoneNumbers/+17775551234",
		httpmock.NewStringResponder(200, `{"carrier":{"type":"mobile","name":"T-Mobile USA, Inc."}}`).HeaderSet(jsonHeader))

	device := ls.LookupDevice(context.Background(), strangerPhone)
	assert.True(t, device.Textable())
	assert.Equal(t, "T-Mobile USA, Inc.", device.CarrierName)
}

func TestLookupDeviceLandline(t *testing.T) {
	ls := NewLookupService(lookupURL, "AC123", "secret", true)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", lookupURL+"/v1/PhoneNumbers/+17775551234",
		httpmock.NewStringResponder(200, `{"carrier":{"type":"landline","name":"CenturyLink"}}`).HeaderSet(jsonHeader))

	device := ls.LookupDevice(context.Background(), strangerPhone)
	assert.False(t, device.Textable())
}

func TestLookupDeviceFailureDegradesToUnknown(t *testing.T) {
	ls := NewLookupService(lookupURL, "AC123", "secret", true)
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", lookupURL+"/v1/PhoneNumbers/+17775551234",
		httpmock.NewStringResponder(502, `bad gateway`))

	device := ls.LookupDevice(context.Background(), strangerPhone)
	assert.False(t, device.Textable())
	assert.Empty(t, device.CarrierName)
}
