package types

import (
	"encoding/base64"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
)

func TestExportImportRoundTrip(t *testing.T) {
	mailbox := &Mailbox{
		PhoneNumber:             "+15556667777",
		Carrier:                 "Verizon Wireless",
		Name:                    "Jane",
		Email:                   "jane@example.com",
		CallForwardingConfirmed: true,
		QrCodePreference:        QrPreferenceAccepted,
		Whitelist:               []string{"+17775551234"},
	}

	payload, err := ExportMailbox(mailbox)
	assert.NoError(t, err)
	assert.Contains(t, payload, "avm1:")

	restored, err := ImportPayload(payload)
	assert.NoError(t, err)
	assert.Equal(t, mailbox.PhoneNumber, restored.PhoneNumber)
	assert.Equal(t, mailbox.Carrier, restored.Carrier)
	assert.Equal(t, mailbox.Name, restored.Name)
	assert.Equal(t, mailbox.Email, restored.Email)
	assert.Equal(t, mailbox.QrCodePreference, restored.QrCodePreference)
	assert.False(t, restored.CallForwardingConfirmed)
	assert.Empty(t, restored.Whitelist)
}

func TestImportPayloadRejectsGarbage(t *testing.T) {
	cases := []string{
		"",
		"hello world",
		"avm1:",
		"avm1:!!!not-base64!!!",
		"avm2:AAAA",
	}
	for _, c := range cases {
		_, err := ImportPayload(c)
		assert.ErrorIs(t, err, ErrInvalidPayload, c)
	}
}

func TestImportPayloadRequiresPhoneNumber(t *testing.T) {
	data, err := cbor.Marshal(&ConfigPayload{Name: "Jane"})
	assert.NoError(t, err)
	payload := "avm1:" + base64.RawURLEncoding.EncodeToString(data)

	_, err = ImportPayload(payload)
	assert.ErrorIs(t, err, ErrInvalidPayload)
}
