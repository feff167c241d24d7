package types

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// payloadPrefix versions the config-image payload format
const payloadPrefix = "avm1:"

// ConfigPayload is the portable form of a mailbox used for backup/restore.
// CallForwardingConfirmed is always exported as false (a restored mailbox must
// re-confirm forwarding with a fresh self-test call) and the whitelist is not
// portable, so it is never part of the payload.
type ConfigPayload struct {
	PhoneNumber      string       `json:"phoneNumber" cbor:"1,keyasint"`
	Carrier          string       `json:"carrier,omitempty" cbor:"2,keyasint,omitempty"`
	Name             string       `json:"name,omitempty" cbor:"3,keyasint,omitempty"`
	Email            string       `json:"email,omitempty" cbor:"4,keyasint,omitempty"`
	QrCodePreference QrPreference `json:"qrCodePreference,omitempty" cbor:"5,keyasint,omitempty"`
}

// ExportMailbox serializes a mailbox into the compact string that gets encoded
// into the config image.
func ExportMailbox(m *Mailbox) (string, error) {
	payload := ConfigPayload{
		PhoneNumber:      m.PhoneNumber,
		Carrier:          m.Carrier,
		Name:             m.Name,
		Email:            m.Email,
		QrCodePreference: m.QrCodePreference,
	}
	data, err := cbor.Marshal(&payload)
	if err != nil {
		return "", err
	}
	return payloadPrefix + base64.RawURLEncoding.EncodeToString(data), nil
}

// ImportPayload parses a scanned config-image string back into a mailbox.
// A payload that can't be decoded or lacks a phone number fails with
// ErrInvalidPayload; it never panics on garbage input.
func ImportPayload(data string) (*Mailbox, error) {
	if !strings.HasPrefix(data, payloadPrefix) {
		return nil, ErrInvalidPayload
	}
	raw, b64Err := base64.RawURLEncoding.DecodeString(strings.TrimPrefix(data, payloadPrefix))
	if b64Err != nil {
		return nil, ErrInvalidPayload
	}
	var payload ConfigPayload
	if cErr := cbor.Unmarshal(raw, &payload); cErr != nil {
		return nil, ErrInvalidPayload
	}
	if payload.PhoneNumber == "" {
		return nil, ErrInvalidPayload
	}
	now := time.Now().UTC().UnixMilli()
	return &Mailbox{
		PhoneNumber:             payload.PhoneNumber,
		Carrier:                 payload.Carrier,
		Name:                    payload.Name,
		Email:                   payload.Email,
		QrCodePreference:        payload.QrCodePreference,
		CallForwardingConfirmed: false,
		Created:                 now,
		Modified:                now,
	}, nil
}
