package util

import (
	"errors"
	"fmt"
)

// ErrUnknownCarrier means a carrier has no star-code mapping
var ErrUnknownCarrier = errors.New("unknown carrier")

// starCodes holds the conditional-call-forwarding codes per US carrier, keyed
// by the carrier name the Lookup API reports. The enable code forwards
// unanswered/busy calls to the number between prefix and suffix.
type starCodes struct {
	enablePrefix string
	enableSuffix string
	disable      string
}

var carrierStarCodes = map[string]starCodes{
	"AT&T Wireless":         {enablePrefix: "**004*", enableSuffix: "#", disable: "##004#"},
	"T-Mobile USA, Inc.":    {enablePrefix: "**004*", enableSuffix: "#", disable: "##004#"},
	"Verizon Wireless":      {enablePrefix: "*71", disable: "*73"},
	"Sprint Spectrum, L.P.": {enablePrefix: "*28", disable: "*38"},
}

// ForwardingCode composes the dial string that enables conditional call
// forwarding to voicemailNumber (E.164) on the given carrier.
func ForwardingCode(carrier string, voicemailNumber string) (string, error) {
	codes, ok := carrierStarCodes[carrier]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCarrier, carrier)
	}
	return codes.enablePrefix + NationalDigits(voicemailNumber) + codes.enableSuffix, nil
}

// DisableCode returns the dial string that switches conditional call
// forwarding off again for the given carrier.
func DisableCode(carrier string) (string, error) {
	codes, ok := carrierStarCodes[carrier]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownCarrier, carrier)
	}
	return codes.disable, nil
}
