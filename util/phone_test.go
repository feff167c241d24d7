package util

import (
	"testing"

	"github.com/antivoicemail/go-antivoicemail-server/types"
	"github.com/stretchr/testify/assert"
)

func TestParsePhoneNumber(t *testing.T) {
	parsed, err := ParsePhoneNumber("(555) 666-7777", "US")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "+15556667777", parsed)
}

func TestParsePhoneNumberAlreadyE164(t *testing.T) {
	parsed, err := ParsePhoneNumber("+447400123456", "US")
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "+447400123456", parsed)
}

func TestParsePhoneNumberInvalid(t *testing.T) {
	_, err := ParsePhoneNumber("not a number", "US")
	assert.ErrorIs(t, err, types.ErrInvalidPhoneNumber)

	// too short to be a valid US number
	_, err = ParsePhoneNumber("12345", "US")
	assert.ErrorIs(t, err, types.ErrInvalidPhoneNumber)
}

func TestNationalFormat(t *testing.T) {
	assert.Equal(t, "(777) 777-7777", NationalFormat("+17777777777"))
}

func TestNationalDigits(t *testing.T) {
	assert.Equal(t, "9999999999", NationalDigits("+19999999999"))
}

func TestRegionCode(t *testing.T) {
	assert.Equal(t, "US", RegionCode("+15556667777", "GB"))
	assert.Equal(t, "GB", RegionCode("garbage", "GB"))
}
