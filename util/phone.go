package util

import (
	"github.com/antivoicemail/go-antivoicemail-server/types"
	"github.com/nyaruka/phonenumbers"
)

// ParsePhoneNumber validates raw against the given default region and returns
// the canonical E.164 form. Anything that doesn't parse to a valid number is
// ErrInvalidPhoneNumber.
func ParsePhoneNumber(raw string, region string) (string, error) {
	num, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return "", types.ErrInvalidPhoneNumber
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", types.ErrInvalidPhoneNumber
	}
	return phonenumbers.Format(num, phonenumbers.E164), nil
}

// NationalFormat renders an E.164 number the way a human would read it,
// e.g. +17777777777 -> (777) 777-7777. Falls back to the input on parse failure.
func NationalFormat(e164 string) string {
	num, err := phonenumbers.Parse(e164, "")
	if err != nil {
		return e164
	}
	return phonenumbers.Format(num, phonenumbers.NATIONAL)
}

// NationalDigits returns the national significant number without formatting,
// e.g. +19999999999 -> 9999999999. Used to compose carrier star codes.
func NationalDigits(e164 string) string {
	num, err := phonenumbers.Parse(e164, "")
	if err != nil {
		return e164
	}
	return phonenumbers.GetNationalSignificantNumber(num)
}

// RegionCode derives the ISO region of an E.164 number, falling back to
// fallback when the number can't be parsed.
func RegionCode(e164 string, fallback string) string {
	num, err := phonenumbers.Parse(e164, "")
	if err != nil {
		return fallback
	}
	region := phonenumbers.GetRegionCodeForNumber(num)
	if region == "" {
		return fallback
	}
	return region
}
