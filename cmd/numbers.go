package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

var (
	accountSid  string
	authToken   string
	phoneNumber string
	publicURL   string
)

func init() {
	numbersCmd.Flags().StringVar(&accountSid, "sid", "", "Twilio account SID")
	numbersCmd.Flags().StringVar(&authToken, "token", "", "Twilio auth token")
	numbersCmd.Flags().StringVar(&phoneNumber, "number", "", "Twilio phone number (E.164)")
	numbersCmd.Flags().StringVar(&publicURL, "url", "", "Public base URL of the deployment")
	numbersCmd.MarkFlagRequired("sid")
	numbersCmd.MarkFlagRequired("token")
	numbersCmd.MarkFlagRequired("number")
	numbersCmd.MarkFlagRequired("url")
	rootCmd.AddCommand(numbersCmd)
}

var numbersCmd = &cobra.Command{
	Use:   "numbers",
	Short: "Point a Twilio number's webhooks at a deployment",
	Long:  `Updates the SMS, voice and fallback webhook URLs of the given Twilio number. The server does the same on startup; this command covers deployments that can't reach Twilio at boot.`,
	Run: func(cmd *cobra.Command, args []string) {
		client := twilio.NewRestClientWithParams(twilio.ClientParams{
			Username: accountSid,
			Password: authToken,
		})

		listParams := &twilioApi.ListIncomingPhoneNumberParams{}
		listParams.SetPhoneNumber(phoneNumber)
		numbers, err := client.Api.ListIncomingPhoneNumber(listParams)
		check(err)
		if len(numbers) == 0 {
			check(fmt.Errorf("number %s not found on the account", phoneNumber))
		}

		for _, number := range numbers {
			if number.Sid == nil {
				continue
			}
			updateParams := &twilioApi.UpdateIncomingPhoneNumberParams{}
			updateParams.SetSmsUrl(publicURL + "/webhook/sms")
			updateParams.SetSmsFallbackUrl(publicURL + "/webhook/sms/fallback")
			updateParams.SetVoiceUrl(publicURL + "/webhook/voice")
			updateParams.SetVoiceFallbackUrl(publicURL + "/webhook/voice/fallback")
			_, uErr := client.Api.UpdateIncomingPhoneNumber(*number.Sid, updateParams)
			check(uErr)
			fmt.Printf("updated %s\n", *number.Sid)
		}
	},
}
