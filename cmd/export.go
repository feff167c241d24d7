package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/antivoicemail/go-antivoicemail-server/types"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"
)

var (
	mailboxFile string
	outputFile  string
)

func init() {
	exportCmd.Flags().StringVarP(&mailboxFile, "mailbox", "m", "", "Path to a mailbox JSON document")
	exportCmd.Flags().StringVarP(&outputFile, "out", "o", "", "Write a QR PNG here instead of printing the payload")
	exportCmd.MarkFlagRequired("mailbox")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a mailbox as a config payload or QR image",
	Long:  `Reads a mailbox JSON document and prints the portable config payload, or renders it as the same QR config image the server texts to the owner.`,
	Run: func(cmd *cobra.Command, args []string) {
		data, err := os.ReadFile(mailboxFile)
		check(err)

		var mailbox types.Mailbox
		check(json.Unmarshal(data, &mailbox))

		payload, pErr := types.ExportMailbox(&mailbox)
		check(pErr)

		if outputFile == "" {
			fmt.Println(payload)
			return
		}
		check(qrcode.WriteFile(payload, qrcode.Medium, 512, outputFile))
		fmt.Printf("wrote %s\n", outputFile)
	},
}
