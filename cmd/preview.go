package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ryan-gang/mail-blast/internal/cmdutil"
	"github.com/ryan-gang/mail-blast/internal/ledger"
	"github.com/ryan-gang/mail-blast/internal/recipients"
	"github.com/ryan-gang/mail-blast/internal/util"
)

func init() {
	rootCmd.AddCommand(previewCmd)
	addCampaignFlags(previewCmd)
	previewCmd.Flags().IntP("limit", "n", 10, "Number of recipients to list")
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Show the message and recipients without sending",
	Long:  `Renders the subject and body exactly as send would, and lists the recipients that would receive them.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := cmdutil.LoadConfigOrExit(cmd)

		draft, err := cmdutil.BuildDraft(cfg, draftOptions(cmd))
		if err != nil {
			util.LogError(util.FileError, "preparing message", err)
			os.Exit(1)
		}

		util.CyanBold.Print("From:    ")
		util.Cyan.Println(draft.For("").FromHeader())
		util.CyanBold.Print("Subject: ")
		util.Cyan.Println(draft.Subject)
		util.CyanBold.Println(strings.Repeat("-", 60))
		util.Magenta.Println(draft.Body)
		util.CyanBold.Println(strings.Repeat("-", 60))
		if draft.HTML != "" {
			util.Cyan.Printf("An HTML alternative of %d bytes is attached\n", len(draft.HTML))
		}

		path := recipientsPath(cmd, cfg.GetRecipientsPath())
		if path == "" {
			util.Yellow.Println("No recipients file configured")
			return
		}
		list, err := recipients.Load(path)
		if err != nil {
			util.LogError(util.RecipientError, "loading recipients", err)
			os.Exit(1)
		}

		pending := list
		if led, err := ledger.Open(cfg.GetLedgerDir(), draft); err == nil {
			pending = led.Pending(list)
		} else {
			util.Yellow.Printf("Could not read delivery ledger: %v\n", err)
		}

		util.CyanBold.Printf("\n%d recipients, %d not yet sent this campaign\n", len(list), len(pending))
		limit, _ := cmd.Flags().GetInt("limit")
		for i, r := range pending {
			if i == limit {
				util.Cyan.Printf("... and %d more\n", len(pending)-limit)
				break
			}
			util.Cyan.Printf("  %s\n", r)
		}
	},
}
