package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/ryan-gang/mail-blast/internal/config"
	"github.com/ryan-gang/mail-blast/internal/util"
)

func init() {
	var configPath string
	configPath, err := config.DefaultConfigPath()
	if err != nil {
		util.Red.Println("Error setting default config path: ", err)
		os.Exit(1)
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", configPath, "Path to config file")

}

var rootCmd = &cobra.Command{
	Use:   "mail-blast",
	Short: "Send one message to every address of a CSV file",
	Long: `mail-blast composes one email from a template and sends it to every
recipient listed in the email column of a CSV file, one at a time.

It stops as soon as the provider reports a quota or rate limit, so no
further sends are burnt against a limit that rejects them all. Deliveries
are remembered per campaign, so running the same campaign again the next
day only sends to the recipients that were left over.

Gmail (OAuth), SMTP, Amazon SES and Resend are supported.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// A missing .env is normal.
		_ = godotenv.Load()
	},
	Run: func(cmd *cobra.Command, args []string) {
		// Show help if no command is provided
		cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
