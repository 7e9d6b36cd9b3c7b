package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/ryan-gang/mail-blast/internal/cmdutil"
	"github.com/ryan-gang/mail-blast/internal/credentials"
	"github.com/ryan-gang/mail-blast/internal/transport"
	"github.com/ryan-gang/mail-blast/internal/util"
)

func init() {
	rootCmd.AddCommand(authCmd)
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Authorize mail-blast to send through your Gmail account",
	Long: `Runs the Google consent flow in your browser and stores the resulting
token next to the configuration. An existing token is refreshed instead when
possible. Only needed for the gmail provider; the daemon cannot prompt, so
run this once before starting it.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := cmdutil.LoadConfigOrExit(cmd)
		if cfg.GetProvider() != "gmail" {
			util.Cyan.Printf("Provider is %s, no authorization needed\n", cfg.GetProvider())
			return
		}

		provider, err := transport.GmailCredentials(cfg, &credentials.LoopbackAuthorizer{Out: os.Stdout})
		if err != nil {
			util.LogError(util.AuthError, "reading client secrets", err)
			os.Exit(1)
		}

		if _, err := provider.Reauthorize(context.Background()); err != nil {
			util.LogError(util.AuthError, "authorizing", err)
			os.Exit(1)
		}
		util.Green.Printf("Authorized, token stored at %s\n", cfg.GetTokenPath())
	},
}
