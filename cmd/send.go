package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lithammer/dedent"
	"github.com/spf13/cobra"

	"github.com/ryan-gang/mail-blast/internal/campaign"
	"github.com/ryan-gang/mail-blast/internal/cmdutil"
	"github.com/ryan-gang/mail-blast/internal/credentials"
	"github.com/ryan-gang/mail-blast/internal/logger"
	"github.com/ryan-gang/mail-blast/internal/mail"
	"github.com/ryan-gang/mail-blast/internal/transport"
	"github.com/ryan-gang/mail-blast/internal/util"
)

func init() {
	rootCmd.AddCommand(sendCmd)
}

var (
	helpLong = `Sends the message to every recipient of the CSV file, in file order, one
at a time. Each send is attempted exactly once.

A failure for one recipient (bad address, network error) is reported and
the batch moves on. A quota or rate limit failure stops the batch: the
remaining recipients are not attempted and are sent on the next run of the
same campaign, unless --no-ledger is given.`

	helpExample = dedent.Dedent(`
		# Send with subject, template and recipients from the configuration
		mail-blast send

		# Send a markdown template to a list, giving up after ten minutes
		mail-blast send -s "Spring launch" -t launch.md -f markdown -r customers.csv --timeout 10m

		# Send again to everyone, ignoring earlier deliveries
		mail-blast send --no-ledger`,
	)
)

func init() {
	addCampaignFlags(sendCmd)
	sendCmd.Flags().Bool("no-ledger", false, "Send to every recipient, even those that already received this campaign")
	sendCmd.Flags().Duration("timeout", 0, "Overall deadline for the batch, 0 for none")
}

var sendCmd = &cobra.Command{
	Use:     "send",
	Short:   "Send the campaign to every pending recipient",
	Long:    helpLong,
	Example: helpExample,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := cmdutil.LoadConfigOrExit(cmd)

		draft, err := cmdutil.BuildDraft(cfg, draftOptions(cmd))
		if err != nil {
			util.LogError(util.FileError, "preparing message", err)
			os.Exit(1)
		}
		path := recipientsPath(cmd, cfg.GetRecipientsPath())
		if path == "" {
			util.Red.Println("No recipients file, pass --recipients or set it in the configuration")
			os.Exit(1)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		if timeout, _ := cmd.Flags().GetDuration("timeout"); timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}

		authorizer := &credentials.LoopbackAuthorizer{Out: os.Stdout}
		sender, err := transport.Default().Build(ctx, cfg, authorizer)
		if err != nil {
			util.LogError(util.MailError, "creating transport", err)
			os.Exit(1)
		}

		log, err := logger.NewLogger(cfg, nil)
		if err != nil {
			util.LogError(util.FileError, "opening log", err)
			os.Exit(1)
		}
		defer log.Close()

		opts := []campaign.Option{
			campaign.WithLogger(log),
			campaign.WithObserver(printOutcome),
		}
		if noLedger, _ := cmd.Flags().GetBool("no-ledger"); !noLedger {
			opts = append(opts, campaign.WithLedger(cfg.GetLedgerDir()))
		}

		util.CyanBold.Printf("Sending %q via %s\n", draft.Subject, sender.Name())
		start := time.Now()
		report, err := campaign.NewProcessor(sender, opts...).Run(ctx, campaign.Campaign{RecipientsPath: path, Draft: draft})
		if err != nil && len(report.Result.Outcomes) == 0 {
			util.LogError(util.RecipientError, "running batch", err)
			os.Exit(1)
		}

		printReport(report, time.Since(start))
		if err != nil {
			util.LogError(util.FileError, "recording deliveries", err)
		}
		if report.Result.StoppedEarly || report.Result.Interrupted || err != nil {
			os.Exit(2)
		}
	},
}

func printOutcome(i int, o mail.Outcome) {
	if o.Sent {
		util.Green.Printf("%4d  sent    %s\n", i+1, o.Recipient)
		return
	}
	if o.StopsBatch() {
		util.RedBold.Printf("%4d  failed  %s  [%s] %s\n", i+1, o.Recipient, o.Class, o.Reason)
		return
	}
	util.Red.Printf("%4d  failed  %s  %s\n", i+1, o.Recipient, o.Reason)
}

func printReport(report campaign.Report, elapsed time.Duration) {
	result := report.Result
	util.Cyan.Printf("\n%d recipients in file", report.Total)
	if report.Skipped > 0 {
		util.Cyan.Printf(", %d already sent earlier", report.Skipped)
	}
	util.Cyan.Println()

	if report.Total > 0 && len(result.Outcomes) == 0 && !result.Interrupted {
		util.Green.Println("Nothing to send, every recipient already received this campaign")
		return
	}

	util.GreenBold.Printf("%d sent", result.SentCount())
	if n := result.FailedCount(); n > 0 {
		util.RedBold.Printf(", %d failed", n)
	}
	util.Cyan.Printf(" in %s\n", elapsed.Round(time.Millisecond))

	switch {
	case result.StoppedEarly:
		last, _ := result.Last()
		util.YellowBold.Printf("WARNING: stopped early, the provider reported %s.\n", last.Class)
		util.Yellow.Printf("%d recipients were not attempted. Run the same campaign again once the limit resets.\n", report.NotAttempted())
		if last.Heuristic {
			util.Yellow.Println("The limit was recognised from the error wording only; check the provider's message above.")
		}
	case result.Interrupted:
		util.YellowBold.Printf("WARNING: interrupted, %d recipients were not attempted.\n", report.NotAttempted())
	}
}
