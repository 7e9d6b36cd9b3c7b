package cmd

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ryan-gang/mail-blast/internal/campaign"
	"github.com/ryan-gang/mail-blast/internal/cmdutil"
	"github.com/ryan-gang/mail-blast/internal/config"
	"github.com/ryan-gang/mail-blast/internal/daemon"
	"github.com/ryan-gang/mail-blast/internal/logger"
	"github.com/ryan-gang/mail-blast/internal/metrics"
	"github.com/ryan-gang/mail-blast/internal/transport"
	"github.com/ryan-gang/mail-blast/internal/util"
)

const stopTimeout = 30 * time.Second

func init() {
	rootCmd.AddCommand(daemonCmd)

	daemonCmd.AddCommand(daemonStartCmd)
	daemonCmd.AddCommand(daemonStopCmd)
	daemonCmd.AddCommand(daemonStatusCmd)
	daemonCmd.AddCommand(daemonRestartCmd)
}

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Daemon management commands",
	Long: `Manage the mail-blast background daemon that sends the configured campaign
on a schedule. Recipients appended to the CSV file, and recipients left over
after a quota stop, are sent on the next cycle.`,
}

var daemonStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the mail-blast daemon",
	Long:  `Start the background daemon that sends the configured campaign to pending recipients every configured interval.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := cmdutil.LoadConfigOrExit(cmd)
		cmdutil.CheckDaemonEnabledOrExit(cfg)
		startDaemon(cfg)
	},
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the mail-blast daemon",
	Long:  `Stop the running background daemon.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := cmdutil.LoadConfigOrExit(cmd)

		if err := daemon.SignalStop(cfg.GetPidFile(), stopTimeout); err != nil {
			util.LogError(util.DaemonError, "stopping daemon", err)
			os.Exit(1)
		}
		util.Green.Println("Daemon stopped successfully")
	},
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check daemon status",
	Long:  `Check if the mail-blast daemon is currently running and display its configuration.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := cmdutil.LoadConfigOrExit(cmd)
		if err := daemon.Status(cfg); err != nil {
			os.Exit(1)
		}
	},
}

var daemonRestartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the mail-blast daemon",
	Long:  `Stop and then start the mail-blast daemon.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := cmdutil.LoadConfigOrExit(cmd)
		cmdutil.CheckDaemonEnabledOrExit(cfg)

		if daemon.IsRunning(cfg.GetPidFile()) {
			util.Cyan.Println("Stopping existing daemon...")
			if err := daemon.SignalStop(cfg.GetPidFile(), stopTimeout); err != nil {
				util.LogError(util.DaemonError, "stopping daemon", err)
				os.Exit(1)
			}
		}

		util.Cyan.Println("Starting daemon...")
		startDaemon(cfg)
	},
}

func startDaemon(cfg config.ConfigProvider) {
	log, err := logger.NewLogger(cfg, os.Stdout)
	if err != nil {
		util.LogError(util.DaemonError, "creating logger", err)
		os.Exit(1)
	}

	// The daemon cannot prompt, so Gmail needs a token from 'mail-blast auth'.
	sender, err := transport.Default().Build(context.Background(), cfg, nil)
	if err != nil {
		util.LogError(util.DaemonError, "creating transport", err)
		os.Exit(1)
	}

	m := metrics.NewMetrics()
	processor := campaign.NewProcessor(sender,
		campaign.WithLedger(cfg.GetLedgerDir()),
		campaign.WithLogger(log),
		campaign.WithMetrics(m),
	)
	next := func() (campaign.Campaign, error) {
		draft, err := cmdutil.BuildDraft(cfg, cmdutil.DraftOptions{})
		if err != nil {
			return campaign.Campaign{}, err
		}
		return campaign.Campaign{RecipientsPath: cfg.GetRecipientsPath(), Draft: draft}, nil
	}

	d := daemon.NewDaemon(cfg, processor, next, log, m)
	if err := d.Start(); err != nil {
		util.LogError(util.DaemonError, "starting daemon", err)
		os.Exit(1)
	}
}
