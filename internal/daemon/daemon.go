package daemon

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/ryan-gang/mail-blast/internal/campaign"
	"github.com/ryan-gang/mail-blast/internal/config"
	"github.com/ryan-gang/mail-blast/internal/logger"
	"github.com/ryan-gang/mail-blast/internal/metrics"
	"github.com/ryan-gang/mail-blast/internal/util"
)

// CampaignFunc builds the campaign for one cycle. It is called on every
// tick so template and subject edits are picked up without a restart.
type CampaignFunc func() (campaign.Campaign, error)

type Daemon struct {
	ctx       context.Context
	cancel    context.CancelFunc
	ticker    *time.Ticker
	processor *campaign.Processor
	next      CampaignFunc
	cfg       config.ConfigProvider
	logger    logger.LoggerInterface
	metrics   *metrics.Metrics
	server    *http.Server
}

// NewDaemon wires a daemon around processor. m may be nil when metrics are
// not served.
func NewDaemon(cfg config.ConfigProvider, processor *campaign.Processor, next CampaignFunc, log logger.LoggerInterface, m *metrics.Metrics) *Daemon {
	ctx, cancel := context.WithCancel(context.Background())
	return &Daemon{
		ctx:       ctx,
		cancel:    cancel,
		processor: processor,
		next:      next,
		cfg:       cfg,
		logger:    log,
		metrics:   m,
	}
}

func (d *Daemon) Start() error {
	if err := d.validateConfiguration(); err != nil {
		return err
	}

	if err := d.initializeServices(); err != nil {
		return err
	}
	defer d.logger.Close()

	sigChan := d.setupSignalHandling()
	d.setupTicker()
	d.logStartupInfo()
	d.RunCycle()

	return d.runEventLoop(sigChan)
}

func (d *Daemon) validateConfiguration() error {
	if d.cfg == nil {
		return fmt.Errorf("configuration not provided")
	}

	if !d.cfg.IsDaemonEnabled() {
		return fmt.Errorf("daemon is not enabled in configuration")
	}

	if d.cfg.GetRecipientsPath() == "" {
		return fmt.Errorf("recipients path is not configured")
	}

	if d.cfg.GetCheckInterval() <= 0 {
		return fmt.Errorf("check interval must be positive")
	}

	if IsRunning(d.cfg.GetPidFile()) {
		return fmt.Errorf("daemon is already running")
	}

	return nil
}

func (d *Daemon) initializeServices() error {
	if err := d.writePidFile(); err != nil {
		return fmt.Errorf("failed to write PID file: %w", err)
	}

	if addr := d.cfg.GetMetricsAddr(); addr != "" && d.metrics != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", d.metrics.Handler())
		d.server = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			d.logger.Infof("Serving metrics on %s/metrics", addr)
			if err := d.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				d.logger.Errorf("Metrics server failed: %v", err)
			}
		}()
	}

	return nil
}

func (d *Daemon) setupSignalHandling() chan os.Signal {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	return sigChan
}

func (d *Daemon) setupTicker() {
	interval := time.Duration(d.cfg.GetCheckInterval()) * time.Minute
	d.ticker = time.NewTicker(interval)
}

func (d *Daemon) logStartupInfo() {
	util.GreenBold.Printf("mail-blast daemon started, sending every %d minutes\n", d.cfg.GetCheckInterval())
	util.Cyan.Printf("Recipients: %s\n", d.cfg.GetRecipientsPath())
	util.Cyan.Printf("PID file: %s\n", d.cfg.GetPidFile())
	util.Cyan.Printf("Log file: %s\n", d.cfg.GetLogPath())

	d.logger.Infof("Daemon started with PID %d", os.Getpid())
	d.logger.Infof("Recipients: %s", d.cfg.GetRecipientsPath())
	d.logger.Infof("Check interval: %d minutes", d.cfg.GetCheckInterval())
}

func (d *Daemon) runEventLoop(sigChan chan os.Signal) error {
	for {
		select {
		case <-d.ctx.Done():
			d.logger.Info("Daemon context cancelled")
			d.cleanup()
			return nil
		case sig := <-sigChan:
			d.logger.Infof("Received signal: %v", sig)
			util.Cyan.Printf("Received signal: %v\n", sig)
			d.Stop()
			return nil
		case <-d.ticker.C:
			d.logger.Info("Starting send cycle")
			d.RunCycle()
		}
	}
}

func (d *Daemon) Stop() {
	d.logger.Info("Stopping daemon...")

	if d.ticker != nil {
		d.ticker.Stop()
	}
	if d.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.server.Shutdown(ctx); err != nil {
			d.logger.Warnf("Metrics server shutdown: %v", err)
		}
	}

	d.cancel()
	d.cleanup()

	d.logger.Info("Daemon stopped successfully")
	util.Green.Println("Daemon stopped successfully")
}

// RunCycle sends the campaign once to every pending recipient.
func (d *Daemon) RunCycle() {
	if d.processor == nil || d.next == nil {
		d.logger.Error("Campaign processor not initialized")
		return
	}

	c, err := d.next()
	if err != nil {
		d.logger.Errorf("Error preparing campaign: %v", err)
		return
	}

	report, err := d.processor.Run(d.ctx, c)
	if err != nil {
		d.logger.Errorf("Error running campaign: %v", err)
		return
	}

	attempted := len(report.Result.Outcomes)
	if attempted == 0 {
		d.logger.Info("No pending recipients")
		return
	}
	d.logger.Infof("Cycle done: %d sent, %d failed, %d left", report.Result.SentCount(), report.Result.FailedCount(), report.Remaining)
}

func (d *Daemon) writePidFile() error {
	pid := os.Getpid()
	return os.WriteFile(d.cfg.GetPidFile(), []byte(strconv.Itoa(pid)), 0644)
}

func (d *Daemon) cleanup() {
	if d.cfg.GetPidFile() != "" {
		os.Remove(d.cfg.GetPidFile())
	}
}

func readPid(pidFile string) (int, error) {
	pidData, err := os.ReadFile(pidFile)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(pidData)))
}

// IsRunning reports whether the process named in pidFile is alive.
func IsRunning(pidFile string) bool {
	if pidFile == "" {
		return false
	}

	pid, err := readPid(pidFile)
	if err != nil {
		return false
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}

	// Send signal 0 to check if process exists
	err = process.Signal(syscall.Signal(0))
	return err == nil
}

// SignalStop asks the daemon named in pidFile to shut down and waits up to
// timeout for it to exit.
func SignalStop(pidFile string, timeout time.Duration) error {
	if !IsRunning(pidFile) {
		return fmt.Errorf("daemon is not running")
	}
	pid, err := readPid(pidFile)
	if err != nil {
		return err
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	if err := process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signalling daemon: %w", err)
	}

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if !IsRunning(pidFile) {
			return nil
		}
		time.Sleep(100 * time.Millisecond)
	}
	return fmt.Errorf("daemon (PID %d) did not stop within %s", pid, timeout)
}

func Status(cfg config.ConfigProvider) error {
	if IsRunning(cfg.GetPidFile()) {
		pid, _ := readPid(cfg.GetPidFile())
		util.Green.Printf("Daemon is running (PID: %d)\n", pid)
		util.Cyan.Printf("Recipients: %s\n", cfg.GetRecipientsPath())
		util.Cyan.Printf("Check interval: %d minutes\n", cfg.GetCheckInterval())
		if addr := cfg.GetMetricsAddr(); addr != "" {
			util.Cyan.Printf("Metrics: http://%s/metrics\n", addr)
		}
		return nil
	}
	util.Red.Println("Daemon is not running")
	return fmt.Errorf("daemon is not running")
}
