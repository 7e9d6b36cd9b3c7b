package daemon

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ryan-gang/mail-blast/internal/campaign"
	"github.com/ryan-gang/mail-blast/internal/config"
	"github.com/ryan-gang/mail-blast/internal/logger"
	"github.com/ryan-gang/mail-blast/internal/mail"
)

type countingTransport struct {
	sent int
}

func (c *countingTransport) Name() string { return "stub" }

func (c *countingTransport) Send(_ context.Context, msg mail.Message) mail.Outcome {
	c.sent++
	return mail.Sent(msg.Recipient, "id")
}

func testConfig(t *testing.T) config.ConfigProvider {
	t.Helper()
	dir := t.TempDir()
	csv := filepath.Join(dir, "list.csv")
	require.NoError(t, os.WriteFile(csv, []byte("email\na@x.com\nb@x.com\n"), 0644))

	c := config.NewConfig()
	c.Sender = "ada@x.com"
	c.RecipientsPath = csv
	c.DaemonEnabled = true
	c.PidFile = filepath.Join(dir, "mail-blast.pid")
	c.LedgerDir = filepath.Join(dir, "ledger")
	return config.NewConfigProvider(c)
}

func TestRunCycleSendsOnlyOnce(t *testing.T) {
	cfg := testConfig(t)
	transport := &countingTransport{}
	var buf bytes.Buffer
	log := logger.New(&buf)
	processor := campaign.NewProcessor(transport, campaign.WithLedger(cfg.GetLedgerDir()), campaign.WithLogger(log))
	next := func() (campaign.Campaign, error) {
		return campaign.Campaign{RecipientsPath: cfg.GetRecipientsPath(), Draft: mail.Draft{Subject: "Hi", Body: "Hello"}}, nil
	}

	d := NewDaemon(cfg, processor, next, log, nil)
	d.RunCycle()
	d.RunCycle()

	assert.Equal(t, 2, transport.sent)
	assert.Contains(t, buf.String(), "Cycle done: 2 sent, 0 failed, 0 left")
	assert.Contains(t, buf.String(), "No pending recipients")
}

func TestRunCycleReportsCampaignErrors(t *testing.T) {
	cfg := testConfig(t)
	var buf bytes.Buffer
	log := logger.New(&buf)
	next := func() (campaign.Campaign, error) {
		return campaign.Campaign{}, errors.New("template missing")
	}

	NewDaemon(cfg, campaign.NewProcessor(&countingTransport{}), next, log, nil).RunCycle()

	assert.Contains(t, buf.String(), "template missing")
}

func TestValidateConfiguration(t *testing.T) {
	cfg := testConfig(t)
	d := NewDaemon(cfg, nil, nil, logger.Nop(), nil)
	assert.NoError(t, d.validateConfiguration())

	require.NoError(t, os.WriteFile(cfg.GetPidFile(), []byte(strconv.Itoa(os.Getpid())), 0644))
	assert.EqualError(t, d.validateConfiguration(), "daemon is already running")

	disabled := config.NewConfig()
	assert.EqualError(t, NewDaemon(config.NewConfigProvider(disabled), nil, nil, logger.Nop(), nil).validateConfiguration(),
		"daemon is not enabled in configuration")
}

func TestIsRunning(t *testing.T) {
	dir := t.TempDir()
	pidFile := filepath.Join(dir, "pid")

	assert.False(t, IsRunning(""))
	assert.False(t, IsRunning(pidFile))

	require.NoError(t, os.WriteFile(pidFile, []byte("garbage"), 0644))
	assert.False(t, IsRunning(pidFile))

	require.NoError(t, os.WriteFile(pidFile, []byte(strconv.Itoa(os.Getpid())+"\n"), 0644))
	assert.True(t, IsRunning(pidFile))
}

func TestSignalStopWhenNotRunning(t *testing.T) {
	assert.Error(t, SignalStop(filepath.Join(t.TempDir(), "pid"), 0))
}

func TestStatus(t *testing.T) {
	cfg := testConfig(t)
	assert.Error(t, Status(cfg))

	require.NoError(t, os.WriteFile(cfg.GetPidFile(), []byte(strconv.Itoa(os.Getpid())), 0644))
	assert.NoError(t, Status(cfg))
}
