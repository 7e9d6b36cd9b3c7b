// Package campaign runs one draft against a recipient file, skipping
// addresses that already received it and recording the new deliveries.
package campaign

import (
	"context"
	"fmt"

	"github.com/ryan-gang/mail-blast/internal/batch"
	"github.com/ryan-gang/mail-blast/internal/ledger"
	"github.com/ryan-gang/mail-blast/internal/logger"
	"github.com/ryan-gang/mail-blast/internal/mail"
	"github.com/ryan-gang/mail-blast/internal/metrics"
	"github.com/ryan-gang/mail-blast/internal/recipients"
)

type Campaign struct {
	RecipientsPath string
	Draft          mail.Draft
}

// Report describes one Run. Result only covers recipients that were still
// pending when the run started.
type Report struct {
	Result     batch.Result
	Total      int
	Skipped    int
	Pending    int
	Remaining  int
	LedgerPath string
}

// NotAttempted counts pending recipients the batch never reached.
func (r Report) NotAttempted() int {
	return r.Pending - len(r.Result.Outcomes)
}

type Option func(*Processor)

// WithLedger enables resumable sends, keeping ledger files in dir.
func WithLedger(dir string) Option {
	return func(p *Processor) {
		p.ledgerDir = dir
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Processor) {
		p.metrics = m
	}
}

func WithLogger(l logger.LoggerInterface) Option {
	return func(p *Processor) {
		p.logger = l
	}
}

func WithObserver(o batch.Observer) Option {
	return func(p *Processor) {
		p.observer = o
	}
}

type Processor struct {
	transport mail.Transport
	ledgerDir string
	metrics   *metrics.Metrics
	logger    logger.LoggerInterface
	observer  batch.Observer
}

func NewProcessor(transport mail.Transport, opts ...Option) *Processor {
	p := &Processor{
		transport: transport,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run loads the recipients and sends c.Draft to those still pending. A
// recipient or ledger load failure is returned before anything is sent.
func (p *Processor) Run(ctx context.Context, c Campaign) (Report, error) {
	list, err := recipients.Load(c.RecipientsPath)
	if err != nil {
		return Report{}, fmt.Errorf("loading recipients: %w", err)
	}
	report := Report{Total: len(list)}

	var led *ledger.Ledger
	pending := list
	if p.ledgerDir != "" {
		led, err = ledger.Open(p.ledgerDir, c.Draft)
		if err != nil {
			return report, fmt.Errorf("opening ledger: %w", err)
		}
		pending = led.Pending(list)
		report.LedgerPath = led.Path()
		report.Skipped = len(list) - len(pending)
	}

	report.Pending = len(pending)
	if len(pending) == 0 {
		p.logger.Infof("Campaign %q: all %d recipients already sent", c.Draft.Subject, len(list))
		return report, nil
	}
	if report.Skipped > 0 {
		p.logger.Infof("Campaign %q: skipping %d recipients already sent", c.Draft.Subject, report.Skipped)
	}

	opts := []batch.Option{batch.WithLogger(p.logger)}
	if p.observer != nil {
		opts = append(opts, batch.WithObserver(p.observer))
	}
	result := batch.New(p.transport, opts...).Run(ctx, c.Draft, pending)
	report.Result = result
	report.Remaining = len(pending) - result.SentCount()

	if p.metrics != nil {
		p.metrics.ObserveBatch(p.transport.Name(), result, report.Remaining)
	}

	if led != nil {
		led.Record(result)
		if err := led.Save(); err != nil {
			p.logger.Errorf("Failed to save ledger %s: %v", led.Path(), err)
			return report, fmt.Errorf("saving ledger: %w", err)
		}
	}

	if result.StoppedEarly {
		last, _ := result.Last()
		p.logger.Warnf("Campaign %q stopped early (%s), %d recipients left for the next run", c.Draft.Subject, last.Class, report.Remaining)
	}
	return report, nil
}
