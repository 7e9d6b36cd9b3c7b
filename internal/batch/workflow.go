// Package batch sends one draft to a recipient list, one recipient at a
// time, and stops at the first failure that signals a provider limit.
package batch

import (
	"context"

	"github.com/google/uuid"

	"github.com/ryan-gang/mail-blast/internal/logger"
	"github.com/ryan-gang/mail-blast/internal/mail"
	"github.com/ryan-gang/mail-blast/internal/recipients"
	"github.com/ryan-gang/mail-blast/internal/util"
)

type State int

const (
	Running State = iota
	Completed
	StoppedByQuota
	Interrupted
)

func (s State) String() string {
	switch s {
	case Completed:
		return "completed"
	case StoppedByQuota:
		return "stopped_by_quota"
	case Interrupted:
		return "interrupted"
	default:
		return "running"
	}
}

// Result holds one outcome per attempted recipient, in attempt order.
type Result struct {
	ID           string
	Outcomes     []mail.Outcome
	StoppedEarly bool
	// Interrupted is set when the context ended the pass before every
	// recipient was attempted.
	Interrupted bool
}

func (r Result) SentCount() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Sent {
			n++
		}
	}
	return n
}

func (r Result) FailedCount() int {
	return len(r.Outcomes) - r.SentCount()
}

// State is the terminal state of the pass.
func (r Result) State() State {
	switch {
	case r.StoppedEarly:
		return StoppedByQuota
	case r.Interrupted:
		return Interrupted
	default:
		return Completed
	}
}

// Last returns the final outcome, if any.
func (r Result) Last() (mail.Outcome, bool) {
	if len(r.Outcomes) == 0 {
		return mail.Outcome{}, false
	}
	return r.Outcomes[len(r.Outcomes)-1], true
}

// Observer is called after every send with the zero-based position of the
// recipient and its outcome.
type Observer func(index int, outcome mail.Outcome)

type Option func(*Workflow)

func WithObserver(o Observer) Option {
	return func(w *Workflow) {
		w.observer = o
	}
}

func WithLogger(l logger.LoggerInterface) Option {
	return func(w *Workflow) {
		w.logger = l
	}
}

type Workflow struct {
	transport mail.Transport
	observer  Observer
	logger    logger.LoggerInterface
}

func New(transport mail.Transport, opts ...Option) *Workflow {
	w := &Workflow{
		transport: transport,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run sends draft to each recipient in order. Sends never overlap and are
// never retried. Per-recipient failures are recorded in the result; only a
// failure that stops the batch, or the end of ctx, ends the pass early.
func (w *Workflow) Run(ctx context.Context, draft mail.Draft, list []recipients.Recipient) Result {
	result := Result{
		ID:       uuid.NewString(),
		Outcomes: make([]mail.Outcome, 0, len(list)),
	}

	w.logger.Infof("batch %s: sending %q to %d recipients via %s", result.ID, draft.Subject, len(list), w.transport.Name())

	for i, r := range list {
		if err := ctx.Err(); err != nil {
			result.Interrupted = true
			w.logger.Warnf("batch %s: interrupted after %d of %d recipients: %v", result.ID, i, len(list), err)
			break
		}

		outcome := w.transport.Send(ctx, draft.For(r))
		result.Outcomes = append(result.Outcomes, outcome)
		w.logOutcome(result.ID, outcome)
		if w.observer != nil {
			w.observer(i, outcome)
		}

		if outcome.StopsBatch() {
			result.StoppedEarly = true
			w.logger.Warnf("batch %s: stopped by %s after %d of %d recipients", result.ID, outcome.Class, i+1, len(list))
			break
		}
	}

	w.logger.Infof("batch %s: %s, %d sent, %d failed", result.ID, result.State(), result.SentCount(), result.FailedCount())
	return result
}

func (w *Workflow) logOutcome(id string, o mail.Outcome) {
	addr := util.RedactEmail(o.Recipient.String())
	if o.Sent {
		w.logger.Debugf("batch %s: sent to %s (%s)", id, addr, o.MessageID)
		return
	}
	w.logger.Warnf("batch %s: failed for %s [%s]: %s", id, addr, o.Class, o.Reason)
	if o.Heuristic {
		w.logger.Warnf("batch %s: %s inferred from error text, provider wording changes can hide it", id, o.Class)
	}
}
