// Package ledger remembers which recipients already received a campaign so
// that a batch stopped by a provider limit can be resumed without resending.
package ledger

import (
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gosimple/slug"

	"github.com/ryan-gang/mail-blast/internal/batch"
	"github.com/ryan-gang/mail-blast/internal/mail"
	"github.com/ryan-gang/mail-blast/internal/recipients"
)

type Delivery struct {
	Recipient recipients.Recipient `json:"recipient"`
	MessageID string               `json:"message_id"`
	Timestamp time.Time            `json:"timestamp"`
}

type State struct {
	Campaign     string     `json:"campaign"`
	Subject      string     `json:"subject"`
	Deliveries   []Delivery `json:"deliveries"`
	LastRun      time.Time  `json:"last_run"`
	LastBatch    string     `json:"last_batch"`
	StoppedEarly bool       `json:"stopped_early"`
}

type Ledger struct {
	path  string
	state State
	sent  map[recipients.Recipient]bool
	now   func() time.Time
}

// Open loads the ledger for draft from dir. A missing file starts an empty
// ledger; a corrupt one is an error so deliveries are never repeated silently.
func Open(dir string, draft mail.Draft) (*Ledger, error) {
	key := Key(draft)
	l := &Ledger{
		path:  filepath.Join(dir, fileName(draft.Subject, key)),
		state: State{Campaign: key, Subject: draft.Subject, Deliveries: make([]Delivery, 0)},
		sent:  make(map[recipients.Recipient]bool),
		now:   time.Now,
	}

	data, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading ledger %s: %w", l.path, err)
	}
	if err := json.Unmarshal(data, &l.state); err != nil {
		return nil, fmt.Errorf("decoding ledger %s: %w", l.path, err)
	}
	for _, d := range l.state.Deliveries {
		l.sent[d.Recipient] = true
	}
	return l, nil
}

// Key identifies a campaign by its subject and body.
func Key(draft mail.Draft) string {
	hash := md5.Sum([]byte(draft.Subject + "\x00" + draft.Body))
	return fmt.Sprintf("%x", hash)
}

func fileName(subject, key string) string {
	name := slug.Make(subject)
	if name == "" {
		name = "campaign"
	}
	if len(name) > 48 {
		name = name[:48]
	}
	return fmt.Sprintf("%s-%s.json", name, key[:12])
}

func (l *Ledger) Path() string {
	return l.path
}

func (l *Ledger) State() State {
	return l.state
}

// Pending drops recipients that already received the campaign, keeping order.
func (l *Ledger) Pending(list []recipients.Recipient) []recipients.Recipient {
	pending := make([]recipients.Recipient, 0, len(list))
	for _, r := range list {
		if !l.sent[r] {
			pending = append(pending, r)
		}
	}
	return pending
}

// Record stores the successful deliveries of result. Entries are never
// dropped: a ledger belongs to one campaign, so it is bounded by its list.
func (l *Ledger) Record(result batch.Result) {
	now := l.now()
	for _, o := range result.Outcomes {
		if !o.Sent || l.sent[o.Recipient] {
			continue
		}
		l.sent[o.Recipient] = true
		l.state.Deliveries = append(l.state.Deliveries, Delivery{
			Recipient: o.Recipient,
			MessageID: o.MessageID,
			Timestamp: now,
		})
	}
	l.state.LastRun = now
	l.state.LastBatch = result.ID
	l.state.StoppedEarly = result.StoppedEarly
}

func (l *Ledger) Save() error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return fmt.Errorf("creating ledger directory: %w", err)
	}
	data, err := json.MarshalIndent(l.state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(l.path, data, 0644)
}
