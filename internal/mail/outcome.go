package mail

import "github.com/ryan-gang/mail-blast/internal/recipients"

// Classification sorts send failures by what they mean for the rest of a batch.
type Classification int

const (
	ClassOther Classification = iota
	ClassRateLimited
	ClassQuotaExceeded
)

func (c Classification) String() string {
	switch c {
	case ClassRateLimited:
		return "rate_limited"
	case ClassQuotaExceeded:
		return "quota_exceeded"
	default:
		return "other"
	}
}

// StopsBatch reports whether the provider will likely reject further sends soon.
func (c Classification) StopsBatch() bool {
	return c == ClassRateLimited || c == ClassQuotaExceeded
}

// Outcome is the result of one send: either Sent with the provider's message
// id, or failed with a reason and a classification.
type Outcome struct {
	Recipient recipients.Recipient
	Sent      bool
	MessageID string
	Reason    string
	Class     Classification
	// Heuristic is set when Class was derived from the error text rather
	// than a provider error code.
	Heuristic bool
}

func Sent(r recipients.Recipient, messageID string) Outcome {
	return Outcome{Recipient: r, Sent: true, MessageID: messageID}
}

func Failed(r recipients.Recipient, reason string, class Classification) Outcome {
	return Outcome{Recipient: r, Reason: reason, Class: class}
}

// failure classifies err into a failed outcome.
func failure(r recipients.Recipient, err error) Outcome {
	class, heuristic := Classify(err)
	o := Failed(r, err.Error(), class)
	o.Heuristic = heuristic
	return o
}

// StopsBatch is true for failures that end a batch early.
func (o Outcome) StopsBatch() bool {
	return !o.Sent && o.Class.StopsBatch()
}
