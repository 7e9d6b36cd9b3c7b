package mail

import "context"

// Transport sends one message to one address. Implementations make exactly
// one send attempt per call and report every failure as an Outcome.
type Transport interface {
	Name() string
	Send(ctx context.Context, msg Message) Outcome
}
