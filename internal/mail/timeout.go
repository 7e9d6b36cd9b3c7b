package mail

import (
	"context"
	"time"
)

type timeoutTransport struct {
	Transport
	timeout time.Duration
}

// WithTimeout bounds each Send of t by d. A non-positive d returns t as is.
func WithTimeout(t Transport, d time.Duration) Transport {
	if d <= 0 {
		return t
	}
	return &timeoutTransport{Transport: t, timeout: d}
}

func (t *timeoutTransport) Send(ctx context.Context, msg Message) Outcome {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.Transport.Send(ctx, msg)
}
