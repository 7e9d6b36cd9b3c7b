package credentials

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"time"

	"golang.org/x/oauth2"
)

// LoopbackAuthorizer runs the installed-app consent flow: the user opens the
// printed URL and the provider redirects back to a one-shot local listener.
type LoopbackAuthorizer struct {
	// Prompt shows the consent URL. Defaults to printing it on Out.
	Prompt func(authURL string)
	Out    io.Writer
}

type callbackResult struct {
	code string
	err  error
}

func (a *LoopbackAuthorizer) Authorize(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return nil, fmt.Errorf("starting callback listener: %w", err)
	}

	flow := *cfg
	flow.RedirectURL = fmt.Sprintf("http://%s/", ln.Addr().String())

	state, err := randomState()
	if err != nil {
		ln.Close()
		return nil, err
	}

	results := make(chan callbackResult, 1)
	deliver := func(r callbackResult) {
		select {
		case results <- r:
		default:
		}
	}

	srv := &http.Server{
		ReadHeaderTimeout: 10 * time.Second,
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			if q.Get("state") != state {
				http.Error(w, "state mismatch", http.StatusBadRequest)
				return
			}
			if reason := q.Get("error"); reason != "" {
				deliver(callbackResult{err: fmt.Errorf("authorization denied: %s", reason)})
				fmt.Fprintln(w, "Authorization failed, you can close this window.")
				return
			}
			deliver(callbackResult{code: q.Get("code")})
			fmt.Fprintln(w, "Authorization complete, you can close this window.")
		}),
	}
	go srv.Serve(ln)
	defer srv.Close()

	a.prompt(flow.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce))

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-results:
		if res.err != nil {
			return nil, res.err
		}
		tok, err := flow.Exchange(ctx, res.code)
		if err != nil {
			return nil, fmt.Errorf("exchanging authorization code: %w", err)
		}
		return tok, nil
	}
}

func (a *LoopbackAuthorizer) prompt(authURL string) {
	if a.Prompt != nil {
		a.Prompt(authURL)
		return
	}
	out := a.Out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintf(out, "Open the following URL in your browser to authorize sending:\n\n%s\n\n", authURL)
}

func randomState() (string, error) {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
