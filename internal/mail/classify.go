package mail

import (
	"errors"
	"net/http"
	"net/textproto"
	"regexp"
	"strings"

	"github.com/aws/smithy-go"
	"github.com/resend/resend-go/v2"
	"google.golang.org/api/googleapi"
)

var (
	smtpThrottleReply = regexp.MustCompile(`(^|\D)(421|454)[ -]`)
	smtpQuotaStatus   = regexp.MustCompile(`(^|\D)5\.4\.5(\D|$)`)
)

// Classify maps a provider error to a Classification. Provider error codes
// are used when present; otherwise the error text is searched for quota
// wording and heuristic is true. Provider wording changes break that path.
func Classify(err error) (class Classification, heuristic bool) {
	if err == nil {
		return ClassOther, false
	}
	if c, ok := classifyCode(err); ok {
		return c, false
	}
	if c, ok := classifyText(err.Error()); ok {
		return c, true
	}
	return ClassOther, false
}

func classifyCode(err error) (Classification, bool) {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		for _, item := range gerr.Errors {
			switch item.Reason {
			case "rateLimitExceeded", "userRateLimitExceeded":
				return ClassRateLimited, true
			case "dailyLimitExceeded", "quotaExceeded", "limitExceeded":
				return ClassQuotaExceeded, true
			}
		}
		if gerr.Code == http.StatusTooManyRequests {
			return ClassRateLimited, true
		}
		return ClassOther, false
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "TooManyRequestsException", "Throttling", "ThrottlingException":
			return ClassRateLimited, true
		case "LimitExceededException", "SendingPausedException", "AccountSuspendedException":
			return ClassQuotaExceeded, true
		}
		return ClassOther, false
	}

	var perr *textproto.Error
	if errors.As(err, &perr) {
		switch {
		case perr.Code == 421 || perr.Code == 454:
			return ClassRateLimited, true
		case smtpQuotaStatus.MatchString(perr.Msg):
			return ClassQuotaExceeded, true
		}
		return ClassOther, false
	}

	if errors.Is(err, resend.ErrRateLimit) {
		return ClassRateLimited, true
	}

	// gomail flattens SMTP replies into its own error text, so reply codes
	// are only read from errors of an SMTP session.
	var serr *smtpError
	if errors.As(err, &serr) {
		text := serr.Error()
		if smtpQuotaStatus.MatchString(text) {
			return ClassQuotaExceeded, true
		}
		if smtpThrottleReply.MatchString(text) {
			return ClassRateLimited, true
		}
	}
	return ClassOther, false
}

func classifyText(text string) (Classification, bool) {
	text = strings.ToLower(text)
	text = strings.NewReplacer("_", " ", "-", " ").Replace(text)
	switch {
	case strings.Contains(text, "quota"), strings.Contains(text, "daily limit"):
		return ClassQuotaExceeded, true
	case strings.Contains(text, "rate limit"):
		return ClassRateLimited, true
	}
	return ClassOther, false
}
