package util

import "fmt"

// ErrorContext names the area an error came from.
type ErrorContext string

const (
	ConfigError     ErrorContext = "Config"
	FileError       ErrorContext = "File"
	ValidationError ErrorContext = "Validation"
	DaemonError     ErrorContext = "Daemon"
	MailError       ErrorContext = "Mail"
	AuthError       ErrorContext = "Auth"
	RecipientError  ErrorContext = "Recipient"
)

// FormatError renders err as "<context> error: <operation> - <err>".
func FormatError(context ErrorContext, operation string, err error) string {
	return fmt.Sprintf("%s error: %s - %v", context, operation, err)
}

// LogError prints err in red using FormatError.
func LogError(context ErrorContext, operation string, err error) {
	Red.Println(FormatError(context, operation, err))
}
