package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactEmail(t *testing.T) {
	assert.Equal(t, "jo***@example.com", RedactEmail("john.doe@example.com"))
	assert.Equal(t, "***@example.com", RedactEmail("ab@example.com"))
	assert.Equal(t, "***@***", RedactEmail("not-an-address"))
}

func TestFormatError(t *testing.T) {
	assert.Equal(t, "Mail error: sending batch - boom", FormatError(MailError, "sending batch", errors.New("boom")))
	assert.Equal(t, "Recipient error: loading list - empty", FormatError(RecipientError, "loading list", errors.New("empty")))
}
