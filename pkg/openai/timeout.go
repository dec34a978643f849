package openai

import (
	"fmt"
	"strings"
)

// timeoutVocabulary is the fixed, case-insensitive set of substrings that
// identify a timeout in an error message or machine-readable code.
var timeoutVocabulary = []string{
	"timeout",
	"timed out",
	"etimedout",
	"esockettimedout",
	"econnaborted",
	"deadline exceeded",
	"request aborted",
}

// timeoutAdvice is appended to classified timeout errors before re-raising.
const timeoutAdvice = `The request to the model backend timed out. Possible remediations:
  - increase the HTTP client timeout for this backend
  - reduce the size of the prompt or the requested max_tokens
  - check network connectivity to the configured base URL
  - switch to a faster model for this task`

// TimeoutError decorates a classified timeout with actionable guidance.
type TimeoutError struct {
	Cause error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s\n\n%s", e.Cause.Error(), timeoutAdvice)
}

func (e *TimeoutError) Unwrap() error { return e.Cause }

// isTimeout reports whether the error's message matches the timeout
// vocabulary.
func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, p := range timeoutVocabulary {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// wrapTimeout re-raises timeouts with remediation guidance attached and
// returns every other error unchanged.
func wrapTimeout(err error) error {
	if err == nil {
		return nil
	}
	if _, already := err.(*TimeoutError); already {
		return err
	}
	if isTimeout(err) {
		return &TimeoutError{Cause: err}
	}
	return err
}
