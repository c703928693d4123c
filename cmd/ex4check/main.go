package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for the different failure modes.
const (
	ExitSuccess     = 0 // all executed cases passed
	ExitTestsFailed = 1 // one or more cases did not pass
	ExitError       = 2 // structure, build, or usage error
)

// TestFailureError indicates the suite ran to completion but one or more
// cases did not pass.
type TestFailureError struct {
	Message string
}

func (e *TestFailureError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		var testFailureErr *TestFailureError
		if errors.As(err, &testFailureErr) {
			os.Exit(ExitTestsFailed)
		}

		// Structure errors, build errors, and usage errors all land here.
		os.Exit(ExitError)
	}
}
