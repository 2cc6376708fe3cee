// Command sitectl browses and moderates the campaign site from a terminal.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/maxviazov/campaign-site/pkg/client"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, render(err))
		os.Exit(1)
	}
}

// render turns any error into the text shown to the user; transport details
// stay in the debug log.
func render(err error) string {
	var ce *client.Error
	if !errors.As(err, &ce) {
		return "Error: " + err.Error()
	}
	msg := "Error: " + ce.Message
	for _, fe := range ce.FieldErrors {
		msg += fmt.Sprintf("\n  %s: %s", fe.Field, fe.Message)
	}
	if ce.Retryable() {
		msg += "\nPlease retry in a moment."
	}
	return msg
}
