package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/josephgoksu/TaskNest/internal/task"
	"github.com/josephgoksu/TaskNest/store"
	"github.com/spf13/viper"
)

// PrintError prints an error message without exiting, allowing for recovery.
// If the --verbose flag is set, it prints the full technical error.
func PrintError(userMsg string, technicalErr error) {
	if viper.GetBool("verbose") && technicalErr != nil {
		// In verbose mode, print the detailed, underlying technical error.
		fmt.Fprintf(os.Stderr, "Error: %v\n", technicalErr)
	} else {
		// By default, print the clean, user-friendly message.
		fmt.Fprintln(os.Stderr, userMsg)
	}
}

// LogError logs an error without printing to stderr if verbose mode is off.
func LogError(msg string, err error) {
	if viper.GetBool("verbose") {
		if err != nil {
			fmt.Fprintf(os.Stderr, "[DEBUG] %s: %v\n", msg, err)
		} else {
			fmt.Fprintf(os.Stderr, "[DEBUG] %s\n", msg)
		}
	}
}

// userMessage turns an error into the one-line message shown without --verbose.
func userMessage(err error) string {
	var (
		notFound *task.NotFoundError
		persist  *store.PersistenceError
	)
	switch {
	case errors.As(err, &notFound):
		return "Error: " + notFound.Error() + "."
	case errors.Is(err, task.ErrInvalid):
		return "Error: " + err.Error()
	case errors.As(err, &persist):
		return fmt.Sprintf("Error: could not %s task data at %s. Run with --verbose for details.", persist.Op, persist.Path)
	default:
		return "Error: " + err.Error()
	}
}
