package ui

import (
	"fmt"
	"os"

	"github.com/nixdiff/nixdiff/usefulerror"
)

// ErrorExit prints the error and exits with a non-zero status. Errors that
// carry user-facing context render their description and help text; anything
// else prints as-is.
func ErrorExit(err error) {
	usefulErr, ok := usefulerror.AsUsefulError(err)
	if !ok {
		Fatalf("Error: %s", err)
	}

	fmt.Fprintln(os.Stderr, Colors.Red("Error: %s", usefulErr.HumanError()))

	if help := usefulErr.Help(); help != "" {
		fmt.Fprintln(os.Stderr, Colors.Yellow("%s", help))
	}

	fmt.Fprintln(os.Stderr, Colors.Dim("(%s) %s", usefulErr.Code(), usefulErr.Error()))

	os.Exit(1)
}

// Fatalf prints a formatted message and exits with a non-zero status.
func Fatalf(format string, a ...interface{}) {
	fmt.Fprintln(os.Stderr, Colors.Red(format, a...))
	os.Exit(1)
}
