package cmd

import (
	"errors"
	"fmt"

	"github.com/adamancini/tlaplus-cli/internal/config"
	"github.com/adamancini/tlaplus-cli/internal/invoke"
	"github.com/adamancini/tlaplus-cli/internal/manifest"
	"github.com/adamancini/tlaplus-cli/internal/update"
)

// ExitCode returns the process exit code for an error returned by Execute.
// A failed tool run is mirrored: its own exit code, or 128+signal.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var failed *invoke.ExternalToolFailedError
	if errors.As(err, &failed) {
		return failed.ExitCodeFor()
	}
	return 1
}

// Describe renders err for the user, adding the next step for the errors a
// user can fix.
func Describe(err error) string {
	var failed *invoke.ExternalToolFailedError
	switch {
	case errors.Is(err, manifest.ErrNoToolInstalled):
		return err.Error() + ". Run 'tlaplus update' first."
	case errors.As(err, &failed):
		return err.Error()
	case errors.Is(err, manifest.ErrManifestUnreadable), errors.Is(err, config.ErrConfigUnreadable):
		return fmt.Sprintf("Error: %v", err)
	case errors.Is(err, update.ErrUpdateCheckFailed), errors.Is(err, update.ErrUpdateWriteFailed):
		return fmt.Sprintf("Error: %v\nThe installed version was not changed; it is safe to retry.", err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
