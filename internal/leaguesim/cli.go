package leaguesim

import (
	"fmt"
	"io"

	"github.com/okian/fcleague/pkg/logger"
)

// SetupLogging initializes the global logger for the CLI.
func SetupLogging(out io.Writer, verbose bool) error {
	if err := logger.Init(logger.WithOutput(out)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if verbose {
		return logger.SetLevelString("debug")
	}
	return nil
}
