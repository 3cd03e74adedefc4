package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand assembles the imgsweep command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "imgsweep",
		Short: "Batch image cleanup utility",
		Long: `imgsweep walks a folder tree of PNG and JPEG images.
The remove tool finds images that fail to decode and deletes them or moves
them aside. The compress tool resizes every image in place.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add global flags
	AddGlobalFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(NewRemoveCommand())
	rootCmd.AddCommand(NewCompressCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

// ExitError carries the exit status of a run that finished but did not
// fully succeed. The summary has already been printed.
type ExitError struct {
	Code   int
	Status string
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("run finished with status %s", e.Status)
}
