package cli

import (
	"os"

	"github.com/spf13/cobra"

	"gitstack.dev/gitstack/internal/config"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version string) *cobra.Command {
	var (
		cfgFile string
		debug   bool
		quiet   bool
	)

	rootCmd := &cobra.Command{
		Use:   "git-stack",
		Short: "git-stack manages stacks of dependent git branches",
		Long: `git-stack manages stacks of dependent git branches.

A stack is a chain of branches where each one builds on its parent instead
of on the trunk. git-stack records which branch sits on which, keeps the
whole chain rebased as parents move, and opens one pull request per branch
so every review diffs only against the change below it.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			config.InitGlobal(cfgFile)

			// The logger reads these when a command builds its context,
			// and git subprocesses inherit them.
			if debug {
				os.Setenv("DEBUG", "1")
			}
			if quiet {
				os.Setenv("GITSTACK_QUIET", "1")
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.gitstack.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress console output")

	// Add subcommands
	rootCmd.AddCommand(
		newAbortCmd(),
		newCheckoutCmd(),
		newContinueCmd(),
		newCreateCmd(),
		newDeleteCmd(),
		newDiffCmd(),
		newInitCmd(),
		newLogCmd(),
		newMountCmd(),
		newRestackCmd(),
		newStatusCmd(),
		newSubmitCmd(),
		newSyncCmd(),
	)

	return rootCmd
}
