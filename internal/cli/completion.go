package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var validShells = []string{"bash", "zsh", "fish", "powershell"}

var completionCmd = newCompletionCmd()

func newCompletionCmd() *cobra.Command {
	cmd := LeafCommand{
		Use:   "completion [SHELL]",
		Short: "Print the shell completion script",
		Args:  cobra.RangeArgs(0, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shell := detectShell()
			if len(args) > 0 {
				shell = args[0]
			}
			if shell == "" {
				return fmt.Errorf("could not detect shell from $SHELL; pass one of bash, zsh, fish, powershell")
			}
			return runCompletion(cmd, shell)
		},
	}.Build()
	cmd.ValidArgs = validShells
	return cmd
}

func runCompletion(cmd *cobra.Command, shell string) error {
	root := cmd.Root()
	out := cmd.OutOrStdout()

	switch shell {
	case "bash":
		return root.GenBashCompletionV2(out, true)
	case "zsh":
		return root.GenZshCompletion(out)
	case "fish":
		return root.GenFishCompletion(out, true)
	case "powershell":
		return root.GenPowerShellCompletion(out)
	default:
		return fmt.Errorf("unsupported shell: %s (valid: bash, zsh, fish, powershell)", shell)
	}
}

func detectShell() string {
	switch base := filepath.Base(os.Getenv("SHELL")); base {
	case "bash", "zsh", "fish":
		return base
	}
	return ""
}

// dateSuggestions are the relative date words the date flags accept.
var dateSuggestions = []string{
	"today", "tomorrow",
	"next monday", "next tuesday", "next wednesday", "next thursday",
	"next friday", "next saturday", "next sunday",
}

var logLevels = []string{"debug", "info", "warn", "error"}

func fixedCompletion(values []string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}

// registerFlagCompletions wires value suggestions for the commands' flags.
func registerFlagCompletions() {
	for _, name := range []string{"check-in", "check-out"} {
		_ = searchCmd.RegisterFlagCompletionFunc(name, fixedCompletion(dateSuggestions))
	}
	_ = searchCmd.RegisterFlagCompletionFunc("export", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"pdf"}, cobra.ShellCompDirectiveFilterFileExt
	})
	_ = serveCmd.RegisterFlagCompletionFunc("log-level", fixedCompletion(logLevels))
	_ = serveCmd.RegisterFlagCompletionFunc("db", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return []string{"json"}, cobra.ShellCompDirectiveFilterFileExt
	})
}
