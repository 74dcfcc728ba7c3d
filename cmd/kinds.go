package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Skyenought/libstarter/internal/project"
)

var kindsCmd = &cobra.Command{
	Use:   "kinds",
	Short: "List the library kinds",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprint(cmd.OutOrStdout(), kindsHelp(""))
	},
}

func init() {
	rootCmd.AddCommand(kindsCmd)
}

// kindsHelp appends one line per kind, with its default platform, to
// prefix.
func kindsHelp(prefix string) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, k := range project.Kinds {
		fmt.Fprintf(&b, "  %-12s %s (platform: %s)\n", k, k.Description(), project.DefaultPlatform(k))
	}
	return b.String()
}
