package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/teranos/qcfilter/version"
)

// VersionCmd represents the version command
var VersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show qcfilter version information",
	Long:  `Display version, build time, commit hash, and platform information for the qcfilter binary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")

		info := version.Get()
		w := cmd.OutOrStdout()

		if jsonOutput {
			return writeJSON(w, info)
		}
		fmt.Fprintln(w, info.String())
		fmt.Fprintf(w, "Platform: %s\n", info.Platform)
		fmt.Fprintf(w, "Go: %s\n", info.GoVersion)
		return nil
	},
}

func init() {
	VersionCmd.Flags().BoolP("json", "j", false, "Output version info as JSON")
}
