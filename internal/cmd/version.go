package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/taskvault/internal/ux"
	"github.com/felixgeelhaar/taskvault/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long: `Print version information including version number, git commit,
build date, Go version, and platform.`,
	Args: cobra.NoArgs,
	RunE: runVersion,
}

var versionVerbose bool

func init() {
	versionCmd.Flags().BoolVarP(&versionVerbose, "verbose", "v", false, "show detailed version information")

	rootCmd.AddCommand(versionCmd)
}

func runVersion(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	noColor, err := cmd.Flags().GetBool("no-color")
	if err != nil {
		return err
	}
	out, err := ux.NewFormatter(format, &ux.FormatterOptions{Writer: cmd.OutOrStdout(), NoColor: noColor})
	if err != nil {
		return err
	}

	info := version.GetInfo()
	if format == "json" || format == "yaml" {
		return out.Format(info)
	}
	if versionVerbose {
		return out.Format(info.String())
	}
	return out.Format("taskvault " + info.Short())
}
