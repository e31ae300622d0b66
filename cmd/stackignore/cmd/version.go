package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/stackignore/internal/detect"
	ierrors "github.com/Aman-CERP/stackignore/internal/errors"
	"github.com/Aman-CERP/stackignore/internal/output"
	"github.com/Aman-CERP/stackignore/internal/templates"
	"github.com/Aman-CERP/stackignore/pkg/version"
)

// versionReport is the --json payload: build info plus the size of the
// built-in stack catalogue.
type versionReport struct {
	version.BuildInfo
	Detectors int `json:"detectors"`
	Templates int `json:"templates"`
}

func newVersionCmd() *cobra.Command {
	var (
		jsonOutput  bool
		shortOutput bool
	)

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version and build information",
		Long: `Print the stackignore version, the commit and date it was built from,
and how many stacks this build can detect.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if shortOutput && jsonOutput {
				return ierrors.ValidationError("--short and --json cannot be combined", nil)
			}
			if shortOutput {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), version.Short())
				return err
			}

			rep := versionReport{
				BuildInfo: version.GetInfo(),
				Detectors: len(detect.Detectors()),
				Templates: len(templates.Default().Names()),
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(rep)
			}

			out := output.NewWithColor(cmd.OutOrStdout(), output.ColorEnabled(cmd.OutOrStdout(), noColor, true))
			out.Header("stackignore " + rep.Version)
			out.Item("commit", rep.Commit)
			out.Item("built", rep.Date)
			out.Item("go", rep.GoVersion)
			out.Item("platform", rep.OS+"/"+rep.Arch)
			out.Item("stacks", fmt.Sprintf("%d detectors, %d templates", rep.Detectors, rep.Templates))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")
	cmd.Flags().BoolVar(&shortOutput, "short", false, "Output only the version number")

	return cmd
}
