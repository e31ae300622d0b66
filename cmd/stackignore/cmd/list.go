package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/stackignore/internal/detect"
	"github.com/Aman-CERP/stackignore/internal/gitignore"
	"github.com/Aman-CERP/stackignore/internal/output"
	"github.com/Aman-CERP/stackignore/internal/templates"
)

// stackInfo is one entry of "list --json".
type stackInfo struct {
	Name       string   `json:"name"`
	Files      []string `json:"files,omitempty"`
	Dirs       []string `json:"dirs,omitempty"`
	Extensions []string `json:"extensions,omitempty"`
	Patterns   []string `json:"patterns"`
}

func newListCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List supported stacks and their markers",
		Long: `List every stack stackignore can detect, in detection order, with the
marker files, directories and extensions that identify it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos := stackInfos()
			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}

			useColor := output.ColorEnabled(cmd.OutOrStdout(), noColor, true)
			out := output.NewWithColor(cmd.OutOrStdout(), useColor)
			out.Header(fmt.Sprintf("%d supported stacks", len(infos)))
			for _, info := range infos {
				out.Item(info.Name, strings.Join(markers(info), " "))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")

	return cmd
}

func stackInfos() []stackInfo {
	reg := templates.Default()
	detectors := detect.Detectors()
	infos := make([]stackInfo, 0, len(detectors))
	for _, d := range detectors {
		info := stackInfo{
			Name:       d.Name,
			Files:      d.FileMarkers,
			Extensions: d.ExtensionMarkers,
			Patterns:   []string{},
		}
		for _, dir := range d.DirMarkers {
			info.Dirs = append(info.Dirs, dir+"/")
		}
		if lines, ok := reg.Get(d.Name); ok {
			info.Patterns = append(info.Patterns, gitignore.ParsePatterns(strings.Join(lines, "\n"))...)
		}
		infos = append(infos, info)
	}
	return infos
}

func markers(info stackInfo) []string {
	var all []string
	all = append(all, info.Files...)
	all = append(all, info.Dirs...)
	for _, ext := range info.Extensions {
		all = append(all, "*"+ext)
	}
	return all
}
