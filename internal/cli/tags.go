package cli

import (
	"fmt"

	"github.com/ariel-frischer/monorel/internal/output"
	"github.com/ariel-frischer/monorel/internal/tags"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var tagsLatestFlag bool

var tagsCmd = &cobra.Command{
	Use:   "tags <package>",
	Short: "List a package's tag series",
	Long: `List the tags in a package's series (the tags sharing the package's
prefix), with the detected version format of each. The root package uses
the "v" prefix, every other package uses "<name>-v".`,
	Example: `  monorel tags api
  monorel tags root --latest`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTags(cmd, args[0])
	},
}

func init() {
	tagsCmd.GroupID = GroupInspection
	rootCmd.AddCommand(tagsCmd)

	tagsCmd.Flags().BoolVar(&tagsLatestFlag, "latest", false, "Show only the latest semver tag")
}

func runTags(cmd *cobra.Command, pkgName string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	desc := env.descriptor(pkgName)
	reader := tags.NewReader(env.git)
	out := cmd.OutOrStdout()

	if tagsLatestFlag {
		latest, ok := reader.Latest(cmd.Context(), desc.TagPrefix)
		if !ok {
			output.PrintNoOp(out, fmt.Sprintf("no tags in the %s* series", desc.TagPrefix))
			return nil
		}
		fmt.Fprintln(out, latest.Name)
		return nil
	}

	series := reader.Series(cmd.Context(), desc.TagPrefix)
	output.PrintHeader(out, desc.Name, fmt.Sprintf("series %s*", desc.TagPrefix))
	if len(series) == 0 {
		output.PrintNoOp(out, "no tags yet")
		return nil
	}

	for _, tag := range series {
		line := fmt.Sprintf("%s  %s", color.CyanString(tag.Name), tag.Format)
		if tag.Date != "" {
			line += "  " + tag.Date
		}
		fmt.Fprintln(out, line)
	}
	return nil
}
