package cli

import (
	"encoding/json"
	"fmt"

	"github.com/ariel-frischer/monorel/internal/history"
	"github.com/ariel-frischer/monorel/internal/output"
	"github.com/ariel-frischer/monorel/internal/progress"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	analyzeFromFlag string
	analyzeToFlag   string
	analyzeJSONFlag bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <package>",
	Short: "List the commits relevant to a package in a revision range",
	Long: `Resolve the commits in a revision range that are relevant to one
package: commits touching the package's directory, commits touching a
resolved internal dependency, and merge commits whose underlying diff
touches either. Merge commits are reconstructed into pull requests with
their member commits and a category.`,
	Example: `  monorel analyze api --from api-v0.1.0 --to HEAD
  monorel analyze @app/shared --from HEAD~20 --to HEAD --json`,
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAnalyze(cmd, args[0])
	},
}

func init() {
	analyzeCmd.GroupID = GroupAnalysis
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&analyzeFromFlag, "from", "", "Start of the revision range (exclusive)")
	analyzeCmd.Flags().StringVar(&analyzeToFlag, "to", "HEAD", "End of the revision range (inclusive)")
	analyzeCmd.Flags().BoolVar(&analyzeJSONFlag, "json", false, "Emit machine-readable JSON")
	_ = analyzeCmd.MarkFlagRequired("from")
}

func runAnalyze(cmd *cobra.Command, pkgName string) error {
	env, err := setup()
	if err != nil {
		return err
	}
	desc := env.descriptor(pkgName)

	spin := progress.NewSpinner(fmt.Sprintf("Scanning %s..%s for %s", analyzeFromFlag, analyzeToFlag, desc.Name))
	spin.Start()
	commits, err := history.NewResolver(env.cfg, env.git).
		ResolveRange(cmd.Context(), desc, analyzeFromFlag, analyzeToFlag)
	if err != nil {
		spin.StopWith(false, "scan failed")
		return err
	}

	if analyzeJSONFlag {
		// Plain stop: the status line would corrupt piped JSON.
		spin.Stop()
		return printCommitsJSON(cmd, commits)
	}
	spin.StopWith(true, fmt.Sprintf("resolved %d relevant commits", len(commits)))

	out := cmd.OutOrStdout()
	output.PrintHeader(out, desc.Name, fmt.Sprintf("%s..%s", analyzeFromFlag, analyzeToFlag))
	if len(commits) == 0 {
		output.PrintNoOp(out, "no relevant commits in range")
		return nil
	}

	for _, commit := range commits {
		printCommitLine(cmd, commit)
	}
	return nil
}

func printCommitLine(cmd *cobra.Command, commit history.Commit) {
	out := cmd.OutOrStdout()
	hash := shortHash(commit.Hash)

	if commit.PR != nil {
		header := fmt.Sprintf("%s merge", hash)
		if commit.PR.Number != "" {
			header = fmt.Sprintf("%s PR #%s", hash, commit.PR.Number)
		}
		fmt.Fprintf(out, "%s [%s] %s\n",
			color.CyanString(header), commit.PR.Category, commit.Message.Description)
		for _, member := range commit.PR.Commits {
			fmt.Fprintf(out, "    %s %s\n", shortHash(member.Hash), member.Subject)
		}
		return
	}

	fmt.Fprintf(out, "%s %s\n", color.YellowString(hash), commit.Subject)
}

// commitJSON is the machine-readable shape of one resolved commit.
type commitJSON struct {
	Hash     string   `json:"hash"`
	Type     string   `json:"type"`
	Subject  string   `json:"subject"`
	Breaking bool     `json:"breaking"`
	Files    []string `json:"files,omitempty"`
	PRNumber string   `json:"prNumber,omitempty"`
	Category string   `json:"category,omitempty"`
}

func printCommitsJSON(cmd *cobra.Command, commits []history.Commit) error {
	entries := make([]commitJSON, 0, len(commits))
	for _, commit := range commits {
		entry := commitJSON{
			Hash:     commit.Hash,
			Type:     commit.Message.Type,
			Subject:  commit.Subject,
			Breaking: commit.Message.IsBreaking,
			Files:    commit.Files,
		}
		if commit.PR != nil {
			entry.PRNumber = commit.PR.Number
			entry.Category = string(commit.PR.Category)
		}
		entries = append(entries, entry)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(entries)
}

func shortHash(hash string) string {
	if len(hash) > 8 {
		return hash[:8]
	}
	return hash
}
