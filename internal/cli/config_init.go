package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ariel-frischer/monorel/internal/config"
	"github.com/ariel-frischer/monorel/internal/errors"
	"github.com/ariel-frischer/monorel/internal/output"
	"github.com/spf13/cobra"
)

var (
	configInitUserFlag  bool
	configInitForceFlag bool
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage monorel configuration",
	Long: `Manage monorel configuration files.

Configuration precedence (highest to lowest):
  1. Environment variables (MONOREL_*)
  2. Project config (.monorel/config.yml)
  3. User config (~/.config/monorel/config.yml)
  4. Built-in defaults`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a commented default configuration file",
	Long: `Create a configuration file populated with the default values and a
comment for every option.

By default the file is written to the project path (.monorel/config.yml,
relative to --repo or the current directory). Use --user for a user-level
config that applies to all your monorepos. An existing file is left
unchanged unless --force is given.`,
	Example: `  monorel config init
  monorel config init --user
  monorel config init --force`,
	Args:         cobra.NoArgs,
	SilenceUsage: true,
	RunE:         runConfigInit,
}

func init() {
	configCmd.GroupID = GroupInspection
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().BoolVar(&configInitUserFlag, "user", false, "Write the user-level config instead of the project config")
	configInitCmd.Flags().BoolVarP(&configInitForceFlag, "force", "f", false, "Overwrite an existing config file")
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path, err := configInitPath()
	if err != nil {
		return errors.Wrap(err, errors.Configuration)
	}

	if err := writeDefaultConfig(path, configInitForceFlag); err != nil {
		return err
	}
	output.PrintSuccess(cmd.OutOrStdout(), fmt.Sprintf("wrote %s", path))
	return nil
}

// configInitPath picks the target file: the user config dir with --user,
// otherwise the project config inside --repo (or the current directory).
func configInitPath() (string, error) {
	if configInitUserFlag {
		return config.UserConfigPath()
	}
	return filepath.Join(repoFlag, config.ProjectConfigPath()), nil
}

// writeDefaultConfig writes the commented default template to path,
// creating parent directories. An existing file is an error unless force
// is set.
func writeDefaultConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.NewConfigError(
			fmt.Sprintf("config file already exists: %s", path),
			"Re-run with --force to overwrite it",
		)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.WrapWithMessage(err, errors.Runtime,
			fmt.Sprintf("creating config directory %s", filepath.Dir(path)))
	}
	template := config.GetDefaultConfigTemplate()
	if err := os.WriteFile(path, []byte(template), 0o644); err != nil {
		return errors.WrapWithMessage(err, errors.Runtime,
			fmt.Sprintf("writing config %s", path))
	}
	return nil
}
