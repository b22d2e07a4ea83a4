package cmd

import (
	"fmt"
	"strconv"

	"github.com/huangsam/tomato/internal/settings"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// settingsStore is opened by settingsSetup.
var settingsStore *settings.Store

// settingsSetup opens the settings file without validating a vault.
func settingsSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	store, err := settings.Open(appFs, settings.DefaultPath(viper.ConfigFileUsed()))
	if err != nil {
		return err
	}
	settingsStore = store
	return nil
}

// settingsSetupWrapper wraps settingsSetup to provide PreRunE for settings commands.
func settingsSetupWrapper(_ *cobra.Command, _ []string) error {
	return settingsSetup()
}

// settingsCmd focused on persisted preferences.
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change persisted settings",
	Long: `Manage the settings kept in the tomato config file.

The only setting is hours-per-tomato, the number of hours credited for one
tomato. It defaults to 0.5 and is saved as soon as it changes.

Subcommands:
  show - Print the current settings
  set  - Change hours-per-tomato

Examples:
  tomato settings show
  tomato settings set 0.4`,
}

// settingsShowCmd prints the settings.
var settingsShowCmd = &cobra.Command{
	Use:     "show",
	Short:   "Print the current settings",
	PreRunE: settingsSetupWrapper,
	Run: func(cmd *cobra.Command, _ []string) {
		s := settingsStore.Settings()
		cmd.Printf("%s: %s\n", settings.HoursPerTomatoKey, strconv.FormatFloat(s.HoursPerTomato, 'f', -1, 64))
		cmd.Printf("file: %s\n", settingsStore.Path())
	},
}

// settingsSetCmd changes hours-per-tomato.
var settingsSetCmd = &cobra.Command{
	Use:     "set <hours-per-tomato>",
	Short:   "Change the hours credited per tomato",
	Args:    cobra.ExactArgs(1),
	PreRunE: settingsSetupWrapper,
	RunE: func(cmd *cobra.Command, args []string) error {
		hours, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid hours per tomato %q: %w", args[0], err)
		}
		if err := settingsStore.SetHoursPerTomato(hours); err != nil {
			return err
		}
		cmd.Printf("Saved %s=%s to %s\n", settings.HoursPerTomatoKey, strconv.FormatFloat(hours, 'f', -1, 64), settingsStore.Path())
		return nil
	},
}
