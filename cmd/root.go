package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the taskcal application
var rootCmd = &cobra.Command{
	Use:   "taskcal",
	Short: "Schedule and track daily tasks from the terminal",
	Long: `taskcal is a calendar-oriented task client. Tasks are scheduled on
calendar days, validated before they ever reach the backend (unique
name per day, no scheduling in the past) and tracked to completion.

Sessions renew themselves: an expired access token is refreshed and
the failed request replayed, so commands keep working until the
refresh token itself runs out.`,
	SilenceUsage: true,
}

// Persistent flags shared by every command.
var (
	serverURL string
	configDir string
	debugMode bool
)

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "taskcal version %s\n" .Version}}`)

	// If no subcommand is provided, show today's agenda by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "agenda")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "Task backend base URL (e.g. https://tasks.example.com/api/). Can also use TASKCAL_SERVER env var.")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Directory for the persisted session (default: user config dir)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newSignupCmd())
	rootCmd.AddCommand(newVerifyCmd())
	rootCmd.AddCommand(newResendCmd())
	rootCmd.AddCommand(newTaskCmd())
	rootCmd.AddCommand(newAgendaCmd())
	rootCmd.AddCommand(newCalendarCmd())
	rootCmd.AddCommand(newWatchCmd())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
}
