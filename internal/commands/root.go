package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/balkashynov/bankroll/internal/app"
	"github.com/balkashynov/bankroll/internal/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// ErrPremiumRequired is returned by commands behind the entitlement gate
var ErrPremiumRequired = errors.New("this command needs a premium subscription (set BANKROLL_PREMIUM=true)")

var rootCmd = &cobra.Command{
	Use:   "bankroll",
	Short: "A poker bankroll tracker",
	Long: `bankroll records your poker sessions, cash games and tournaments, and
turns them into profit, hourly rate, win rate and ROI from the terminal.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// openApp builds the application context for one command run
var openApp = func(ctx context.Context) (*app.App, error) {
	return app.Open(ctx, config.Load(), app.Options{})
}

// withApp wraps a command function to open the app first and close it after
func withApp(fn func(cmd *cobra.Command, args []string, a *app.App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := a.Close(); closeErr != nil && err == nil {
				err = closeErr
			}
		}()
		a.Log.WithComponent("commands").Debug("running command", "command", cmd.CommandPath(), "args", len(args))
		return fn(cmd, args, a)
	}
}

// requirePremium wraps a command behind the entitlement gate
func requirePremium(fn func(cmd *cobra.Command, args []string, a *app.App) error) func(cmd *cobra.Command, args []string, a *app.App) error {
	return func(cmd *cobra.Command, args []string, a *app.App) error {
		if !a.Entitlement {
			return ErrPremiumRequired
		}
		return fn(cmd, args, a)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "bankroll %s (commit %s, built %s)\n", version, commit, date)
	},
}

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(removeCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(breakdownCmd)
	rootCmd.AddCommand(daysCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(locationCmd)
	rootCmd.AddCommand(transactionCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(rebuyCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(dashCmd)
	rootCmd.AddCommand(widgetCmd)
	rootCmd.SetHelpCommand(helpCmd)
	rootCmd.AddCommand(versionCmd)
}
