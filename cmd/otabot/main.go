package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"otabot/internal/app"
	"otabot/internal/config"
	"otabot/internal/ota"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var configPath string

// newApp reads the config and creates an OTAApp. The caller must defer app.Close().
// withSecrets loads the bot secrets from the environment first; a missing
// secret fails before any file or network access.
func newApp(cmd *cobra.Command, operation string, withSecrets bool) (*app.OTAApp, error) {
	var secrets *config.Secrets
	if withSecrets {
		s, err := config.LoadSecrets(os.Getenv)
		if err != nil {
			return nil, err
		}
		secrets = s
	}

	cfg, _, err := app.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("post-delay") {
		d, _ := cmd.Flags().GetDuration("post-delay")
		cfg.Telegram.PostDelay = config.Duration(d)
	}

	a, err := app.NewOTAApp(cfg, secrets, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}
	return a, nil
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

var rootCmd = &cobra.Command{
	Use:          "otabot",
	Short:        "Announce new ROM builds on Telegram",
	SilenceUsage: true,
}

// run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Announce new builds, then send the update status digest",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "run", true)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := signalContext(cmd)
		defer cancel()

		result, report, err := a.Run(ctx)
		if errors.Is(err, ota.ErrNothingToAnnounce) {
			fmt.Println("No new builds to announce.")
			return nil
		}
		if result != nil {
			printAnnounced(result)
		}
		if err != nil {
			return err
		}
		printDigest(report)
		return nil
	},
}

// announce command
var announceCmd = &cobra.Command{
	Use:   "announce",
	Short: "Announce new builds to the public channel",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "announce", true)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := signalContext(cmd)
		defer cancel()

		result, err := a.Announce(ctx)
		if errors.Is(err, ota.ErrNothingToAnnounce) {
			fmt.Println("No new builds to announce.")
			return nil
		}
		if result != nil {
			printAnnounced(result)
		}
		return err
	},
}

// digest command
var digestCmd = &cobra.Command{
	Use:   "digest",
	Short: "Send the device update status to the private chat",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "digest", true)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, cancel := signalContext(cmd)
		defer cancel()

		report, err := a.Digest(ctx)
		if err != nil {
			return err
		}
		printDigest(report)
		return nil
	},
}

// devices command
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List every device in the build registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, "devices", false)
		if err != nil {
			return err
		}
		defer a.Close()

		devices, err := a.Devices()
		if err != nil {
			return err
		}
		if len(devices) == 0 {
			fmt.Println("No devices found.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "DEVICE\tCODENAME\tMAINTAINER\tVERSION")
		for _, d := range devices {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.DeviceName, d.Codename, d.Maintainer, d.Version)
		}
		return w.Flush()
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := configPath
		if path == "" {
			path = app.GetDefaults()["config_path"]
		}

		if err := config.Init(path, config.NewConfig()); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", path)
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := app.LoadConfig(configPath)
		if err != nil {
			return err
		}

		fmt.Printf("Configuration from %s:\n\n", path)
		m := &config.Manager{}
		return m.Write(os.Stdout, cfg)
	},
}

func printAnnounced(result *ota.AnnounceResult) {
	for _, info := range result.Announced {
		fmt.Printf("Announced %s %s (%s) %s\n", info.OEM, info.DeviceName, info.Codename, info.Version)
	}
	for _, hash := range result.Skipped {
		fmt.Printf("Skipped %s: no metadata\n", hash)
	}
}

func printDigest(report *ota.DigestReport) {
	ref := report.Reference
	if ref == "" {
		ref = "unknown"
	}
	fmt.Printf("Status sent: %d of %d devices on %s\n", len(report.Updated), report.Total(), ref)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $OTABOT_CONFIG_PATH or .github/otabot.toml)")

	runCmd.Flags().Duration("post-delay", 5*time.Second, "pause between channel posts")
	announceCmd.Flags().Duration("post-delay", 5*time.Second, "pause between channel posts")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(announceCmd)
	rootCmd.AddCommand(digestCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(configCmd)
}
