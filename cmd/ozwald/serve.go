package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/FredworkLemmas/ozwald-sub000/internal/app"
)

var (
	serveDebug             bool
	serveConfigPath        string
	serveProvisionerName   string
	serveRealm             string
	serveFootprintDataPath string
	serveListenAddr        string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the ozwald daemon (reconciler, footprinter, control plane) in the foreground",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := app.NewConfig(serveDebug, serveConfigPath, serveProvisionerName, serveRealm, serveFootprintDataPath, "", serveListenAddr)

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	return application.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "enable debug logging")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "catalog file path (defaults to OZWALD_CONFIG)")
	serveCmd.Flags().StringVar(&serveProvisionerName, "provisioner", "", "named provisioner to use (defaults to OZWALD_PROVISIONER)")
	serveCmd.Flags().StringVar(&serveRealm, "realm", "", "realm used in container naming (defaults to OZWALD_HOST)")
	serveCmd.Flags().StringVar(&serveFootprintDataPath, "footprint-data", "", "usage-record file path (defaults to OZWALD_FOOTPRINT_DATA)")
	serveCmd.Flags().StringVar(&serveListenAddr, "listen", ":8080", "control-plane HTTP listen address")
}
