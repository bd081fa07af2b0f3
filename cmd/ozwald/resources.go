package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/FredworkLemmas/ozwald-sub000/internal/hostresources"
)

var resourcesCmd = &cobra.Command{
	Use:   "resources",
	Short: "Show the host's available CPU and memory, and the number of detected GPUs",
	Args:  cobra.NoArgs,
	RunE:  runResources,
}

func runResources(cmd *cobra.Command, args []string) error {
	client, err := newAPIClient()
	if err != nil {
		return err
	}

	var snap hostresources.Snapshot
	if err := client.do(cmd.Context(), http.MethodGet, "/srv/resources/available/", nil, &snap); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "cpu cores:  %.2f / %.2f available\n", snap.AvailableCPUCores, snap.TotalCPUCores)
	fmt.Fprintf(out, "memory gb:  %.2f / %.2f available\n", snap.AvailableMemoryGB, snap.TotalMemoryGB)
	fmt.Fprintf(out, "gpus:       %d detected\n", len(snap.GPUs))
	return nil
}

func init() {
	rootCmd.AddCommand(resourcesCmd)
}
