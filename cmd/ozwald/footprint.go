package cmd

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/FredworkLemmas/ozwald-sub000/internal/model"
)

var (
	footprintAll      bool
	footprintServices []string
)

var footprintCmd = &cobra.Command{
	Use:   "footprint",
	Short: "Request and inspect footprinting jobs",
}

var footprintRequestCmd = &cobra.Command{
	Use:   "request",
	Short: "Enqueue a footprinting job (fails with 409 if the desired-state list is non-empty)",
	Args:  cobra.NoArgs,
	RunE:  runFootprintRequest,
}

var footprintListCmd = &cobra.Command{
	Use:   "list",
	Short: "List pending and in-progress footprinting jobs",
	Args:  cobra.NoArgs,
	RunE:  runFootprintList,
}

// parseServiceSelector accepts the literal NAME:PROFILE:VARIETY syntax
// described in §6.5. Either trailing segment may be omitted
// (NAME, NAME:PROFILE, or NAME:PROFILE:VARIETY). The bracketed
// service[token] form is not accepted, and the server stores the selectors
// as given without resolving tokens against the catalog.
func parseServiceSelector(raw string) model.FootprintServiceSelector {
	parts := strings.SplitN(raw, ":", 3)
	sel := model.FootprintServiceSelector{ServiceName: parts[0]}
	if len(parts) > 1 {
		sel.Profile = parts[1]
	}
	if len(parts) > 2 {
		sel.Variety = parts[2]
	}
	return sel
}

func runFootprintRequest(cmd *cobra.Command, args []string) error {
	if !footprintAll && len(footprintServices) == 0 {
		return fmt.Errorf("specify --all or at least one --service NAME[:PROFILE[:VARIETY]]")
	}
	if footprintAll && len(footprintServices) > 0 {
		return fmt.Errorf("--all and --service are mutually exclusive")
	}

	req := model.FootprintRequest{
		RequestID:            uuid.NewString(),
		FootprintAllServices: footprintAll,
	}
	for _, raw := range footprintServices {
		req.Services = append(req.Services, parseServiceSelector(raw))
	}

	client, err := newAPIClient()
	if err != nil {
		return err
	}

	var created model.FootprintRequest
	if err := client.do(cmd.Context(), http.MethodPost, "/srv/services/footprint", req, &created); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "footprint request enqueued: %s\n", created.RequestID)
	return nil
}

func runFootprintList(cmd *cobra.Command, args []string) error {
	client, err := newAPIClient()
	if err != nil {
		return err
	}

	var requests []model.FootprintRequest
	if err := client.do(cmd.Context(), http.MethodGet, "/srv/services/footprint", nil, &requests); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "footprint requests (%d):\n", len(requests))
	for _, r := range requests {
		fmt.Fprintf(out, "  %-40s in_progress=%-5t all=%-5t services=%d\n", r.RequestID, r.FootprintInProgress, r.FootprintAllServices, len(r.Services))
	}
	return nil
}

func init() {
	rootCmd.AddCommand(footprintCmd)
	footprintCmd.AddCommand(footprintRequestCmd)
	footprintCmd.AddCommand(footprintListCmd)

	footprintRequestCmd.Flags().BoolVar(&footprintAll, "all", false, "footprint every catalog service across every profile/variety combination")
	footprintRequestCmd.Flags().StringArrayVar(&footprintServices, "service", nil, "NAME[:PROFILE[:VARIETY]] selector, repeatable")
}
