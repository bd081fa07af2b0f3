package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/FredworkLemmas/ozwald-sub000/internal/model"
)

var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "Inspect and update the daemon's desired-state service list",
}

var servicesUpdateCmd = &cobra.Command{
	Use:   "update [file]",
	Short: "Replace the dynamic desired-state list (reads a YAML/JSON instance list from a file, or stdin with -)",
	Args:  cobra.ExactArgs(1),
	RunE:  runServicesUpdate,
}

var servicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured catalog services and currently active instances",
	Args:  cobra.NoArgs,
	RunE:  runServicesList,
}

func runServicesUpdate(cmd *cobra.Command, args []string) error {
	var raw []byte
	var err error
	if args[0] == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(args[0])
	}
	if err != nil {
		return fmt.Errorf("read instance list: %w", err)
	}

	var instances []model.Instance
	if err := yaml.Unmarshal(raw, &instances); err != nil {
		return fmt.Errorf("parse instance list: %w", err)
	}

	client, err := newAPIClient()
	if err != nil {
		return err
	}

	if err := client.do(cmd.Context(), http.MethodPost, "/srv/services/dynamic/update/", instances, nil); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "desired-state update accepted")
	return nil
}

func runServicesList(cmd *cobra.Command, args []string) error {
	client, err := newAPIClient()
	if err != nil {
		return err
	}

	var configured []json.RawMessage
	if err := client.do(cmd.Context(), http.MethodGet, "/srv/services/configured/", nil, &configured); err != nil {
		return err
	}
	var active []model.Instance
	if err := client.do(cmd.Context(), http.MethodGet, "/srv/services/active/", nil, &active); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "configured services (%d):\n", len(configured))
	for _, c := range configured {
		fmt.Fprintf(out, "  %s\n", string(c))
	}
	fmt.Fprintf(out, "active instances (%d):\n", len(active))
	for _, inst := range active {
		fmt.Fprintf(out, "  %-30s %-10s service=%s profile=%s variety=%s\n", inst.Name, inst.Status, inst.Service, inst.Profile, inst.Variety)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(servicesCmd)
	servicesCmd.AddCommand(servicesUpdateCmd)
	servicesCmd.AddCommand(servicesListCmd)
}
