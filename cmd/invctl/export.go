package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/probelab/invctl/pkg/inventory"
	"github.com/probelab/invctl/pkg/manifest"
)

var exportFile string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the container's assets as a manifest",
	Long: `Fetches every asset in the target container and writes it back as an
apply-able manifest. Collector configs are exported in their effective
(default-expanded) form, as reported by the service.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		containerID, err := resolveContainer(cmd.Context(), client)
		if err != nil {
			return fmt.Errorf("resolve container: %w", err)
		}

		assets, err := client.FetchAssets(cmd.Context(), containerID, inventory.Filter{})
		if err != nil {
			return err
		}

		m := exportManifest(containerID, assets)
		data, err := m.Marshal()
		if err != nil {
			return err
		}

		if exportFile == "" {
			os.Stdout.Write(data)
			return nil
		}
		return os.WriteFile(exportFile, data, 0o644)
	},
}

// exportManifest projects observed assets into manifest form.
func exportManifest(containerID int64, assets []inventory.Asset) *manifest.Manifest {
	m := &manifest.Manifest{Container: &containerID}
	for _, a := range assets {
		desired := &manifest.Asset{
			Name: a.Name,
			Kind: a.Kind,
			Mode: a.Mode,
		}
		if a.Description != "" {
			desc := a.Description
			desired.Description = &desc
		}
		for _, id := range a.Labels {
			desired.Labels = append(desired.Labels, id)
		}
		for _, c := range a.Collectors {
			col := manifest.Collector{Key: c.Key}
			if len(c.Config) > 0 {
				col.Config = c.Config
			}
			desired.Collectors = append(desired.Collectors, col)
		}
		m.Assets = append(m.Assets, desired)
	}
	return m
}

func init() {
	exportCmd.Flags().StringVarP(&exportFile, "file", "f", "", "Write the manifest to this file instead of stdout")
}
