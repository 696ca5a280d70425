package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/probelab/invctl/pkg/inventory"
)

var (
	getName string
	getKind string
)

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "Read inventory state",
}

var getAssetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "List assets in the target container",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newClient()
		if err != nil {
			return err
		}
		containerID, err := resolveContainer(cmd.Context(), client)
		if err != nil {
			return fmt.Errorf("resolve container: %w", err)
		}

		assets, err := client.FetchAssets(cmd.Context(), containerID, inventory.Filter{
			Name: getName,
			Kind: getKind,
		})
		if err != nil {
			return err
		}

		if viper.GetString("output") != "text" {
			return printOutput(assets)
		}

		rows := make([][]string, 0, len(assets))
		for _, a := range assets {
			keys := make([]string, 0, len(a.Collectors))
			for _, c := range a.Collectors {
				keys = append(keys, c.Key)
			}
			labels := make([]string, 0, len(a.Labels))
			for _, id := range a.Labels {
				labels = append(labels, strconv.FormatInt(id, 10))
			}
			rows = append(rows, []string{
				strconv.FormatInt(a.ID, 10),
				a.Name,
				a.Kind,
				a.Mode,
				strings.Join(keys, ","),
				strings.Join(labels, ","),
				truncate(a.Description, 40),
			})
		}
		printTable([]string{"id", "name", "kind", "mode", "collectors", "labels", "description"}, rows)
		return nil
	},
}

func init() {
	getAssetsCmd.Flags().StringVar(&getName, "name", "", "Filter by exact asset name")
	getAssetsCmd.Flags().StringVar(&getKind, "kind", "", "Filter by asset kind")
	getCmd.AddCommand(getAssetsCmd)
}
