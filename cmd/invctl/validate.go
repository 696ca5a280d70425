package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/probelab/invctl/pkg/manifest"
	"github.com/probelab/invctl/pkg/schema"
)

var (
	validateFile              string
	validateUnknownCollectors bool
	validateUnknownKinds      bool
	validateShow              bool
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a manifest without touching the inventory",
	RunE: func(_ *cobra.Command, _ []string) error {
		m, err := manifest.Load(validateFile)
		if err != nil {
			return err
		}

		if err := manifest.Validate(m, schema.Default(), manifest.Options{
			AllowUnknownCollectors: validateUnknownCollectors,
			AllowUnknownKinds:      validateUnknownKinds,
		}); err != nil {
			return err
		}

		if validateShow {
			data, err := m.Marshal()
			if err != nil {
				return err
			}
			os.Stdout.Write(data)
		}
		fmt.Fprintf(os.Stderr, "%s: %d assets, manifest valid\n", validateFile, len(m.Assets))
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "Manifest file (required)")
	_ = validateCmd.MarkFlagRequired("file")
	validateCmd.Flags().BoolVar(&validateUnknownCollectors, "allow-unknown-collectors", false, "Accept collector keys outside the registry")
	validateCmd.Flags().BoolVar(&validateUnknownKinds, "allow-unknown-kinds", false, "Accept asset kinds outside the fixed vocabulary")
	validateCmd.Flags().BoolVar(&validateShow, "show", false, "Print the normalized manifest")
}
