package main

import (
	"context"

	"github.com/spf13/viper"

	"github.com/probelab/invctl/pkg/inventory"
)

// newClient builds the inventory client from flags/env, prompting for a
// token when none is configured.
func newClient() (*inventory.Client, error) {
	token := viper.GetString("token")
	if token == "" {
		var err error
		token, err = newTerminalPrompter().Token()
		if err != nil {
			return nil, err
		}
	}
	return inventory.NewClient(viper.GetString("server"), token), nil
}

// resolveContainer returns the container flag value, or asks the service
// for the default container when the flag is unset.
func resolveContainer(ctx context.Context, svc inventory.Service) (int64, error) {
	if id := viper.GetInt64("container"); id != 0 {
		return id, nil
	}
	return svc.ResolveContainerID(ctx)
}
