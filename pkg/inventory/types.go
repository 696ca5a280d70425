// Package inventory models the remote inventory service: the observed
// asset records it holds and the capability surface the reconciler
// consumes. The HTTP client in this package is the production
// implementation of that capability.
package inventory

import "context"

// CollectorState is one collector attached to a remote asset. The config
// is the effective configuration as returned by the service, with schema
// defaults already expanded.
type CollectorState struct {
	Key    string         `json:"key"`
	Config map[string]any `json:"config,omitempty"`
}

// Asset is the service's current record for one asset. It is fetched once
// per reconciliation run and treated as a read-only snapshot; concurrent
// remote modification is not detected.
type Asset struct {
	ID          int64            `json:"id"`
	Container   int64            `json:"container"`
	Name        string           `json:"name"`
	Kind        string           `json:"kind"`
	Description string           `json:"description"`
	Mode        string           `json:"mode"`
	Labels      []int64          `json:"labels"`
	Collectors  []CollectorState `json:"collectors"`
}

// Label is a named tag assignable to assets.
type Label struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Filter narrows FetchAssets results.
type Filter struct {
	Name string
	Kind string
}

// Service is the capability surface of the remote inventory. All mutating
// calls require the asset to exist; a non-success response surfaces as a
// *RemoteError.
type Service interface {
	// FindAssetID looks up an asset id by name. The second return is
	// false when no asset with that name exists.
	FindAssetID(ctx context.Context, name string) (int64, bool, error)

	// CreateAsset creates an empty asset in the container and returns
	// its new id.
	CreateAsset(ctx context.Context, containerID int64, name string) (int64, error)

	// SetProperty sets one scalar property (name, kind, description, mode).
	SetProperty(ctx context.Context, assetID int64, property string, value any) error

	// AddCollector attaches or replaces the collector with the given key.
	AddCollector(ctx context.Context, assetID int64, key string, config map[string]any) error

	// RemoveCollector detaches the collector with the given key.
	RemoveCollector(ctx context.Context, assetID int64, key string) error

	// AddLabel attaches a label by id.
	AddLabel(ctx context.Context, assetID int64, labelID int64) error

	// RemoveLabel detaches a label by id.
	RemoveLabel(ctx context.Context, assetID int64, labelID int64) error

	// FetchAsset returns the full observed record for one asset.
	FetchAsset(ctx context.Context, assetID int64) (*Asset, error)

	// FetchAssets lists the assets in a container, optionally filtered.
	FetchAssets(ctx context.Context, containerID int64, filter Filter) ([]Asset, error)

	// FetchLabelName resolves a label id to its name.
	FetchLabelName(ctx context.Context, labelID int64) (string, error)

	// ResolveContainerID returns the caller's default container when the
	// manifest does not name one.
	ResolveContainerID(ctx context.Context) (int64, error)
}
