// Package inventoryd is a self-contained development implementation of
// the inventory REST API, backed by SQLite. It exists so the CLI can be
// exercised end to end without the production inventory service.
package inventoryd

import (
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/probelab/invctl/pkg/inventory"
	"github.com/probelab/invctl/pkg/schema"
)

// ErrNotFound is returned for lookups of missing assets or labels.
var ErrNotFound = errors.New("not found")

// AssetRecord is the stored scalar state of one asset.
type AssetRecord struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	Container   int64  `gorm:"index"`
	Name        string `gorm:"index"`
	Kind        string
	Description string
	Mode        string
}

func (AssetRecord) TableName() string { return "assets" }

// CollectorRecord is one collector attached to an asset. Config holds the
// JSON-encoded configuration as sent by the client, without defaults.
type CollectorRecord struct {
	ID      int64  `gorm:"primaryKey;autoIncrement"`
	AssetID int64  `gorm:"uniqueIndex:idx_asset_collector"`
	Key     string `gorm:"uniqueIndex:idx_asset_collector"`
	Config  string
}

func (CollectorRecord) TableName() string { return "collectors" }

// LabelRecord is a named label definition.
type LabelRecord struct {
	ID   int64 `gorm:"primaryKey"`
	Name string
}

func (LabelRecord) TableName() string { return "labels" }

// AssetLabelRecord links an asset to a label.
type AssetLabelRecord struct {
	AssetID int64 `gorm:"uniqueIndex:idx_asset_label"`
	LabelID int64 `gorm:"uniqueIndex:idx_asset_label"`
}

func (AssetLabelRecord) TableName() string { return "asset_labels" }

// Store provides CRUD operations over the inventory tables. Observed
// assets are returned with collector configs expanded through the schema
// registry, matching what the production service reports.
type Store struct {
	db  *gorm.DB
	reg schema.Registry
}

// NewStore creates a store over db using reg for config expansion.
func NewStore(db *gorm.DB, reg schema.Registry) *Store {
	return &Store{db: db, reg: reg}
}

// AutoMigrate creates or updates the inventory tables.
func (s *Store) AutoMigrate() error {
	for _, model := range []any{&AssetRecord{}, &CollectorRecord{}, &LabelRecord{}, &AssetLabelRecord{}} {
		if err := s.db.AutoMigrate(model); err != nil {
			return fmt.Errorf("auto-migrate: %w", err)
		}
	}
	return nil
}

// CreateAsset inserts an empty asset with service-side defaults and
// returns its id.
func (s *Store) CreateAsset(container int64, name string) (int64, error) {
	record := AssetRecord{
		Container: container,
		Name:      name,
		Kind:      schema.DefaultKind,
		Mode:      schema.DefaultMode,
	}
	if err := s.db.Create(&record).Error; err != nil {
		return 0, fmt.Errorf("create asset: %w", err)
	}
	return record.ID, nil
}

// GetAsset returns the full observed record for one asset.
func (s *Store) GetAsset(id int64) (*inventory.Asset, error) {
	var record AssetRecord
	if err := s.db.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get asset: %w", err)
	}
	return s.toAsset(&record)
}

// FindAssets lists assets, optionally filtered by container, name, and kind.
func (s *Store) FindAssets(container *int64, name, kind string) ([]inventory.Asset, error) {
	query := s.db.Order("id ASC")
	if container != nil {
		query = query.Where("container = ?", *container)
	}
	if name != "" {
		query = query.Where("name = ?", name)
	}
	if kind != "" {
		query = query.Where("kind = ?", kind)
	}

	var records []AssetRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("find assets: %w", err)
	}

	assets := make([]inventory.Asset, 0, len(records))
	for i := range records {
		a, err := s.toAsset(&records[i])
		if err != nil {
			return nil, err
		}
		assets = append(assets, *a)
	}
	return assets, nil
}

// SetProperty updates one scalar property of an asset.
func (s *Store) SetProperty(id int64, property string, value string) error {
	column, ok := map[string]string{
		"name":        "name",
		"kind":        "kind",
		"description": "description",
		"mode":        "mode",
	}[property]
	if !ok {
		return fmt.Errorf("unknown property %q", property)
	}
	result := s.db.Model(&AssetRecord{}).Where("id = ?", id).Update(column, value)
	if result.Error != nil {
		return fmt.Errorf("set property: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// PutCollector attaches or replaces the collector with the given key.
func (s *Store) PutCollector(assetID int64, key string, config map[string]any) error {
	if err := s.assetExists(assetID); err != nil {
		return err
	}
	encoded, err := json.Marshal(config)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	record := CollectorRecord{AssetID: assetID, Key: key, Config: string(encoded)}
	err = s.db.Where("asset_id = ? AND key = ?", assetID, key).
		Assign(map[string]any{"config": record.Config}).
		FirstOrCreate(&CollectorRecord{}, CollectorRecord{AssetID: assetID, Key: key}).Error
	if err != nil {
		return fmt.Errorf("put collector: %w", err)
	}
	return nil
}

// DeleteCollector detaches the collector with the given key.
func (s *Store) DeleteCollector(assetID int64, key string) error {
	result := s.db.Where("asset_id = ? AND key = ?", assetID, key).Delete(&CollectorRecord{})
	if result.Error != nil {
		return fmt.Errorf("delete collector: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// AddLabel attaches a label to an asset. Adding an already-attached label
// is a no-op.
func (s *Store) AddLabel(assetID, labelID int64) error {
	if err := s.assetExists(assetID); err != nil {
		return err
	}
	var label LabelRecord
	if err := s.db.First(&label, labelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get label: %w", err)
	}
	link := AssetLabelRecord{AssetID: assetID, LabelID: labelID}
	if err := s.db.Where(link).FirstOrCreate(&AssetLabelRecord{}, link).Error; err != nil {
		return fmt.Errorf("add label: %w", err)
	}
	return nil
}

// RemoveLabel detaches a label from an asset.
func (s *Store) RemoveLabel(assetID, labelID int64) error {
	result := s.db.Where("asset_id = ? AND label_id = ?", assetID, labelID).Delete(&AssetLabelRecord{})
	if result.Error != nil {
		return fmt.Errorf("remove label: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// PutLabel creates or renames a label definition.
func (s *Store) PutLabel(id int64, name string) error {
	err := s.db.Where("id = ?", id).
		Assign(map[string]any{"name": name}).
		FirstOrCreate(&LabelRecord{}, LabelRecord{ID: id}).Error
	if err != nil {
		return fmt.Errorf("put label: %w", err)
	}
	return nil
}

// GetLabel returns a label definition by id.
func (s *Store) GetLabel(id int64) (*inventory.Label, error) {
	var record LabelRecord
	if err := s.db.First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get label: %w", err)
	}
	return &inventory.Label{ID: record.ID, Name: record.Name}, nil
}

func (s *Store) assetExists(id int64) error {
	var count int64
	if err := s.db.Model(&AssetRecord{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return fmt.Errorf("check asset: %w", err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return nil
}

// toAsset assembles the observed view: scalar fields, attached label ids,
// and collectors with configs expanded to their effective defaults.
func (s *Store) toAsset(record *AssetRecord) (*inventory.Asset, error) {
	asset := &inventory.Asset{
		ID:          record.ID,
		Container:   record.Container,
		Name:        record.Name,
		Kind:        record.Kind,
		Description: record.Description,
		Mode:        record.Mode,
	}

	var collectors []CollectorRecord
	if err := s.db.Where("asset_id = ?", record.ID).Order("id ASC").Find(&collectors).Error; err != nil {
		return nil, fmt.Errorf("load collectors: %w", err)
	}
	for _, c := range collectors {
		var config map[string]any
		if c.Config != "" && c.Config != "null" {
			if err := json.Unmarshal([]byte(c.Config), &config); err != nil {
				return nil, fmt.Errorf("decode collector %q config: %w", c.Key, err)
			}
		}
		if entry, ok := s.reg.Lookup(c.Key); ok {
			config = schema.ExpandDefaults(entry, config)
		}
		asset.Collectors = append(asset.Collectors, inventory.CollectorState{Key: c.Key, Config: config})
	}

	var links []AssetLabelRecord
	if err := s.db.Where("asset_id = ?", record.ID).Order("label_id ASC").Find(&links).Error; err != nil {
		return nil, fmt.Errorf("load labels: %w", err)
	}
	for _, l := range links {
		asset.Labels = append(asset.Labels, l.LabelID)
	}

	return asset, nil
}
