package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/brandpulse/social-insights/internal/models"
)

// Repository layers the document layout on top of an ObjectStore:
//
//	runs/<run_id>.json                               one AnalysisRun
//	items/<run_id>.json                              the run's AnalyzedItem batch
//	entities/<type>/<id>.json                        Brand/Campaign/Content
//	snapshots/<type>/<id>/<snapshot_type>.json       CMS-entered snapshot
//
// Item batches are immutable once written; a re-run writes a new batch under
// its own run id, so concurrent runs never contend on a key. Snapshot writes
// replace a single document, which keeps CMS upserts atomic per key.
type Repository struct {
	store ObjectStore
}

// NewRepository wraps an ObjectStore with the document layout.
func NewRepository(store ObjectStore) *Repository {
	return &Repository{store: store}
}

// ---- analysis runs ----

func runKey(runID string) string {
	return fmt.Sprintf("runs/%s.json", runID)
}

// SaveRun upserts a run document.
func (r *Repository) SaveRun(ctx context.Context, run *models.AnalysisRun) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("failed to marshal run %s: %w", run.ID, err)
	}
	return r.store.Store(ctx, runKey(run.ID), data)
}

// GetRun loads one run.
func (r *Repository) GetRun(ctx context.Context, runID string) (*models.AnalysisRun, error) {
	data, err := r.store.Retrieve(ctx, runKey(runID))
	if err != nil {
		return nil, err
	}
	var run models.AnalysisRun
	if err := json.Unmarshal(data, &run); err != nil {
		return nil, fmt.Errorf("failed to unmarshal run %s: %w", runID, err)
	}
	return &run, nil
}

// ListRuns loads every run document. Unreadable documents are skipped with a
// warning rather than failing the listing.
func (r *Repository) ListRuns(ctx context.Context) ([]models.AnalysisRun, error) {
	keys, err := r.store.List(ctx, "runs/")
	if err != nil {
		return nil, err
	}

	runs := make([]models.AnalysisRun, 0, len(keys))
	for _, key := range keys {
		data, err := r.store.Retrieve(ctx, key)
		if err != nil {
			logrus.Warnf("Skipping unreadable run document %s: %v", key, err)
			continue
		}
		var run models.AnalysisRun
		if err := json.Unmarshal(data, &run); err != nil {
			logrus.Warnf("Skipping malformed run document %s: %v", key, err)
			continue
		}
		runs = append(runs, run)
	}
	return runs, nil
}

// ---- analyzed items ----

func itemsKey(runID string) string {
	return fmt.Sprintf("items/%s.json", runID)
}

// SaveItems writes a run's item batch. The batch is keyed by run id, so a
// re-run writes a fresh document instead of mutating history.
func (r *Repository) SaveItems(ctx context.Context, runID string, items []models.AnalyzedItem) error {
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("failed to marshal items for run %s: %w", runID, err)
	}
	return r.store.Store(ctx, itemsKey(runID), data)
}

// AllItems loads every stored item across all runs. Date and entity scoping
// happen in memory after the fetch; at expected volumes (low thousands of
// items per entity) this is the deliberate simplification over storage-side
// range queries.
func (r *Repository) AllItems(ctx context.Context) ([]models.AnalyzedItem, error) {
	keys, err := r.store.List(ctx, "items/")
	if err != nil {
		return nil, err
	}

	var items []models.AnalyzedItem
	for _, key := range keys {
		data, err := r.store.Retrieve(ctx, key)
		if err != nil {
			logrus.Warnf("Skipping unreadable item batch %s: %v", key, err)
			continue
		}
		var batch []models.AnalyzedItem
		if err := json.Unmarshal(data, &batch); err != nil {
			logrus.Warnf("Skipping malformed item batch %s: %v", key, err)
			continue
		}
		items = append(items, batch...)
	}
	return items, nil
}

// ---- entities ----

func entityKey(entityType models.EntityType, id string) string {
	return fmt.Sprintf("entities/%s/%s.json", entityType, url.PathEscape(id))
}

// SaveEntity upserts an entity document.
func (r *Repository) SaveEntity(ctx context.Context, entityType models.EntityType, id string, entity any) error {
	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal %s %s: %w", entityType, id, err)
	}
	return r.store.Store(ctx, entityKey(entityType, id), data)
}

// DeleteEntity removes an entity document. The analyzed items referencing the
// entity are left untouched; ownership is soft.
func (r *Repository) DeleteEntity(ctx context.Context, entityType models.EntityType, id string) error {
	return r.store.Delete(ctx, entityKey(entityType, id))
}

// GetBrand loads a brand by id, falling back to a name lookup so dashboard
// URLs can use either.
func (r *Repository) GetBrand(ctx context.Context, idOrName string) (*models.Brand, error) {
	var brand models.Brand
	if err := r.getEntity(ctx, models.EntityBrand, idOrName, &brand); err == nil {
		return &brand, nil
	}

	brands, err := r.ListBrands(ctx)
	if err != nil {
		return nil, err
	}
	for i := range brands {
		if brands[i].Name == idOrName {
			return &brands[i], nil
		}
	}
	return nil, fmt.Errorf("brand %s: %w", idOrName, ErrNotFound)
}

// GetCampaign loads a campaign by id.
func (r *Repository) GetCampaign(ctx context.Context, id string) (*models.Campaign, error) {
	var campaign models.Campaign
	if err := r.getEntity(ctx, models.EntityCampaign, id, &campaign); err != nil {
		return nil, err
	}
	return &campaign, nil
}

// GetContent loads a content record by id.
func (r *Repository) GetContent(ctx context.Context, id string) (*models.Content, error) {
	var content models.Content
	if err := r.getEntity(ctx, models.EntityContent, id, &content); err != nil {
		return nil, err
	}
	return &content, nil
}

// ListBrands loads all brand documents.
func (r *Repository) ListBrands(ctx context.Context) ([]models.Brand, error) {
	var brands []models.Brand
	err := r.listEntities(ctx, models.EntityBrand, func(data []byte) error {
		var b models.Brand
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		brands = append(brands, b)
		return nil
	})
	return brands, err
}

// ListCampaigns loads all campaign documents.
func (r *Repository) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := r.listEntities(ctx, models.EntityCampaign, func(data []byte) error {
		var c models.Campaign
		if err := json.Unmarshal(data, &c); err != nil {
			return err
		}
		campaigns = append(campaigns, c)
		return nil
	})
	return campaigns, err
}

// ListContents loads all content documents.
func (r *Repository) ListContents(ctx context.Context) ([]models.Content, error) {
	var contents []models.Content
	err := r.listEntities(ctx, models.EntityContent, func(data []byte) error {
		var c models.Content
		if err := json.Unmarshal(data, &c); err != nil {
			return err
		}
		contents = append(contents, c)
		return nil
	})
	return contents, err
}

func (r *Repository) getEntity(ctx context.Context, entityType models.EntityType, id string, out any) error {
	data, err := r.store.Retrieve(ctx, entityKey(entityType, id))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s %s: %w", entityType, id, err)
	}
	return nil
}

func (r *Repository) listEntities(ctx context.Context, entityType models.EntityType, decode func([]byte) error) error {
	keys, err := r.store.List(ctx, fmt.Sprintf("entities/%s/", entityType))
	if err != nil {
		return err
	}
	for _, key := range keys {
		data, err := r.store.Retrieve(ctx, key)
		if err != nil {
			logrus.Warnf("Skipping unreadable entity document %s: %v", key, err)
			continue
		}
		if err := decode(data); err != nil {
			logrus.Warnf("Skipping malformed entity document %s: %v", key, err)
		}
	}
	return nil
}

// ---- CMS snapshots ----

func snapshotKey(entityType models.EntityType, id, snapshotType string) string {
	return fmt.Sprintf("snapshots/%s/%s/%s.json", entityType, url.PathEscape(id), snapshotType)
}

// SaveSnapshot replaces the snapshot document for (entity, snapshot type).
// The write is a single-document replace, so readers never observe a partial
// snapshot.
func (r *Repository) SaveSnapshot(ctx context.Context, entityType models.EntityType, id, snapshotType string, data []byte) error {
	if strings.TrimSpace(snapshotType) == "" {
		return fmt.Errorf("snapshot type is required")
	}
	return r.store.Store(ctx, snapshotKey(entityType, id, snapshotType), data)
}

// GetSnapshot loads the snapshot document for (entity, snapshot type).
func (r *Repository) GetSnapshot(ctx context.Context, entityType models.EntityType, id, snapshotType string) ([]byte, error) {
	return r.store.Retrieve(ctx, snapshotKey(entityType, id, snapshotType))
}
