// Package resolver maps an entity identifier to the set of analyzed items
// the entity's scope rule selects. It is the join point between entities and
// raw analyzed data, and the single place where storage is read during an
// aggregation request: items are fetched eagerly here, before the pure
// filter/aggregate stages run, so a caller-level timeout on the passed
// context is the only cancellation hook needed.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/brandpulse/social-insights/internal/models"
	"github.com/brandpulse/social-insights/internal/storage"
)

// EntityNotFoundError reports an entity id that does not resolve to a known
// record. Distinct from resolving to zero items, which is valid and yields
// empty aggregates.
type EntityNotFoundError struct {
	EntityType models.EntityType
	ID         string
}

func (e *EntityNotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.EntityType, e.ID)
}

// Entity is the resolved record plus the fields handlers need without
// branching on entity type.
type Entity struct {
	Type     models.EntityType
	ID       string
	Name     string
	Brand    *models.Brand
	Campaign *models.Campaign
	Content  *models.Content
}

// Keywords returns the entity's configured keyword list.
func (e Entity) Keywords() []string {
	switch e.Type {
	case models.EntityBrand:
		return e.Brand.Keywords
	case models.EntityCampaign:
		return e.Campaign.Keywords
	default:
		return e.Content.Keywords
	}
}

// Platforms returns the platforms the entity tracks; empty means all.
func (e Entity) Platforms() []models.Platform {
	switch e.Type {
	case models.EntityBrand:
		return e.Brand.Platforms
	case models.EntityCampaign:
		return e.Campaign.Platforms
	default:
		if e.Content.Platform != "" {
			return []models.Platform{e.Content.Platform}
		}
		return nil
	}
}

// Resolver resolves entities and their candidate item sets.
type Resolver struct {
	repo *storage.Repository
}

// New creates a resolver backed by the given repository.
func New(repo *storage.Repository) *Resolver {
	return &Resolver{repo: repo}
}

// ResolveEntity looks up the entity record only.
func (r *Resolver) ResolveEntity(ctx context.Context, entityType models.EntityType, id string) (Entity, error) {
	switch entityType {
	case models.EntityBrand:
		brand, err := r.repo.GetBrand(ctx, id)
		if err != nil {
			return Entity{}, notFoundOr(entityType, id, err)
		}
		return Entity{Type: entityType, ID: brand.ID, Name: brand.Name, Brand: brand}, nil
	case models.EntityCampaign:
		campaign, err := r.repo.GetCampaign(ctx, id)
		if err != nil {
			return Entity{}, notFoundOr(entityType, id, err)
		}
		return Entity{Type: entityType, ID: campaign.ID, Name: campaign.Name, Campaign: campaign}, nil
	case models.EntityContent:
		content, err := r.repo.GetContent(ctx, id)
		if err != nil {
			return Entity{}, notFoundOr(entityType, id, err)
		}
		return Entity{Type: entityType, ID: content.ID, Name: content.Title, Content: content}, nil
	}
	return Entity{}, &EntityNotFoundError{EntityType: entityType, ID: id}
}

// Resolve looks up the entity and fetches its candidate item set.
//
// Scope rules:
//   - Brand: items whose entity_refs include the brand's canonical name
//     (case-sensitive).
//   - Campaign: items whose post_url is in the campaign's tracked URL list OR
//     whose entity_refs include the campaign id; the campaign's configured
//     date range bounds both.
//   - Content: exactly the items matching the content's single post_url. A
//     content with no URL has an empty scope; it never falls back to ref
//     matching.
//
// Items are deduped per post URL, keeping only the newest analysis run's
// record, so re-running analysis never double-counts a post while older runs
// stay on disk as history.
func (r *Resolver) Resolve(ctx context.Context, entityType models.EntityType, id string) (Entity, []models.AnalyzedItem, error) {
	entity, err := r.ResolveEntity(ctx, entityType, id)
	if err != nil {
		return Entity{}, nil, err
	}

	all, err := r.repo.AllItems(ctx)
	if err != nil {
		return Entity{}, nil, fmt.Errorf("failed to fetch analyzed items: %w", err)
	}

	var scoped []models.AnalyzedItem
	switch entityType {
	case models.EntityBrand:
		for _, item := range all {
			if item.HasBrandRef(entity.Name) {
				scoped = append(scoped, item)
			}
		}
	case models.EntityCampaign:
		tracked := make(map[string]bool, len(entity.Campaign.PostURLs))
		for _, u := range entity.Campaign.PostURLs {
			tracked[u] = true
		}
		for _, item := range all {
			if !tracked[item.PostURL] && !item.HasCampaignRef(entity.ID) {
				continue
			}
			if !withinCampaignWindow(item, entity.Campaign) {
				continue
			}
			scoped = append(scoped, item)
		}
	case models.EntityContent:
		if entity.Content.PostURL == "" {
			logrus.Debugf("Content %s has no post URL; resolving to empty scope", entity.ID)
			break
		}
		for _, item := range all {
			if item.PostURL == entity.Content.PostURL {
				scoped = append(scoped, item)
			}
		}
	}

	return entity, latestRunPerPost(scoped), nil
}

func withinCampaignWindow(item models.AnalyzedItem, campaign *models.Campaign) bool {
	if campaign.StartDate != nil && item.PublishedAt.Before(*campaign.StartDate) {
		return false
	}
	if campaign.EndDate != nil && item.PublishedAt.After(*campaign.EndDate) {
		return false
	}
	return true
}

// latestRunPerPost keeps one item per post URL: the one analyzed most
// recently, with run id as a deterministic tie-break. Output preserves the
// input order of the surviving items.
func latestRunPerPost(items []models.AnalyzedItem) []models.AnalyzedItem {
	if len(items) == 0 {
		return nil
	}

	best := make(map[string]int, len(items))
	for i, item := range items {
		j, ok := best[item.PostURL]
		if !ok {
			best[item.PostURL] = i
			continue
		}
		current := items[j]
		if item.AnalyzedAt.After(current.AnalyzedAt) ||
			(item.AnalyzedAt.Equal(current.AnalyzedAt) && item.AnalysisRunID > current.AnalysisRunID) {
			best[item.PostURL] = i
		}
	}

	indices := make([]int, 0, len(best))
	for _, i := range best {
		indices = append(indices, i)
	}
	sort.Ints(indices)

	out := make([]models.AnalyzedItem, 0, len(indices))
	for _, i := range indices {
		out = append(out, items[i])
	}
	return out
}

func notFoundOr(entityType models.EntityType, id string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return &EntityNotFoundError{EntityType: entityType, ID: id}
	}
	return fmt.Errorf("failed to resolve %s %s: %w", entityType, id, err)
}
