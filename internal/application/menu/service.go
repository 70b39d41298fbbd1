package menu

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/menu"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/shared"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/infrastructure/pos"
)

// POSCatalogClient is the slice of the point-of-sale API the catalog
// core needs. Satisfied by pos.SquareClient; tests substitute a fake.
type POSCatalogClient interface {
	BatchUpsertCatalogObjects(ctx context.Context, objects []pos.CatalogObject) (*pos.UpsertResult, error)
	BatchDeleteCatalogObjects(ctx context.Context, objectIDs []string) (*pos.DeleteResult, error)
	BatchRetrieveCatalogObjects(ctx context.Context, objectIDs []string, includeRelated bool) ([]pos.CatalogObject, error)
}

// Config holds the catalog core's operational switches.
type Config struct {
	// SuppressSquareSync skips all remote catalog calls; entities keep
	// whatever external ids they already carry. Intended for local
	// development against an empty sandbox.
	SuppressSquareSync bool
	// ForceCatalogRebuild pushes the complete catalog to the remote
	// point of sale during Bootstrap.
	ForceCatalogRebuild bool
}

// CatalogService owns the normalized menu collections and the
// denormalized snapshot derived from them. All mutations flow through
// it: validate, push to the point of sale, persist locally, recompute
// the snapshot, notify subscribers.
//
// A single mutex serializes mutations; the snapshot sits behind an
// atomic pointer so readers never block and never observe a partially
// rebuilt catalog.
type CatalogService struct {
	categories      menu.CategoryRepository
	modifierTypes   menu.ModifierTypeRepository
	modifierOptions menu.ModifierOptionRepository
	products        menu.ProductRepository
	instances       menu.ProductInstanceRepository
	functions       menu.InstanceFunctionRepository
	printerGroups   menu.PrinterGroupRepository

	pos           POSCatalogClient
	bus           shared.EventPublisher
	logger        *zap.Logger
	cfg           Config
	categoryGuard CategoryUsageChecker

	mu       sync.Mutex
	snapshot atomic.Pointer[menu.Catalog]
}

// NewCatalogService wires the catalog core.
func NewCatalogService(
	categories menu.CategoryRepository,
	modifierTypes menu.ModifierTypeRepository,
	modifierOptions menu.ModifierOptionRepository,
	products menu.ProductRepository,
	instances menu.ProductInstanceRepository,
	functions menu.InstanceFunctionRepository,
	printerGroups menu.PrinterGroupRepository,
	posClient POSCatalogClient,
	bus shared.EventPublisher,
	logger *zap.Logger,
	cfg Config,
) *CatalogService {
	s := &CatalogService{
		categories:      categories,
		modifierTypes:   modifierTypes,
		modifierOptions: modifierOptions,
		products:        products,
		instances:       instances,
		functions:       functions,
		printerGroups:   printerGroups,
		pos:             posClient,
		bus:             bus,
		logger:          logger,
		cfg:             cfg,
	}
	s.snapshot.Store(&menu.Catalog{APIVersion: menu.APIVersion})
	return s
}

// Catalog returns the current snapshot. The returned value is shared
// and must be treated as read-only.
func (s *CatalogService) Catalog() *menu.Catalog {
	return s.snapshot.Load()
}

// Bootstrap loads every collection from storage, computes the first
// snapshot, and optionally pushes the complete catalog to the point of
// sale.
func (s *CatalogService) Bootstrap(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.recompute(ctx); err != nil {
		return err
	}
	if s.cfg.ForceCatalogRebuild {
		if err := s.forceCompleteUpsertLocked(ctx); err != nil {
			return err
		}
	}
	catalog := s.snapshot.Load()
	s.logger.Info("catalog bootstrapped",
		zap.String("version", catalog.Version),
		zap.Int("categories", len(catalog.Categories)),
		zap.Int("modifier_types", len(catalog.Modifiers)),
		zap.Int("modifier_options", len(catalog.ModifierOptions)),
		zap.Int("products", len(catalog.Products)),
		zap.Int("product_instances", len(catalog.ProductInstances)),
	)
	return nil
}

// recompute reloads every collection, regenerates the denormalized
// catalog, and swaps it in. Caller must hold the mutation mutex.
func (s *CatalogService) recompute(ctx context.Context) error {
	categories, err := s.categories.FindAll(ctx)
	if err != nil {
		return err
	}
	modifierTypes, err := s.modifierTypes.FindAll(ctx)
	if err != nil {
		return err
	}
	options, err := s.modifierOptions.FindAll(ctx)
	if err != nil {
		return err
	}
	products, err := s.products.FindAll(ctx)
	if err != nil {
		return err
	}
	instances, err := s.instances.FindAll(ctx)
	if err != nil {
		return err
	}
	functions, err := s.functions.FindAll(ctx)
	if err != nil {
		return err
	}
	printerGroups, err := s.printerGroups.FindAll(ctx)
	if err != nil {
		return err
	}

	catalog, warnings := menu.GenerateCatalog(categories, modifierTypes, options, products, instances, functions, printerGroups)
	for _, w := range warnings {
		s.logger.Warn("catalog desync detected during rebuild",
			zap.String("entity_kind", w.EntityKind),
			zap.String("entity_id", w.EntityID.String()),
			zap.String("detail", w.Detail),
		)
	}
	s.snapshot.Store(catalog)
	return nil
}

// notify publishes the catalog-updated event unless suppressed.
// Intermediate steps of multi-entity chains suppress notification so
// subscribers see one event per logical mutation.
func (s *CatalogService) notify(ctx context.Context, suppress bool) {
	if suppress || s.bus == nil {
		return
	}
	catalog := s.snapshot.Load()
	if err := s.bus.Publish(ctx, menu.NewCatalogUpdatedEvent(catalog.Version, catalog)); err != nil {
		s.logger.Warn("catalog update notification failed", zap.Error(err))
	}
}

// finishMutation recomputes the snapshot and notifies subscribers.
// Caller must hold the mutation mutex.
func (s *CatalogService) finishMutation(ctx context.Context, suppressNotify bool) error {
	if err := s.recompute(ctx); err != nil {
		return err
	}
	s.notify(ctx, suppressNotify)
	return nil
}

// syncUpsert pushes objects to the remote catalog, first refreshing
// optimistic-concurrency versions for objects that already exist
// remotely. A nil result with nil error means sync is suppressed.
func (s *CatalogService) syncUpsert(ctx context.Context, objects []pos.CatalogObject) (*pos.UpsertResult, error) {
	if s.cfg.SuppressSquareSync || len(objects) == 0 {
		return &pos.UpsertResult{}, nil
	}
	if err := s.refreshRemoteVersions(ctx, objects); err != nil {
		return nil, err
	}
	result, err := s.pos.BatchUpsertCatalogObjects(ctx, objects)
	if err != nil {
		return nil, err
	}
	return result, nil
}

// refreshRemoteVersions fetches the current remote Version of every
// already-known object referenced by the pending upsert.
func (s *CatalogService) refreshRemoteVersions(ctx context.Context, objects []pos.CatalogObject) error {
	var known []string
	var collect func([]pos.CatalogObject)
	collect = func(objs []pos.CatalogObject) {
		for _, obj := range objs {
			if len(obj.ID) > 0 && obj.ID[0] != '#' {
				known = append(known, obj.ID)
			}
			if obj.ItemData != nil {
				collect(obj.ItemData.Variations)
			}
		}
	}
	collect(objects)
	if len(known) == 0 {
		return nil
	}
	existing, err := s.pos.BatchRetrieveCatalogObjects(ctx, known, false)
	if err != nil {
		return err
	}
	pos.ApplyObjectVersions(objects, existing)
	return nil
}

// syncDelete removes remote objects by id. Ids no longer present
// remotely are skipped without error.
func (s *CatalogService) syncDelete(ctx context.Context, objectIDs []string) error {
	if s.cfg.SuppressSquareSync || len(objectIDs) == 0 {
		return nil
	}
	if _, err := s.pos.BatchDeleteCatalogObjects(ctx, objectIDs); err != nil {
		return err
	}
	return nil
}

// itemCategoryID resolves the remote category an item is filed under,
// derived from the product's printer group routing.
func itemCategoryID(catalog *menu.Catalog, p *menu.Product) string {
	if p.PrinterGroupID == nil {
		return ""
	}
	pg, ok := catalog.PrinterGroups[*p.PrinterGroupID]
	if !ok {
		return ""
	}
	id, _ := pg.ExternalIDs.Get(menu.SpecifierCategory)
	return id
}

// itemModifierLists resolves the remote modifier lists attached to an
// item from the product's modifier specs. Types not yet pushed remotely
// are skipped; they attach on their own deep update.
func itemModifierLists(catalog *menu.Catalog, p *menu.Product) []pos.CatalogItemModifierListInfo {
	var infos []pos.CatalogItemModifierListInfo
	for _, spec := range p.ModifierSpecs {
		entry, ok := catalog.Modifiers[spec.ModifierTypeID]
		if !ok {
			continue
		}
		listID, ok := entry.ModifierType.ExternalIDs.Get(menu.SpecifierModifierList)
		if !ok {
			continue
		}
		infos = append(infos, pos.CatalogItemModifierListInfo{
			ModifierListID: listID,
			Enabled:        true,
			MinSelected:    entry.ModifierType.MinSelected,
			MaxSelected:    entry.ModifierType.MaxSelected,
		})
	}
	return infos
}

// ForceSquareCatalogCompleteUpsert pushes every syncable entity to the
// remote catalog, creating missing objects and updating the rest.
func (s *CatalogService) ForceSquareCatalogCompleteUpsert(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.forceCompleteUpsertLocked(ctx); err != nil {
		return err
	}
	return s.finishMutation(ctx, false)
}

// forceCompleteUpsertLocked runs the full push in two phases so that
// items and modifiers can reference real modifier list and category
// ids even when those were created moments earlier.
func (s *CatalogService) forceCompleteUpsertLocked(ctx context.Context) error {
	if s.cfg.SuppressSquareSync {
		return nil
	}
	catalog := s.snapshot.Load()

	// Phase one: containers (printer group categories, modifier lists).
	batchID := pos.NewSyncBatchID()
	var objects []pos.CatalogObject
	type pending struct {
		batchKey string
		merge    func(menu.ExternalIDs)
		persist  func(context.Context) error
	}
	var pendings []pending
	index := 0

	for _, pg := range catalog.PrinterGroups {
		key := pos.EntityBatchKey(batchID, index)
		index++
		objects = append(objects, pos.PrinterGroupToCatalogObject(key, pg))
		pendings = append(pendings, pending{
			batchKey: key,
			merge:    pg.MergeExternalIDs,
			persist:  func(ctx context.Context) error { return s.printerGroups.Save(ctx, pg) },
		})
	}
	for _, entry := range catalog.Categories {
		c := entry.Category
		key := pos.EntityBatchKey(batchID, index)
		index++
		objects = append(objects, pos.CategoryToCatalogObject(key, c))
		pendings = append(pendings, pending{
			batchKey: key,
			merge:    c.MergeExternalIDs,
			persist:  func(ctx context.Context) error { return s.categories.Save(ctx, c) },
		})
	}
	for _, entry := range catalog.Modifiers {
		mt := entry.ModifierType
		key := pos.EntityBatchKey(batchID, index)
		index++
		objects = append(objects, pos.ModifierTypeToCatalogObject(key, mt))
		pendings = append(pendings, pending{
			batchKey: key,
			merge:    mt.MergeExternalIDs,
			persist:  func(ctx context.Context) error { return s.modifierTypes.Save(ctx, mt) },
		})
	}

	if err := s.applyUpsert(ctx, objects, func(result *pos.UpsertResult) error {
		for _, p := range pendings {
			p.merge(pos.IDMappingsToExternalIDs(result.IDMappings, p.batchKey))
			if err := p.persist(ctx); err != nil {
				return &PersistAfterSyncError{Entity: "catalog container", Cause: err}
			}
		}
		return nil
	}); err != nil {
		return err
	}

	// Phase two: modifiers and items referencing phase-one ids.
	batchID = pos.NewSyncBatchID()
	objects = objects[:0]
	pendings = pendings[:0]
	index = 0

	for _, entry := range catalog.Modifiers {
		listID, ok := entry.ModifierType.ExternalIDs.Get(menu.SpecifierModifierList)
		if !ok {
			continue
		}
		for _, optID := range entry.Options {
			opt, ok := catalog.ModifierOptions[optID]
			if !ok {
				continue
			}
			key := pos.EntityBatchKey(batchID, index)
			index++
			objects = append(objects, pos.ModifierOptionToCatalogObjects(key, opt, listID)...)
			pendings = append(pendings, pending{
				batchKey: key,
				merge:    opt.MergeExternalIDs,
				persist:  func(ctx context.Context) error { return s.modifierOptions.Save(ctx, opt) },
			})
		}
	}
	for _, entry := range catalog.Products {
		p := entry.Product
		for _, instID := range entry.Instances {
			inst, ok := catalog.ProductInstances[instID]
			if !ok {
				continue
			}
			key := pos.EntityBatchKey(batchID, index)
			index++
			obj, ok := pos.ProductInstanceToCatalogObject(key, p, inst, itemCategoryID(catalog, p), itemModifierLists(catalog, p))
			if !ok {
				continue
			}
			objects = append(objects, obj)
			pendings = append(pendings, pending{
				batchKey: key,
				merge:    inst.MergeExternalIDs,
				persist:  func(ctx context.Context) error { return s.instances.Save(ctx, inst) },
			})
		}
	}

	return s.applyUpsert(ctx, objects, func(result *pos.UpsertResult) error {
		for _, p := range pendings {
			p.merge(pos.IDMappingsToExternalIDs(result.IDMappings, p.batchKey))
			if err := p.persist(ctx); err != nil {
				return &PersistAfterSyncError{Entity: "catalog leaf", Cause: err}
			}
		}
		return nil
	})
}

// applyUpsert pushes objects and, on success, runs the merge-back step.
func (s *CatalogService) applyUpsert(ctx context.Context, objects []pos.CatalogObject, after func(*pos.UpsertResult) error) error {
	if len(objects) == 0 {
		return nil
	}
	result, err := s.syncUpsert(ctx, objects)
	if err != nil {
		return err
	}
	if err := after(result); err != nil {
		var desync *PersistAfterSyncError
		if errors.As(err, &desync) {
			return s.reportDesync(desync)
		}
		return err
	}
	return nil
}

// reportDesync logs the divergence between remote and local state at
// error level with a stable marker, then returns the error unchanged.
func (s *CatalogService) reportDesync(err *PersistAfterSyncError) error {
	s.logger.Error("catalog desync: local persistence failed after remote sync",
		zap.String("entity", err.Entity),
		zap.Error(err.Cause),
	)
	return err
}
