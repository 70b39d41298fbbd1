package menu

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/menu"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/shared"
	"github.com/laviddichterman/wcp-order-backend-sub000/internal/infrastructure/pos"
)

// memRepo is a map-backed repository used to exercise the catalog core
// without a database.
type memRepo[T any] struct {
	mu    sync.Mutex
	items map[uuid.UUID]T
	id    func(*T) uuid.UUID
}

func newMemRepo[T any](id func(*T) uuid.UUID) *memRepo[T] {
	return &memRepo[T]{items: make(map[uuid.UUID]T), id: id}
}

func (r *memRepo[T]) FindByID(_ context.Context, id uuid.UUID) (*T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &item, nil
}

func (r *memRepo[T]) FindAll(_ context.Context) ([]T, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := make([]T, 0, len(r.items))
	for _, item := range r.items {
		all = append(all, item)
	}
	return all, nil
}

func (r *memRepo[T]) Save(_ context.Context, entity *T) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[r.id(entity)] = *entity
	return nil
}

func (r *memRepo[T]) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
	return nil
}

func (r *memRepo[T]) SaveBatch(ctx context.Context, entities []*T) error {
	for _, e := range entities {
		if err := r.Save(ctx, e); err != nil {
			return err
		}
	}
	return nil
}

func (r *memRepo[T]) DeleteBatch(_ context.Context, ids []uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range ids {
		delete(r.items, id)
	}
	return nil
}

type memOptionRepo struct {
	*memRepo[menu.ModifierOption]
}

func (r *memOptionRepo) FindByModifierType(ctx context.Context, typeID uuid.UUID) ([]menu.ModifierOption, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var matched []menu.ModifierOption
	for _, opt := range all {
		if opt.ModifierTypeID == typeID {
			matched = append(matched, opt)
		}
	}
	return matched, nil
}

type memInstanceRepo struct {
	*memRepo[menu.ProductInstance]
}

func (r *memInstanceRepo) FindByProduct(ctx context.Context, productID uuid.UUID) ([]menu.ProductInstance, error) {
	all, err := r.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	var matched []menu.ProductInstance
	for _, inst := range all {
		if inst.ProductID == productID {
			matched = append(matched, inst)
		}
	}
	return matched, nil
}

// fakePOSClient records every remote call and answers upserts by
// assigning a fresh remote id to each placeholder.
type fakePOSClient struct {
	mu            sync.Mutex
	upsertCalls   [][]pos.CatalogObject
	deleteCalls   [][]string
	retrieveCalls [][]string
	upsertErr     error
	counter       int
}

func (f *fakePOSClient) BatchUpsertCatalogObjects(_ context.Context, objects []pos.CatalogObject) (*pos.UpsertResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	f.upsertCalls = append(f.upsertCalls, objects)

	result := &pos.UpsertResult{}
	var walk func([]pos.CatalogObject)
	walk = func(objs []pos.CatalogObject) {
		for _, obj := range objs {
			if strings.HasPrefix(obj.ID, "#") {
				f.counter++
				result.IDMappings = append(result.IDMappings, pos.IDMapping{
					ClientObjectID: obj.ID,
					ObjectID:       "SQ_" + strconv.Itoa(f.counter),
				})
			}
			if obj.ItemData != nil {
				walk(obj.ItemData.Variations)
			}
		}
	}
	walk(objects)
	return result, nil
}

func (f *fakePOSClient) BatchDeleteCatalogObjects(_ context.Context, objectIDs []string) (*pos.DeleteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls = append(f.deleteCalls, objectIDs)
	return &pos.DeleteResult{DeletedObjectIDs: objectIDs}, nil
}

func (f *fakePOSClient) BatchRetrieveCatalogObjects(_ context.Context, objectIDs []string, _ bool) ([]pos.CatalogObject, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.retrieveCalls = append(f.retrieveCalls, objectIDs)
	// Every known id reports remote version 7 so version refresh is
	// observable on re-pushed objects.
	objects := make([]pos.CatalogObject, 0, len(objectIDs))
	for _, id := range objectIDs {
		objects = append(objects, pos.CatalogObject{ID: id, Version: 7})
	}
	return objects, nil
}

func (f *fakePOSClient) deletedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var all []string
	for _, call := range f.deleteCalls {
		all = append(all, call...)
	}
	return all
}

// failingRepo wraps a repository so a single Save fails, simulating a
// local write failure after a successful remote push.
type failingCategoryRepo struct {
	menu.CategoryRepository
	failSave bool
}

func (r *failingCategoryRepo) Save(ctx context.Context, c *menu.Category) error {
	if r.failSave {
		return shared.ErrConcurrencyConflict
	}
	return r.CategoryRepository.Save(ctx, c)
}

type testFixture struct {
	service       *CatalogService
	posClient     *fakePOSClient
	categories    *memRepo[menu.Category]
	modifierTypes *memRepo[menu.ModifierType]
	options       *memOptionRepo
	products      *memRepo[menu.Product]
	instances     *memInstanceRepo
	functions     *memRepo[menu.ProductInstanceFunction]
	printerGroups *memRepo[menu.PrinterGroup]
}

func newTestFixture(t *testing.T, cfg Config) *testFixture {
	t.Helper()
	f := &testFixture{
		posClient:     &fakePOSClient{},
		categories:    newMemRepo(func(c *menu.Category) uuid.UUID { return c.ID }),
		modifierTypes: newMemRepo(func(mt *menu.ModifierType) uuid.UUID { return mt.ID }),
		options:       &memOptionRepo{newMemRepo(func(o *menu.ModifierOption) uuid.UUID { return o.ID })},
		products:      newMemRepo(func(p *menu.Product) uuid.UUID { return p.ID }),
		instances:     &memInstanceRepo{newMemRepo(func(pi *menu.ProductInstance) uuid.UUID { return pi.ID })},
		functions:     newMemRepo(func(fn *menu.ProductInstanceFunction) uuid.UUID { return fn.ID }),
		printerGroups: newMemRepo(func(pg *menu.PrinterGroup) uuid.UUID { return pg.ID }),
	}
	f.service = NewCatalogService(
		f.categories, f.modifierTypes, f.options, f.products, f.instances,
		f.functions, f.printerGroups,
		f.posClient, nil, zap.NewNop(), cfg,
	)
	require.NoError(t, f.service.Bootstrap(context.Background()))
	return f
}
