package menu

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// APIVersion tags the catalog snapshot shape for consumers.
const APIVersion = "4.0.0"

// CategoryEntry is a category with its nested children and products.
type CategoryEntry struct {
	Category *Category
	Children []uuid.UUID
	Products []uuid.UUID
}

// ProductEntry is a product with its instance ids.
type ProductEntry struct {
	Product   *Product
	Instances []uuid.UUID
}

// Catalog is the denormalized, read-optimized snapshot of all menu
// entities. It is rebuilt in full on every mutation and swapped in
// atomically; it is the only artifact read by consumers outside the
// catalog core.
type Catalog struct {
	Categories               map[uuid.UUID]CategoryEntry
	Modifiers                map[uuid.UUID]ModifierTypeEntry
	ModifierOptions          map[uuid.UUID]*ModifierOption
	Products                 map[uuid.UUID]ProductEntry
	ProductInstances         map[uuid.UUID]*ProductInstance
	ProductInstanceFunctions map[uuid.UUID]*ProductInstanceFunction
	PrinterGroups            map[uuid.UUID]*PrinterGroup
	// Version is a monotonic cache-busting token, not a conflict
	// resolution mechanism.
	Version    string
	APIVersion string
}

// DesyncWarning records a non-fatal inconsistency discovered while
// recomputing the catalog. The dangling reference is dropped from the
// denormalized view rather than aborting the rebuild.
type DesyncWarning struct {
	EntityKind string
	EntityID   uuid.UUID
	Detail     string
}

func (w DesyncWarning) String() string {
	return fmt.Sprintf("%s %s: %s", w.EntityKind, w.EntityID, w.Detail)
}

// CatalogVersion derives the monotonic version token from wall-clock time.
func CatalogVersion(t time.Time) string {
	return strconv.FormatInt(t.UnixMilli(), 36)
}

// GenerateCatalog builds the denormalized catalog from the normalized
// collections. It is pure and deterministic: the same inputs produce an
// identical structure except for the Version token. Dangling references
// are reported as warnings, never errors.
func GenerateCatalog(
	categories []Category,
	modifierTypes []ModifierType,
	options []ModifierOption,
	products []Product,
	instances []ProductInstance,
	functions []ProductInstanceFunction,
	printerGroups []PrinterGroup,
) (*Catalog, []DesyncWarning) {
	var warnings []DesyncWarning

	catalog := &Catalog{
		Categories:               make(map[uuid.UUID]CategoryEntry, len(categories)),
		Modifiers:                make(map[uuid.UUID]ModifierTypeEntry, len(modifierTypes)),
		ModifierOptions:          make(map[uuid.UUID]*ModifierOption, len(options)),
		Products:                 make(map[uuid.UUID]ProductEntry, len(products)),
		ProductInstances:         make(map[uuid.UUID]*ProductInstance, len(instances)),
		ProductInstanceFunctions: make(map[uuid.UUID]*ProductInstanceFunction, len(functions)),
		PrinterGroups:            make(map[uuid.UUID]*PrinterGroup, len(printerGroups)),
		Version:                  CatalogVersion(time.Now()),
		APIVersion:               APIVersion,
	}

	for i := range categories {
		c := &categories[i]
		catalog.Categories[c.ID] = CategoryEntry{Category: c}
	}
	// Single pass nests each category under its parent; no recursion.
	for i := range categories {
		c := &categories[i]
		if c.ParentID == nil {
			continue
		}
		parent, ok := catalog.Categories[*c.ParentID]
		if !ok {
			warnings = append(warnings, DesyncWarning{
				EntityKind: "category",
				EntityID:   c.ID,
				Detail:     fmt.Sprintf("parent category %s does not exist", *c.ParentID),
			})
			continue
		}
		parent.Children = append(parent.Children, c.ID)
		catalog.Categories[*c.ParentID] = parent
	}

	for i := range modifierTypes {
		mt := &modifierTypes[i]
		catalog.Modifiers[mt.ID] = ModifierTypeEntry{ModifierType: mt}
	}
	for i := range options {
		o := &options[i]
		entry, ok := catalog.Modifiers[o.ModifierTypeID]
		if !ok {
			// Desync tolerance: an option pointing at a vanished
			// modifier type is dropped from the view.
			warnings = append(warnings, DesyncWarning{
				EntityKind: "modifier_option",
				EntityID:   o.ID,
				Detail:     fmt.Sprintf("modifier type %s does not exist", o.ModifierTypeID),
			})
			continue
		}
		entry.Options = append(entry.Options, o.ID)
		catalog.Modifiers[o.ModifierTypeID] = entry
		catalog.ModifierOptions[o.ID] = o
	}

	for i := range products {
		p := &products[i]
		catalog.Products[p.ID] = ProductEntry{Product: p}
	}
	for i := range instances {
		pi := &instances[i]
		catalog.ProductInstances[pi.ID] = pi
		entry, ok := catalog.Products[pi.ProductID]
		if !ok {
			warnings = append(warnings, DesyncWarning{
				EntityKind: "product_instance",
				EntityID:   pi.ID,
				Detail:     fmt.Sprintf("product %s does not exist", pi.ProductID),
			})
			continue
		}
		entry.Instances = append(entry.Instances, pi.ID)
		catalog.Products[pi.ProductID] = entry
	}
	for i := range products {
		p := &products[i]
		for _, catID := range p.CategoryIDs {
			entry, ok := catalog.Categories[catID]
			if !ok {
				warnings = append(warnings, DesyncWarning{
					EntityKind: "product",
					EntityID:   p.ID,
					Detail:     fmt.Sprintf("category %s does not exist", catID),
				})
				continue
			}
			entry.Products = append(entry.Products, p.ID)
			catalog.Categories[catID] = entry
		}
	}

	for i := range functions {
		fn := &functions[i]
		catalog.ProductInstanceFunctions[fn.ID] = fn
	}
	for i := range printerGroups {
		pg := &printerGroups[i]
		catalog.PrinterGroups[pg.ID] = pg
	}

	sortCatalog(catalog)
	return catalog, warnings
}

// sortCatalog orders all nested id slices by ordinal (id as tiebreak) so
// repeated generation over the same inputs is structurally identical.
func sortCatalog(catalog *Catalog) {
	for id, entry := range catalog.Categories {
		sort.Slice(entry.Children, func(i, j int) bool {
			a, b := catalog.Categories[entry.Children[i]], catalog.Categories[entry.Children[j]]
			if a.Category.Ordinal != b.Category.Ordinal {
				return a.Category.Ordinal < b.Category.Ordinal
			}
			return entry.Children[i].String() < entry.Children[j].String()
		})
		sort.Slice(entry.Products, func(i, j int) bool {
			return entry.Products[i].String() < entry.Products[j].String()
		})
		catalog.Categories[id] = entry
	}
	for id, entry := range catalog.Modifiers {
		options := entry.Options
		sort.Slice(options, func(i, j int) bool {
			a, b := catalog.ModifierOptions[options[i]], catalog.ModifierOptions[options[j]]
			if a.Ordinal != b.Ordinal {
				return a.Ordinal < b.Ordinal
			}
			return options[i].String() < options[j].String()
		})
		catalog.Modifiers[id] = entry
	}
	for id, entry := range catalog.Products {
		sort.Slice(entry.Instances, func(i, j int) bool {
			a, b := catalog.ProductInstances[entry.Instances[i]], catalog.ProductInstances[entry.Instances[j]]
			if a.Ordinal != b.Ordinal {
				return a.Ordinal < b.Ordinal
			}
			return entry.Instances[i].String() < entry.Instances[j].String()
		})
		catalog.Products[id] = entry
	}
}

// EntityKind discriminates the internal entity behind an external id.
type EntityKind string

const (
	EntityKindCategory        EntityKind = "category"
	EntityKindModifierType    EntityKind = "modifier_type"
	EntityKindModifierOption  EntityKind = "modifier_option"
	EntityKindProductInstance EntityKind = "product_instance"
	EntityKindPrinterGroup    EntityKind = "printer_group"
)

// EntityRef points back at the internal entity and specifier behind a
// remote catalog object id.
type EntityRef struct {
	Kind      EntityKind
	ID        uuid.UUID
	Specifier Specifier
}

// BuildExternalIDIndex computes the reverse mapping from remote catalog
// object ids back to internal entity ids over all specifiers.
func BuildExternalIDIndex(catalog *Catalog) map[string]EntityRef {
	index := make(map[string]EntityRef)
	record := func(ids ExternalIDs, kind EntityKind, entityID uuid.UUID) {
		for _, kv := range ids {
			index[kv.Value] = EntityRef{Kind: kind, ID: entityID, Specifier: kv.Key}
		}
	}
	for id, entry := range catalog.Categories {
		record(entry.Category.ExternalIDs, EntityKindCategory, id)
	}
	for id, entry := range catalog.Modifiers {
		record(entry.ModifierType.ExternalIDs, EntityKindModifierType, id)
	}
	for id, mo := range catalog.ModifierOptions {
		record(mo.ExternalIDs, EntityKindModifierOption, id)
	}
	for id, pi := range catalog.ProductInstances {
		record(pi.ExternalIDs, EntityKindProductInstance, id)
	}
	for id, pg := range catalog.PrinterGroups {
		record(pg.ExternalIDs, EntityKindPrinterGroup, id)
	}
	return index
}
