package pos

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/laviddichterman/wcp-order-backend-sub000/internal/domain/menu"
)

// The remote catalog assigns real object ids only after an upsert.
// Objects created in a request therefore carry client-chosen placeholder
// ids of the form "#<batchKey>_<SPECIFIER>"; the response's id mappings
// translate those back into real ids, keyed by the same convention.
// A batch key is request-scoped and entity-indexed so that many entities
// can share one upsert request without placeholder collisions.

// NewSyncBatchID returns a request-scoped batch token.
func NewSyncBatchID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// EntityBatchKey derives the per-entity key for the index-th entity of a
// sync batch.
func EntityBatchKey(batchID string, index int) string {
	return batchID + "S" + strconv.Itoa(index) + "S"
}

// PlaceholderID builds the client object id for an entity/specifier pair.
func PlaceholderID(batchKey string, spec menu.Specifier) string {
	return "#" + batchKey + "_" + string(spec)
}

// objectID returns the recorded remote id for the specifier, or a
// placeholder when the entity has never been pushed under that specifier.
func objectID(ids menu.ExternalIDs, batchKey string, spec menu.Specifier) string {
	if id, ok := ids.Get(spec); ok {
		return id
	}
	return PlaceholderID(batchKey, spec)
}

// IDMappingsToExternalIDs parses the upsert response's id mappings back
// into specifier/object-id pairs for the entity identified by batchKey.
// Mappings for other entities in the same request are ignored.
func IDMappingsToExternalIDs(mappings []IDMapping, batchKey string) menu.ExternalIDs {
	prefix := "#" + batchKey + "_"
	var ids menu.ExternalIDs
	for _, m := range mappings {
		suffix, ok := strings.CutPrefix(m.ClientObjectID, prefix)
		if !ok || suffix == "" {
			continue
		}
		ids = append(ids, menu.ExternalID{Key: menu.Specifier(suffix), Value: m.ObjectID})
	}
	return ids
}

// ApplyObjectVersions copies the last-seen remote Version onto objects
// about to be upserted. The remote API rejects updates whose version does
// not match its current one.
func ApplyObjectVersions(objects []CatalogObject, existing []CatalogObject) {
	versions := make(map[string]int64, len(existing))
	for _, obj := range existing {
		versions[obj.ID] = obj.Version
	}
	for i := range objects {
		if v, ok := versions[objects[i].ID]; ok {
			objects[i].Version = v
		}
		if objects[i].ItemData != nil {
			ApplyObjectVersions(objects[i].ItemData.Variations, existing)
		}
	}
}

// MoneyFromDecimal converts a decimal dollar amount to integer cents.
func MoneyFromDecimal(d decimal.Decimal) *Money {
	return &Money{Amount: d.Shift(2).Round(0).IntPart(), Currency: "USD"}
}

// CategoryToCatalogObject maps a category onto one CATEGORY object.
func CategoryToCatalogObject(batchKey string, c *menu.Category) CatalogObject {
	return CatalogObject{
		ID:                    objectID(c.ExternalIDs, batchKey, menu.SpecifierCategory),
		Type:                  ObjectTypeCategory,
		PresentAtAllLocations: true,
		CategoryData:          &CatalogCategory{Name: c.Name},
	}
}

// PrinterGroupToCatalogObject maps a printer group onto the CATEGORY
// object used to route its items at the point of sale.
func PrinterGroupToCatalogObject(batchKey string, pg *menu.PrinterGroup) CatalogObject {
	return CatalogObject{
		ID:                    objectID(pg.ExternalIDs, batchKey, menu.SpecifierCategory),
		Type:                  ObjectTypeCategory,
		PresentAtAllLocations: true,
		CategoryData:          &CatalogCategory{Name: pg.Name},
	}
}

// ModifierTypeToCatalogObject maps a modifier type onto one
// MODIFIER_LIST object. Selection is SINGLE exactly when at most one
// option may be chosen.
func ModifierTypeToCatalogObject(batchKey string, mt *menu.ModifierType) CatalogObject {
	selection := SelectionTypeMultiple
	if mt.SingleSelect() {
		selection = SelectionTypeSingle
	}
	return CatalogObject{
		ID:                    objectID(mt.ExternalIDs, batchKey, menu.SpecifierModifierList),
		Type:                  ObjectTypeModifierList,
		PresentAtAllLocations: true,
		ModifierListData: &CatalogModifierList{
			Name:          mt.DisplayLabel(),
			Ordinal:       mt.Ordinal,
			SelectionType: selection,
		},
	}
}

// modifierVariant is one of the up to six remote MODIFIER objects an
// option expands into.
type modifierVariant struct {
	specifier  menu.Specifier
	offset     int
	namePrefix string
	enabled    func(menu.OptionMetadata) bool
}

var modifierVariants = []modifierVariant{
	{menu.SpecifierModifierWhole, 1, "", func(menu.OptionMetadata) bool { return true }},
	{menu.SpecifierModifierLeft, 2, "Left ", func(m menu.OptionMetadata) bool { return m.CanSplit }},
	{menu.SpecifierModifierRight, 3, "Right ", func(m menu.OptionMetadata) bool { return m.CanSplit }},
	{menu.SpecifierModifierHeavy, 4, "Heavy ", func(m menu.OptionMetadata) bool { return m.AllowHeavy }},
	{menu.SpecifierModifierLite, 5, "Lite ", func(m menu.OptionMetadata) bool { return m.AllowLite }},
	{menu.SpecifierModifierOTS, 6, "OTS ", func(m menu.OptionMetadata) bool { return m.AllowOTS }},
}

// ModifierOptionToCatalogObjects expands an option into one MODIFIER
// object per enabled placement/qualifier variant. The ordinal
// interleaving (base*6 + variant offset) keeps all variants of one
// option contiguous in remote ordering.
func ModifierOptionToCatalogObjects(batchKey string, opt *menu.ModifierOption, modifierListID string) []CatalogObject {
	objects := make([]CatalogObject, 0, len(modifierVariants))
	for _, v := range modifierVariants {
		if !v.enabled(opt.Metadata) {
			continue
		}
		price := opt.Price
		if v.specifier == menu.SpecifierModifierHeavy {
			// Heavy placement doubles the portion and the charge.
			price = price.Mul(decimal.NewFromInt(2))
		}
		objects = append(objects, CatalogObject{
			ID:                    objectID(opt.ExternalIDs, batchKey, v.specifier),
			Type:                  ObjectTypeModifier,
			PresentAtAllLocations: true,
			ModifierData: &CatalogModifier{
				Name:           v.namePrefix + opt.DisplayName,
				Ordinal:        opt.Ordinal*6 + v.offset,
				PriceMoney:     MoneyFromDecimal(price),
				ModifierListID: modifierListID,
			},
		})
	}
	return objects
}

// ProductInstanceToCatalogObject maps a product instance onto one ITEM
// with a single nested ITEM_VARIATION carrying the product's base price.
// Instances hidden from the point of sale yield no object at all.
func ProductInstanceToCatalogObject(batchKey string, p *menu.Product, inst *menu.ProductInstance, categoryID string, modifierLists []CatalogItemModifierListInfo) (CatalogObject, bool) {
	if inst.DisplayFlags.HideFromPOS {
		return CatalogObject{}, false
	}
	variation := CatalogObject{
		ID:                    objectID(inst.ExternalIDs, batchKey, menu.SpecifierItemVariation),
		Type:                  ObjectTypeItemVariation,
		PresentAtAllLocations: true,
		ItemVariationData: &CatalogItemVariation{
			Name:        inst.POSDisplayName(),
			Ordinal:     inst.Ordinal,
			PricingType: "FIXED_PRICING",
			PriceMoney:  MoneyFromDecimal(p.Price),
			SKU:         inst.Shortcode,
		},
	}
	return CatalogObject{
		ID:                    objectID(inst.ExternalIDs, batchKey, menu.SpecifierItem),
		Type:                  ObjectTypeItem,
		PresentAtAllLocations: true,
		ItemData: &CatalogItem{
			Name:             inst.POSDisplayName(),
			Description:      inst.Description,
			Abbreviation:     abbreviate(inst.Shortcode),
			CategoryID:       categoryID,
			Variations:       []CatalogObject{variation},
			ModifierListInfo: modifierLists,
			ProductType:      "REGULAR",
		},
	}, true
}

// abbreviate trims a shortcode to the remote 24-character limit.
func abbreviate(s string) string {
	if len(s) > 24 {
		return s[:24]
	}
	return s
}
