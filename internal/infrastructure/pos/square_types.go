package pos

import "fmt"

// CatalogObjectType discriminates remote catalog object payloads.
type CatalogObjectType string

const (
	ObjectTypeItem          CatalogObjectType = "ITEM"
	ObjectTypeItemVariation CatalogObjectType = "ITEM_VARIATION"
	ObjectTypeCategory      CatalogObjectType = "CATEGORY"
	ObjectTypeModifierList  CatalogObjectType = "MODIFIER_LIST"
	ObjectTypeModifier      CatalogObjectType = "MODIFIER"
)

// Money is an integer amount in the currency's smallest denomination.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// CatalogObject is the remote catalog's polymorphic object envelope.
// Creation uses client-chosen placeholder ids prefixed "#"; updates must
// echo back the last-seen Version for remote optimistic concurrency.
type CatalogObject struct {
	ID                    string            `json:"id"`
	Type                  CatalogObjectType `json:"type"`
	Version               int64             `json:"version,omitempty"`
	IsDeleted             bool              `json:"is_deleted,omitempty"`
	PresentAtAllLocations bool              `json:"present_at_all_locations"`

	ItemData          *CatalogItem          `json:"item_data,omitempty"`
	ItemVariationData *CatalogItemVariation `json:"item_variation_data,omitempty"`
	CategoryData      *CatalogCategory      `json:"category_data,omitempty"`
	ModifierListData  *CatalogModifierList  `json:"modifier_list_data,omitempty"`
	ModifierData      *CatalogModifier      `json:"modifier_data,omitempty"`
}

// CatalogItem is the remote "item" payload.
type CatalogItem struct {
	Name             string                        `json:"name"`
	Description      string                        `json:"description,omitempty"`
	Abbreviation     string                        `json:"abbreviation,omitempty"`
	CategoryID       string                        `json:"category_id,omitempty"`
	Variations       []CatalogObject               `json:"variations,omitempty"`
	ModifierListInfo []CatalogItemModifierListInfo `json:"modifier_list_info,omitempty"`
	ProductType      string                        `json:"product_type,omitempty"`
}

// CatalogItemModifierListInfo attaches a modifier list to an item.
type CatalogItemModifierListInfo struct {
	ModifierListID string `json:"modifier_list_id"`
	Enabled        bool   `json:"enabled"`
	MinSelected    int    `json:"min_selected_modifiers,omitempty"`
	MaxSelected    int    `json:"max_selected_modifiers,omitempty"`
}

// CatalogItemVariation is the remote "item variation" payload.
type CatalogItemVariation struct {
	ItemID      string `json:"item_id,omitempty"`
	Name        string `json:"name"`
	Ordinal     int    `json:"ordinal,omitempty"`
	PricingType string `json:"pricing_type"`
	PriceMoney  *Money `json:"price_money,omitempty"`
	SKU         string `json:"sku,omitempty"`
}

// CatalogCategory is the remote category payload.
type CatalogCategory struct {
	Name string `json:"name"`
}

// ModifierListSelectionType constrains remote modifier list selection.
type ModifierListSelectionType string

const (
	SelectionTypeSingle   ModifierListSelectionType = "SINGLE"
	SelectionTypeMultiple ModifierListSelectionType = "MULTIPLE"
)

// CatalogModifierList is the remote modifier list payload.
type CatalogModifierList struct {
	Name          string                    `json:"name"`
	Ordinal       int                       `json:"ordinal,omitempty"`
	SelectionType ModifierListSelectionType `json:"selection_type"`
	Modifiers     []CatalogObject           `json:"modifiers,omitempty"`
}

// CatalogModifier is the remote modifier payload.
type CatalogModifier struct {
	Name           string `json:"name"`
	Ordinal        int    `json:"ordinal,omitempty"`
	PriceMoney     *Money `json:"price_money,omitempty"`
	ModifierListID string `json:"modifier_list_id,omitempty"`
}

// IDMapping maps a client-chosen placeholder id to the real object id
// the remote catalog assigned.
type IDMapping struct {
	ClientObjectID string `json:"client_object_id"`
	ObjectID       string `json:"object_id"`
}

// APIError is one application-level error returned by the remote API.
type APIError struct {
	Category string `json:"category"`
	Code     string `json:"code"`
	Detail   string `json:"detail,omitempty"`
	Field    string `json:"field,omitempty"`
}

func (e APIError) String() string {
	return fmt.Sprintf("%s/%s: %s", e.Category, e.Code, e.Detail)
}

// ---------------------------------------------------------------------------
// Catalog endpoints
// ---------------------------------------------------------------------------

type catalogObjectBatch struct {
	Objects []CatalogObject `json:"objects"`
}

type batchUpsertRequest struct {
	IdempotencyKey string               `json:"idempotency_key"`
	Batches        []catalogObjectBatch `json:"batches"`
}

type batchUpsertResponse struct {
	Objects    []CatalogObject `json:"objects"`
	IDMappings []IDMapping     `json:"id_mappings"`
	Errors     []APIError      `json:"errors"`
}

type batchDeleteRequest struct {
	ObjectIDs []string `json:"object_ids"`
}

type batchDeleteResponse struct {
	DeletedObjectIDs []string   `json:"deleted_object_ids"`
	Errors           []APIError `json:"errors"`
}

type batchRetrieveRequest struct {
	ObjectIDs             []string `json:"object_ids"`
	IncludeRelatedObjects bool     `json:"include_related_objects"`
}

type batchRetrieveResponse struct {
	Objects        []CatalogObject `json:"objects"`
	RelatedObjects []CatalogObject `json:"related_objects"`
	Errors         []APIError      `json:"errors"`
}

// SearchCatalogRequest queries the remote catalog.
type SearchCatalogRequest struct {
	Cursor      string              `json:"cursor,omitempty"`
	ObjectTypes []CatalogObjectType `json:"object_types,omitempty"`
	Query       *CatalogQuery       `json:"query,omitempty"`
	Limit       int                 `json:"limit,omitempty"`
}

// CatalogQuery narrows a catalog search.
type CatalogQuery struct {
	PrefixQuery *CatalogQueryPrefix `json:"prefix_query,omitempty"`
	ExactQuery  *CatalogQueryExact  `json:"exact_query,omitempty"`
}

// CatalogQueryPrefix matches attribute values by prefix.
type CatalogQueryPrefix struct {
	AttributeName   string `json:"attribute_name"`
	AttributePrefix string `json:"attribute_prefix"`
}

// CatalogQueryExact matches attribute values exactly.
type CatalogQueryExact struct {
	AttributeName  string `json:"attribute_name"`
	AttributeValue string `json:"attribute_value"`
}

type searchCatalogResponse struct {
	Cursor  string          `json:"cursor"`
	Objects []CatalogObject `json:"objects"`
	Errors  []APIError      `json:"errors"`
}

// CatalogLimits are the per-request size limits advertised by the
// remote platform.
type CatalogLimits struct {
	BatchUpsertMaxObjectsPerBatch int `json:"batch_upsert_max_objects_per_batch"`
	BatchUpsertMaxTotalObjects    int `json:"batch_upsert_max_total_objects"`
	BatchDeleteMaxObjectIDs       int `json:"batch_delete_max_object_ids"`
	BatchRetrieveMaxObjectIDs     int `json:"batch_retrieve_max_object_ids"`
	SearchMaxPageLimit            int `json:"search_max_page_limit"`
}

type catalogInfoResponse struct {
	Limits *CatalogLimits `json:"limits"`
	Errors []APIError     `json:"errors"`
}

// Conservative fallback limits used when /v2/catalog/info is unavailable.
var defaultCatalogLimits = CatalogLimits{
	BatchUpsertMaxObjectsPerBatch: 1000,
	BatchUpsertMaxTotalObjects:    1000,
	BatchDeleteMaxObjectIDs:       200,
	BatchRetrieveMaxObjectIDs:     200,
	SearchMaxPageLimit:            100,
}

// ---------------------------------------------------------------------------
// Payments endpoints
// ---------------------------------------------------------------------------

// CreatePaymentRequest captures a payment against a source (card nonce
// or card on file).
type CreatePaymentRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
	SourceID       string `json:"source_id"`
	AmountMoney    Money  `json:"amount_money"`
	TipMoney       *Money `json:"tip_money,omitempty"`
	LocationID     string `json:"location_id,omitempty"`
	ReferenceID    string `json:"reference_id,omitempty"`
	Autocomplete   bool   `json:"autocomplete"`
}

// PaymentStatus is the remote payment lifecycle state.
type PaymentStatus string

const (
	PaymentStatusApproved  PaymentStatus = "APPROVED"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusCanceled  PaymentStatus = "CANCELED"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// Payment is the remote payment record.
type Payment struct {
	ID          string        `json:"id"`
	Status      PaymentStatus `json:"status"`
	AmountMoney Money         `json:"amount_money"`
	TipMoney    *Money        `json:"tip_money,omitempty"`
	ReferenceID string        `json:"reference_id,omitempty"`
	ReceiptURL  string        `json:"receipt_url,omitempty"`
}

type createPaymentResponse struct {
	Payment *Payment   `json:"payment"`
	Errors  []APIError `json:"errors"`
}

type cancelPaymentResponse struct {
	Payment *Payment   `json:"payment"`
	Errors  []APIError `json:"errors"`
}
