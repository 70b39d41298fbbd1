package pos

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

// UpsertResult is the concatenated outcome of one logical batch upsert
// across all chunks, in input order.
type UpsertResult struct {
	Objects    []CatalogObject
	IDMappings []IDMapping
	Errors     []APIError
}

// DeleteResult is the concatenated outcome of one logical batch delete.
type DeleteResult struct {
	DeletedObjectIDs []string
	Errors           []APIError
}

// chunkSlice splits in into runs of at most size elements.
func chunkSlice[T any](in []T, size int) [][]T {
	if size <= 0 || len(in) == 0 {
		if len(in) == 0 {
			return nil
		}
		return [][]T{in}
	}
	chunks := make([][]T, 0, (len(in)+size-1)/size)
	for start := 0; start < len(in); start += size {
		end := start + size
		if end > len(in) {
			end = len(in)
		}
		chunks = append(chunks, in[start:end])
	}
	return chunks
}

// BatchUpsertCatalogObjects upserts the given objects, transparently
// chunked to the platform's upsert limit. Each chunk carries a fresh
// idempotency token. Chunks are processed sequentially to preserve
// per-chunk ordering guarantees for id-mapping correlation; a failed
// chunk aborts the whole logical call.
func (c *SquareClient) BatchUpsertCatalogObjects(ctx context.Context, objects []CatalogObject) (*UpsertResult, error) {
	if len(objects) == 0 {
		return &UpsertResult{}, nil
	}
	limits := c.catalogLimits(ctx)
	result := &UpsertResult{}

	for _, chunk := range chunkSlice(objects, limits.BatchUpsertMaxTotalObjects) {
		req := batchUpsertRequest{
			IdempotencyKey: c.newIdempotencyKey(ctx),
			Batches:        []catalogObjectBatch{{Objects: chunk}},
		}
		var resp batchUpsertResponse
		if err := c.doWithRetry(ctx, "catalog.batch-upsert", http.MethodPost, "/v2/catalog/batch-upsert", req, &resp); err != nil {
			return nil, err
		}
		result.Objects = append(result.Objects, resp.Objects...)
		result.IDMappings = append(result.IDMappings, resp.IDMappings...)
		result.Errors = append(result.Errors, resp.Errors...)
	}

	c.logger.Debug("catalog batch upsert complete",
		zap.Int("objects", len(objects)),
		zap.Int("id_mappings", len(result.IDMappings)),
	)
	return result, nil
}

// BatchDeleteCatalogObjects deletes the given object ids, chunked to
// the platform's delete limit. Deleting ids that no longer exist is not
// an error.
func (c *SquareClient) BatchDeleteCatalogObjects(ctx context.Context, objectIDs []string) (*DeleteResult, error) {
	if len(objectIDs) == 0 {
		return &DeleteResult{}, nil
	}
	limits := c.catalogLimits(ctx)
	result := &DeleteResult{}

	for _, chunk := range chunkSlice(objectIDs, limits.BatchDeleteMaxObjectIDs) {
		req := batchDeleteRequest{ObjectIDs: chunk}
		var resp batchDeleteResponse
		if err := c.doWithRetry(ctx, "catalog.batch-delete", http.MethodPost, "/v2/catalog/batch-delete", req, &resp); err != nil {
			return nil, err
		}
		result.DeletedObjectIDs = append(result.DeletedObjectIDs, resp.DeletedObjectIDs...)
		result.Errors = append(result.Errors, resp.Errors...)
	}
	return result, nil
}

// BatchRetrieveCatalogObjects fetches objects by id, chunked to the
// platform's retrieve limit.
func (c *SquareClient) BatchRetrieveCatalogObjects(ctx context.Context, objectIDs []string, includeRelated bool) ([]CatalogObject, error) {
	if len(objectIDs) == 0 {
		return nil, nil
	}
	limits := c.catalogLimits(ctx)
	var objects []CatalogObject

	for _, chunk := range chunkSlice(objectIDs, limits.BatchRetrieveMaxObjectIDs) {
		req := batchRetrieveRequest{ObjectIDs: chunk, IncludeRelatedObjects: includeRelated}
		var resp batchRetrieveResponse
		if err := c.doWithRetry(ctx, "catalog.batch-retrieve", http.MethodPost, "/v2/catalog/batch-retrieve", req, &resp); err != nil {
			return nil, err
		}
		objects = append(objects, resp.Objects...)
	}
	return objects, nil
}

// SearchCatalogObjects pages through catalog search results until the
// remote cursor is exhausted.
func (c *SquareClient) SearchCatalogObjects(ctx context.Context, req SearchCatalogRequest) ([]CatalogObject, error) {
	limits := c.catalogLimits(ctx)
	if req.Limit <= 0 || req.Limit > limits.SearchMaxPageLimit {
		req.Limit = limits.SearchMaxPageLimit
	}

	var objects []CatalogObject
	for {
		var resp searchCatalogResponse
		if err := c.doWithRetry(ctx, "catalog.search", http.MethodPost, "/v2/catalog/search", req, &resp); err != nil {
			return nil, err
		}
		objects = append(objects, resp.Objects...)
		if resp.Cursor == "" {
			return objects, nil
		}
		req.Cursor = resp.Cursor
	}
}

// CreatePayment captures a payment with a fresh idempotency key.
func (c *SquareClient) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*Payment, error) {
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = c.newIdempotencyKey(ctx)
	}
	if req.LocationID == "" {
		req.LocationID = c.config.LocationID
	}
	var resp createPaymentResponse
	if err := c.doWithRetry(ctx, "payments.create", http.MethodPost, "/v2/payments", req, &resp); err != nil {
		return nil, err
	}
	if resp.Payment == nil {
		return nil, ErrSquareInvalidPayload
	}
	return resp.Payment, nil
}

// CancelPayment voids an approved but uncompleted payment.
func (c *SquareClient) CancelPayment(ctx context.Context, paymentID string) (*Payment, error) {
	var resp cancelPaymentResponse
	if err := c.doWithRetry(ctx, "payments.cancel", http.MethodPost, "/v2/payments/"+paymentID+"/cancel", nil, &resp); err != nil {
		return nil, err
	}
	if resp.Payment == nil {
		return nil, ErrSquareInvalidPayload
	}
	return resp.Payment, nil
}
