// Package ingestion loads product catalogs into storage.
//
// The Importer reads a JSON catalog document of the form
//
//	{
//	  "categories": [{"id": 1, "name": "Furniture", "parent_id": false}],
//	  "products":   [{"id": 7, "name": "Desk", "default_code": "FURN_0001",
//	                  "barcode": "", "description": "", "category_ids": [1],
//	                  "available": true}]
//	}
//
// Categories are written first in a single call. Products are then validated,
// split into batches and written concurrently by a worker pool. Batches that
// hit a transaction conflict are retried with exponential backoff; a batch
// holding a barcode already owned by another product falls back to per-product
// writes so only the offending products are skipped.
//
// Relational fields may be plain IDs or [id, "display name"] pairs, and false
// stands for an empty value, so exports from common ERP systems load as is.
package ingestion
