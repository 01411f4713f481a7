// Package figshare is the gateway to the institutional repository service.
//
// Client issues authenticated requests and normalizes failures into the
// shared error taxonomy. The aggregation methods walk paginated and
// impersonated listings, merging per-account sub-queries into consolidated
// records with per-item failure isolation.
package figshare
