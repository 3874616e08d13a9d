// Package openapi exposes the loader and parser contracts used to derive a
// filter form schema from the query parameters of an OpenAPI operation.
// Implementations live under internal/openapi to keep kin-openapi types out
// of the public API.
package openapi
