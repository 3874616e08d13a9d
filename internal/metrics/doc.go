// Package metrics declares the Prometheus collectors shared by the codec,
// the data store and the HTTP server. Collectors register with the default
// registry on import.
package metrics
