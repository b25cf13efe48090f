// Package registry holds the read-only catalogues the checker consults:
// the builtin method surface and the curated derive table. Registries are
// explicitly constructed and passed by reference into checking passes
// (never ambient globals), so tests can substitute fakes and concurrent
// per-file passes can share them safely once construction finishes.
package registry
