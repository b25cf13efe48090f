// Package sema implements semantic analysis for one module: scope and
// binding resolution, numeric typing and promotion, compile-time constant
// evaluation, record field/alias resolution and derive validation.
//
// A pass is created and driven through Check. Passes over different
// modules may run concurrently as long as each gets its own Result and the
// shared interner and registries are fully built first.
package sema
