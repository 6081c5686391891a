// Package driven defines the interfaces the core services depend on:
// tokenization, persistence and source parsing. Adapters implement
// these interfaces; services accept them and return domain structs.
package driven
