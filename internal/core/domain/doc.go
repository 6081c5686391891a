// Package domain contains the core types of the knowledge-graph
// ingestion pipeline: documents and their hierarchical chunk tree,
// raw entity mentions and canonical entities, taxonomy tables and the
// configuration and report types shared by the services.
//
// Domain types carry no I/O. Adapters translate them to and from
// storage and transport representations.
package domain
