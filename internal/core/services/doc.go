// Package services implements the ingestion core: hierarchical
// chunking, entity name normalization, taxonomy classification and
// entity canonicalization. Services contain the business logic and
// reach I/O only through the driven ports.
//
// Nothing in this package performs network or disk I/O directly;
// cancellation is cooperative via context.
package services
