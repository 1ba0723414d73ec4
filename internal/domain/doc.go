// Package domain contains the core entities shared by the camera producers and
// the storage collector.
//
// This package has no dependencies on infrastructure concerns (sockets, file
// system, logging) and contains only the values that flow through the system.
//
// # Entities
//
//   - [Frame]: one image on the wire, addressed by peer name and sequence index
//   - [Item]: the record passed between producer pipeline stages
//   - [Metadata]: capture details attached to an item before encoding
//
// # Errors
//
// Every failure is classified by wrapping one of the sentinel errors in
// errors.go. None of them are recovered locally.
package domain
