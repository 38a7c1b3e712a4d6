// Package emoji holds the picker's data collaborator: emoji records grouped
// into categories, the selection payload reported to hosts, dataset loading
// and recent-emoji stores.
//
// Everything here is plain value data. The picker treats records as
// read-only; loaders and stores own their mutation.
package emoji
