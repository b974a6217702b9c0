// Package integration contains the Integration bounded context.
// This context keeps the local catalog in sync with the remote commerce platform.
//
// Key concepts:
//   - RemoteProduct: wire-format product exchanged with the commerce platform
//   - ProductMap: Entity mapping a local numeric product ID to a remote product UUID
//   - CatalogProvider: Port for the remote catalog API (create/read/update/list)
//   - ProductsCache: Port memoizing remote reads by remote ID
//   - ProductAssociationService: Port exposing the historical point-of-sale association
//     used as a trust signal when a create conflicts on SKU
//
// Design Pattern: Ports & Adapters
//   - Ports (interfaces) are defined here in the domain layer
//   - Adapters (implementations) are in the infrastructure layer
package integration
