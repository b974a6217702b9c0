// Package catalog contains the local catalog model consumed by product synchronization.
//
// The catalog store itself is owned by the merchant's storefront; this package only
// describes the shape of a local product and the read port used to resolve parents.
package catalog
