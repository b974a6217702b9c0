package catalog

import "context"

// ProductReader reads products from the local catalog store.
// FindByID returns ErrProductNotFound when the product does not exist.
type ProductReader interface {
	FindByID(ctx context.Context, id int64) (*Product, error)
}

// ProductWriter stores local catalog products
type ProductWriter interface {
	// Save upserts the product keyed by its ID
	Save(ctx context.Context, p *Product) error
}

// ProductRepository combines read and write access to the local catalog
type ProductRepository interface {
	ProductReader
	ProductWriter
}
