package integration

import (
	"context"
	"errors"
	"time"
)

var ErrAssociationNotFound = errors.New("integration: product association not found")

// AssociationSourcePoynt marks associations recorded by the point-of-sale sync
const AssociationSourcePoynt = "poynt"

// ProductAssociation records that a remote product was previously synced with a
// local product by an independent channel. It is the trust signal used to
// reconcile SKU conflicts.
type ProductAssociation struct {
	RemoteID  string
	LocalID   int64
	Source    string
	CreatedAt time.Time
}

// ProductAssociationRepository persists historical associations
type ProductAssociationRepository interface {
	// FindByRemoteID returns ErrAssociationNotFound when none exists
	FindByRemoteID(ctx context.Context, source, remoteID string) (*ProductAssociation, error)
	Save(ctx context.Context, a *ProductAssociation) error
}

// ProductAssociationService resolves the local product previously associated
// with a remote product, if any.
type ProductAssociationService interface {
	FindLocalProductID(ctx context.Context, remote *RemoteProduct) (localID int64, found bool, err error)
}
