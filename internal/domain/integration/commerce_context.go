package integration

// CommerceContext identifies the store and default sales channel of the site.
// It is passed explicitly to every gateway call.
type CommerceContext struct {
	StoreID   string
	ChannelID string
}

// Validate checks that the context can address the remote store
func (c CommerceContext) Validate() error {
	if c.StoreID == "" {
		return ErrInvalidContext
	}
	return nil
}

// DefaultChannelIDs returns the channel association for newly created products
func (c CommerceContext) DefaultChannelIDs() *ChannelIDs {
	if c.ChannelID == "" {
		return nil
	}
	return &ChannelIDs{Add: []string{c.ChannelID}}
}
