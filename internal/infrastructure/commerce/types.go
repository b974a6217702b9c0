package commerce

import "github.com/mwc/backend/internal/domain/integration"

// productWriteRequest is the body of create and update calls
type productWriteRequest struct {
	*integration.RemoteProduct
	ChannelIDs *integration.ChannelIDs `json:"channelIds,omitempty"`
}

// productListResponse is the body of a list call
type productListResponse struct {
	Products      []*integration.RemoteProduct `json:"products"`
	NextPageToken string                       `json:"nextPageToken,omitempty"`
}

// errorResponse is the error body returned by the catalog API
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
