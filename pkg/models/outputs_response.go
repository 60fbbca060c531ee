package models

// EndpointResponse carries the share's cluster-internal address
// @Description The DNS name and cluster IP of the NFS service backing a share
type EndpointResponse struct {
	Endpoint   string `json:"endpoint"`
	EndpointIP string `json:"endpoint_ip"`
}

// TokenResponse carries a single service's rendered token
// @Description A base64-encoded token granting one service access to the share
type TokenResponse struct {
	Service string `json:"service"`
	Token   string `json:"token"`
}

// NewTokenResponse creates a TokenResponse for a service and its rendered token.
func NewTokenResponse(service, rendered string) TokenResponse {
	return TokenResponse{
		Service: service,
		Token:   rendered,
	}
}
