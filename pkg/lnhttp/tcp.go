package lnhttp

import (
	"context"
	"net"
)

// TCPProvider is the default ListenerProvider. It creates plain TCP
// listeners with net.ListenConfig so listener creation honors the
// caller's context.
type TCPProvider struct{}

// Listen creates a TCP listener for the given network and address.
func (p *TCPProvider) Listen(ctx context.Context, network, address string) (net.Listener, error) {
	var lc net.ListenConfig
	return lc.Listen(ctx, network, address)
}
