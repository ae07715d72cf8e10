package transport

import (
	"context"

	"github.com/touka-aoi/low-level-reactor/server/peer"
)

// Transport observes the lifecycle of a session. All methods run on the
// reactor goroutine and must not block.
type Transport interface {
	// OnConnect may reject a freshly accepted peer by returning an error.
	OnConnect(ctx context.Context, peer *peer.Peer) error
	// OnData returns bytes to queue after the pipeline response.
	OnData(ctx context.Context, peer *peer.Peer, data []byte) ([]byte, error)
	OnDisconnect(ctx context.Context, peer *peer.Peer) error
}
