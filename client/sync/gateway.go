package sync

import (
	"context"
	"errors"

	turndown "github.com/turndownhq/turndown/sdk"
)

var (
	ErrControllerClosed = errors.New("sync controller is closed")
	ErrInvalidBinding   = errors.New("binding needs a 6 character property code and a date")
)

type sdkGateway struct {
	client *turndown.Client
}

// NewGateway wraps the API client as a subscription source.
func NewGateway(client *turndown.Client) Gateway {
	return &sdkGateway{client: client}
}

func (g *sdkGateway) SubscribeProperty(ctx context.Context, code string) (PropertyStream, error) {
	return g.client.Properties.Subscribe(ctx, code)
}

func (g *sdkGateway) SubscribeRooms(ctx context.Context, code, date string) (RoomsStream, error) {
	return g.client.Rooms.Subscribe(ctx, code, date)
}
