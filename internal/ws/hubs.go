package ws

import (
	"context"
	"time"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 64
)

// Hubs groups the realtime hubs the server runs.
type Hubs struct {
	Display *DisplayHub
}

func NewHubs() *Hubs {
	return &Hubs{Display: NewDisplayHub()}
}

// Run starts every hub and returns when ctx is done.
func (h *Hubs) Run(ctx context.Context) {
	h.Display.Run(ctx)
}
