package web

import (
	"context"

	sports "sportx"
)

// PushUpdates forwards dashboard views and state changes to the hub until
// ctx is done. The dashboard callback is registered before it returns.
func PushUpdates(ctx context.Context, state *sports.StateStore, dashboard *sports.Dashboard, hub *Hub) {
	dashboard.OnUpdate(func(v sports.DashboardView) {
		hub.Broadcast(MessageTypeDashboard, v)
	})

	changes, unsubscribe := state.Subscribe()
	go func() {
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case c, ok := <-changes:
				if !ok {
					return
				}
				hub.Broadcast(MessageTypeSelection, c)
			}
		}
	}()
}
