package app

import (
	"context"
	"net/http"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/lumonpay/lumonpay/internal/platform/httpx"
	"github.com/lumonpay/lumonpay/internal/shared"
)

const maintenanceKey = "lumonpay:maintenance"

// MaintenanceSwitch is the process-wide maintenance mode gate. State
// lives in Redis so every instance and the worker observe the same
// flag; it is injected rather than global so tests control it per run.
// No persistence guarantee beyond Redis itself is made.
type MaintenanceSwitch struct {
	client *redis.Client
}

// NewMaintenanceSwitch builds the switch.
func NewMaintenanceSwitch(client *redis.Client) *MaintenanceSwitch {
	return &MaintenanceSwitch{client: client}
}

// Enabled reports whether maintenance mode is on. Lookup failures read
// as off so a Redis outage cannot lock operators out.
func (m *MaintenanceSwitch) Enabled(ctx context.Context) bool {
	if m == nil || m.client == nil {
		return false
	}
	val, err := m.client.Get(ctx, maintenanceKey).Result()
	if err != nil {
		return false
	}
	return val == "1"
}

// Set flips maintenance mode.
func (m *MaintenanceSwitch) Set(ctx context.Context, enabled bool) error {
	if enabled {
		return m.client.Set(ctx, maintenanceKey, "1", 0).Err()
	}
	return m.client.Del(ctx, maintenanceKey).Err()
}

// Middleware refuses mutating requests while maintenance mode is on.
func (m *MaintenanceSwitch) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}
		// The switch itself must stay reachable or maintenance mode
		// could never be turned off.
		if strings.HasPrefix(r.URL.Path, "/admin/maintenance") {
			next.ServeHTTP(w, r)
			return
		}
		if m.Enabled(r.Context()) {
			httpx.RespondError(w, shared.ErrMaintenance)
			return
		}
		next.ServeHTTP(w, r)
	})
}
