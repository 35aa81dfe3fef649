package session

import (
	"context"
	"time"
)

// StartWatcher periodically verifies the session against the backend while
// it is authenticated. When the bearer token carries an exp claim, the
// refetch is deferred until the token is within two check intervals of
// expiring; tokens without a readable expiry are verified every tick.
// A failed verification tears the session down through Refetch.
func (m *Manager) StartWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !m.Authenticated() {
				continue
			}
			if exp, ok := m.TokenExpiry(); ok && time.Until(exp) > 2*interval {
				continue
			}
			tctx, cancel := context.WithTimeout(ctx, 10*time.Second)
			_ = m.Refetch(tctx)
			cancel()
		case <-ctx.Done():
			return
		}
	}
}
