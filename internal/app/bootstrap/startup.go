// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"github.com/leaguehub/leaguehub/internal/app/system/auth"
	"go.uber.org/zap"
)

// Startup runs one-time initialization after DB connections and schema setup
// are complete, but before the HTTP handler is built: the token verifier is
// keyed and the profile fan-out watcher starts tailing the users collection.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := auth.Init(appCfg.AuthSecret, logger); err != nil {
		return err
	}
	if deps.Watcher != nil {
		deps.Watcher.Start()
	}
	return nil
}
