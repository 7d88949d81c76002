// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"time"

	"github.com/dalemusser/stratacourse/internal/app/resources"
	"github.com/dalemusser/stratacourse/internal/app/system/tasks"
	"github.com/dalemusser/stratacourse/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// storePingInterval is how often the background job checks the page store.
const storePingInterval = time.Minute

// Startup runs once after DB connections and schema setup are complete,
// but before the HTTP handler is built and requests are served.
//
// It applies the store deadlines and starts the background jobs that keep
// the resolver cache bounded and report store outages.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()

	timeouts.Configure(timeouts.Config{
		Ping:  appCfg.PingTimeout,
		Store: appCfg.StoreTimeout,
	})

	startTaskRunner(deps, logger)
	return nil
}

// taskRunner is the global task runner instance, used for graceful shutdown.
var taskRunner *tasks.Runner

// startTaskRunner initializes and starts the background task runner.
func startTaskRunner(deps DBDeps, logger *zap.Logger) {
	taskRunner = tasks.New(logger)

	// Sweep once per revalidation window.
	taskRunner.Register(tasks.CacheSweepJob(deps.Resolver, deps.Resolver.Window(), logger))
	taskRunner.Register(tasks.StorePingJob(deps.PageStoreName, deps.Pages, storePingInterval, logger))

	taskRunner.Start()
}
