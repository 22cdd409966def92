// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	accountstore "github.com/budgetbuddy/server/internal/app/store/accounts"
	joinrequeststore "github.com/budgetbuddy/server/internal/app/store/joinrequests"
	mailstore "github.com/budgetbuddy/server/internal/app/store/mail"
	memberstore "github.com/budgetbuddy/server/internal/app/store/members"
	tokenstore "github.com/budgetbuddy/server/internal/app/store/tokens"
	"github.com/budgetbuddy/server/internal/app/events"
	"github.com/budgetbuddy/server/internal/app/system/push"
	"github.com/budgetbuddy/server/internal/app/system/tasks"
	"github.com/budgetbuddy/server/internal/app/workflow/joinrequest"
	"github.com/budgetbuddy/server/internal/app/workflow/memberchange"
	"github.com/budgetbuddy/server/internal/app/workflow/notify"
	"github.com/budgetbuddy/server/internal/app/workflow/ownerresolve"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// serviceGraph holds the process-lifetime dependencies. Built once in
// Startup, read by BuildHandler, torn down in Shutdown. Never touched
// after startup completes.
type serviceGraph struct {
	tokens     *tokenstore.Store
	dispatcher *notify.Dispatcher

	watchCancel context.CancelFunc
}

var services serviceGraph

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// It assembles the workflow graph, starts the change-stream watcher,
// and kicks off maintenance jobs.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	accounts := accountstore.New(db)
	members := memberstore.New(db)
	requests := joinrequeststore.New(db)
	tokens := tokenstore.New(db)
	mail := mailstore.New(db)

	var sender push.Sender
	if appCfg.PushDryRun {
		logger.Warn("push dry-run mode: notifications are logged, not delivered")
		sender = &push.LogSender{Log: logger}
	} else {
		fcm, err := push.NewFCMSender(ctx, appCfg.FCMCredentialsFile)
		if err != nil {
			return err
		}
		sender = fcm
	}

	dispatcher := notify.New(tokens, sender, logger)
	resolver := ownerresolve.New(accounts, members, logger)
	requestHandler := joinrequest.NewHandler(accounts, requests, mail, resolver, dispatcher, logger)
	accountNotifier := memberchange.New(dispatcher, logger)

	services = serviceGraph{
		tokens:     tokens,
		dispatcher: dispatcher,
	}

	// Background work outlives the startup context; Shutdown cancels it.
	bgCtx, cancel := context.WithCancel(context.Background())
	services.watchCancel = cancel

	if appCfg.WatchEnabled {
		watcher := events.New(db, events.Handlers{
			JoinRequestCreated: requestHandler.HandleCreated,
			JoinRequestUpdated: requestHandler.HandleUpdated,
			AccountChanged:     accountNotifier.Handle,
		}, logger)
		go watcher.Run(bgCtx)
	} else {
		logger.Warn("change-stream watcher disabled; workflow handlers will not run")
	}

	tasks.Start(bgCtx, logger,
		tasks.DeadTokenPruneJob(tokens, logger, appCfg.DeadTokenGrace),
	)

	return nil
}
