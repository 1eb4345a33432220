package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/specialistvlad/devicefarm/internal/credentials"
	"github.com/specialistvlad/devicefarm/internal/ctxlog"
	"github.com/specialistvlad/devicefarm/internal/executor"
	"github.com/specialistvlad/devicefarm/internal/fsutil"
	"github.com/specialistvlad/devicefarm/internal/recipe"
	"github.com/specialistvlad/devicefarm/internal/session"
	"github.com/specialistvlad/devicefarm/internal/testdroid"
)

// Run loads the recipe, connects to the farm and executes every task. It
// returns an error when the run could not start or was aborted; contained
// task failures are only logged.
func (a *App) Run(ctx context.Context) (err error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	a.startHealthcheckServer(a.config.HealthcheckPort)
	defer func() {
		err = errors.Join(err, a.closeHealthcheckServer(ctx))
	}()

	path := a.config.RecipePath
	if resolved, err := fsutil.ResolveSingle(path, a.loaders.Extensions()...); err == nil {
		path = resolved
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load recipe: %w", err)
	}

	raw, err := a.loaders.Load(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to load recipe: %w", err)
	}
	r, err := recipe.Load(raw)
	if err != nil {
		return fmt.Errorf("invalid recipe %s: %w", path, err)
	}
	a.logger.Info("Recipe loaded.", "path", path, "directive", r.Directive.Status, "tasks", len(r.Tasks))

	api, closeAPI, err := a.connect(ctx, r.Directive)
	if err != nil {
		return err
	}
	defer closeAPI()

	me, err := api.GetMe(ctx)
	if err != nil {
		return &credentials.Error{Source: "farm", Err: fmt.Errorf("account check failed: %w", err)}
	}
	a.logger.Info("Connected to device farm.", "user_id", me.ID, "email", me.Email)

	exec := executor.New(a.registry, api, executor.WithMetrics(a.metrics))
	a.logger.Info("🚀 Starting recipe execution...")
	report, err := exec.Run(ctx, r)
	if err != nil {
		return fmt.Errorf("execution aborted: %w", err)
	}
	a.logger.Info("🏁 Execution finished.",
		"tasks", len(report.Tasks),
		"failed", len(report.Failed()),
		"phase", report.State.Phase,
	)
	return nil
}

// connect returns the injected API or a client built from the merged
// credentials.
func (a *App) connect(ctx context.Context, d recipe.Directive) (session.API, func(), error) {
	if a.api != nil {
		return a.api, func() {}, nil
	}

	cfg, err := credentials.Load(credentials.Sources{
		LookupEnv: a.lookupEnv,
		File:      a.config.CredentialsPath,
		Overrides: d.Credentials,
	})
	if err != nil {
		return nil, nil, err
	}
	cfg.Timeout = a.config.RequestTimeout

	client, err := testdroid.New(ctx, cfg)
	if err != nil {
		return nil, nil, &credentials.Error{Source: "farm", Err: err}
	}
	return client, func() {
		if err := client.Close(); err != nil {
			a.logger.Debug("Closing farm client failed.", "error", err)
		}
	}, nil
}
