package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bnema/steamrec/internal/adapters/refdata"
	recrender "github.com/bnema/steamrec/internal/adapters/render/recommendations"
	"github.com/bnema/steamrec/internal/adapters/repo/jsonfile"
	tomlrepo "github.com/bnema/steamrec/internal/adapters/repo/toml"
	chainstore "github.com/bnema/steamrec/internal/adapters/secrets/chain"
	passstore "github.com/bnema/steamrec/internal/adapters/secrets/pass"
	"github.com/bnema/steamrec/internal/adapters/steam"
	"github.com/bnema/steamrec/internal/application"
	"github.com/bnema/steamrec/internal/config"
	"github.com/bnema/steamrec/internal/domain"
	"github.com/bnema/steamrec/internal/logging"
	"github.com/bnema/steamrec/internal/ports"
	"github.com/spf13/cobra"
)

type app struct {
	cfg         config.Config
	deps        application.ServiceDeps
	service     *application.Service
	credentials *application.CredentialService
	renderer    func(recrender.Input, recrender.RenderOptions) (string, error)
	clock       ports.Clock
}

// wireApp resolves settings from the flags of cmd and builds everything that
// does not need the Steam API key.
func wireApp(cmd *cobra.Command) (*app, error) {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(config.Options{ConfigFile: configFile, Flags: cmd.Flags()})
	if err != nil {
		return nil, err
	}

	logCfg := cfg.Logging()
	logCfg.Output = cmd.ErrOrStderr()
	if err := logging.Init(logCfg); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}

	history, err := tomlrepo.NewRepository(cfg.Viper())
	if err != nil {
		return nil, fmt.Errorf("wire history repository: %w", err)
	}

	snapshots, err := jsonfile.NewSnapshotStore(cfg.SnapshotPath)
	if err != nil {
		return nil, fmt.Errorf("wire snapshot store: %w", err)
	}

	secretStore, err := chainstore.NewPassFirstWithFileFallback(cfg.SecretsDir, passstore.WithBinary(cfg.PassBinary))
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	clock := ports.SystemClock{}
	deps := application.ServiceDeps{
		Snapshots: snapshots,
		Reference: refdata.NewDataset(cfg.ReferencePath),
		History:   history,
		Fetcher:   application.NewFetcher(cfg.FetchPolicy(), clock),
		Clock:     clock,
	}

	return &app{
		cfg:         cfg,
		deps:        deps,
		service:     application.NewService(deps),
		credentials: application.NewCredentialService(secretStore),
		renderer:    recrender.Render,
		clock:       clock,
	}, nil
}

// recommendService adds the Steam client and the collector. The observer
// receives collector state changes for progress display.
func (a *app) recommendService(ctx context.Context, observer func(application.CollectState, int)) (*application.Service, error) {
	apiKey, err := a.apiKey(ctx)
	if err != nil {
		return nil, err
	}

	client, err := steam.NewClient(steam.Config{
		BaseURL:           a.cfg.BaseURL,
		APIKey:            apiKey,
		HTTPClient:        &http.Client{Timeout: a.cfg.RequestTimeout},
		RequestTimeout:    a.cfg.RequestTimeout,
		RequestsPerSecond: a.cfg.RequestsPerSecond,
	})
	if err != nil {
		return nil, fmt.Errorf("wire steam client: %w", err)
	}

	deps := a.deps
	deps.Source = client
	deps.Collector = application.NewCollector(client, deps.Snapshots, deps.Fetcher, a.clock, a.cfg.CollectorConfig())
	if observer != nil {
		deps.Collector = deps.Collector.WithObserver(observer)
	}

	return application.NewService(deps), nil
}

// apiKey prefers the configured key and falls back to the secret store.
func (a *app) apiKey(ctx context.Context) (string, error) {
	if a.cfg.APIKey != "" {
		return a.cfg.APIKey, nil
	}

	key, err := a.credentials.APIKey(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSecretNotFound) {
			return "", fmt.Errorf("%w: steam api key is required (set STEAM_API_KEY or run `steamrec auth set --api-key`)", domain.ErrConfiguration)
		}
		return "", err
	}
	if key == "" {
		return "", fmt.Errorf("%w: stored steam api key is empty", domain.ErrConfiguration)
	}

	return key, nil
}
