package cmd

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bnema/pairline/internal/adapters/behavior/relay"
	configtoml "github.com/bnema/pairline/internal/adapters/config/toml"
	"github.com/bnema/pairline/internal/adapters/metrics/prom"
	statusadapter "github.com/bnema/pairline/internal/adapters/render/status"
	"github.com/bnema/pairline/internal/adapters/transport/ws"
	"github.com/bnema/pairline/internal/application"
	"github.com/bnema/pairline/internal/logging"
	"github.com/bnema/pairline/internal/ports"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type app struct {
	configPath     string
	statusRenderer func(application.Stats, statusadapter.RenderOptions) (string, error)
	httpClient     *http.Client
	now            func() time.Time
}

func wireApp() *app {
	return &app{
		statusRenderer: statusadapter.Render,
		httpClient:     &http.Client{Timeout: 10 * time.Second},
		now:            time.Now,
	}
}

func (a *app) newLoader() (*configtoml.Loader, error) {
	loader, err := configtoml.NewLoader(viper.New(), a.configPath)
	if err != nil {
		return nil, fmt.Errorf("wire config loader: %w", err)
	}
	return loader, nil
}

func (a *app) loadConfig() (configtoml.Config, error) {
	loader, err := a.newLoader()
	if err != nil {
		return configtoml.Config{}, err
	}
	cfg, err := loader.Load()
	if err != nil {
		return configtoml.Config{}, fmt.Errorf("load config from %s: %w", loader.Path(), err)
	}
	return cfg, nil
}

type server struct {
	cfg        configtoml.Config
	log        *zap.Logger
	metrics    *prom.Recorder
	matchmaker *application.Matchmaker
	sweeper    *application.Sweeper
	transport  *ws.Server
}

func wireServer(cfg configtoml.Config, logOutput io.Writer) (*server, error) {
	log, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: logOutput,
	})
	if err != nil {
		return nil, fmt.Errorf("wire logger: %w", err)
	}

	clock := ports.SystemClock()
	metrics := prom.NewRecorder()
	matchmaker := application.NewMatchmaker(application.Options{
		Clock:         clock,
		Metrics:       metrics,
		Behavior:      relay.New(log),
		Logger:        log,
		MaxNameLength: cfg.Matchmaking.MaxNameLength,
	})

	transport := ws.NewServer(matchmaker, ws.Options{
		MaxMessageBytes: cfg.Transport.MaxMessageBytes,
		SendBuffer:      cfg.Transport.SendBuffer,
		Metrics:         metrics.Handler(),
		Logger:          log,
		Drain:           matchmaker.Shutdown,
	})

	return &server{
		cfg:        cfg,
		log:        log,
		metrics:    metrics,
		matchmaker: matchmaker,
		sweeper:    application.NewSweeper(matchmaker, clock, cfg.Matchmaking.SweepInterval, log),
		transport:  transport,
	}, nil
}
