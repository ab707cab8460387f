// Command modcraftd runs the run engine: it wires the Spec Store, Compiler,
// Planner, Executor, and Run controller behind a minimal HTTP surface that
// triggers runs and streams their events over SSE.
//
// # Configuration
//
// modcraftd reads a TOML file (see internal/config) with environment
// variable overrides. See config.Load for the config file search order.
//
// # Example
//
//	MODCRAFT_ORCHESTRATOR_API_KEY=sk-... ./modcraftd --addr :8080
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/redis/go-redis/v9"
	mongodriver "go.mongodb.org/mongo-driver/v2/mongo"
	mongooptions "go.mongodb.org/mongo-driver/v2/mongo/options"

	"modcraft/internal/builder"
	"modcraft/internal/compiler"
	"modcraft/internal/config"
	"modcraft/internal/eventbus/redisbus"
	"modcraft/internal/executor"
	"modcraft/internal/orchestrator/anthropic"
	"modcraft/internal/planner"
	"modcraft/internal/runengine"
	runenginememory "modcraft/internal/runengine/memory"
	"modcraft/internal/specstore/mongostore"
	"modcraft/internal/telemetry"
	"modcraft/internal/texturegen"
	"modcraft/internal/texturegen/bedrock"
	"modcraft/internal/texturegen/ratelimit"
	"modcraft/internal/tools"
	"modcraft/internal/workspace"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to modcraft.toml")
	addr := flag.String("addr", ":8080", "HTTP listen address")
	dataDir := flag.String("data-dir", "./data", "root directory for the workspace/run layout")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := telemetry.NewClueLogger()

	mongoClient, err := mongodriver.Connect(mongooptions.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return fmt.Errorf("connect mongo: %w", err)
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			log.Printf("disconnect mongo: %v", err)
		}
	}()
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		return fmt.Errorf("ping mongo: %w", err)
	}

	specs, err := mongostore.New(mongostore.Options{Client: mongoClient, Database: cfg.Mongo.Database})
	if err != nil {
		return fmt.Errorf("create spec store: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	defer func() {
		if err := rdb.Close(); err != nil {
			log.Printf("close redis: %v", err)
		}
	}()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	bus := redisbus.New(rdb, redisbus.WithRetention(cfg.EventBus.RetentionGracePeriod))

	orchClient, err := newOrchestratorClient(cfg)
	if err != nil {
		return fmt.Errorf("create orchestrator client: %w", err)
	}

	textureClient, err := newTextureClient(ctx, cfg)
	if err != nil {
		return fmt.Errorf("create texture generator client: %w", err)
	}

	b, err := builder.New(builder.Options{Command: cfg.Builder.Command, Args: cfg.Builder.Args, Timeout: cfg.Executor.BuildTimeout})
	if err != nil {
		return fmt.Errorf("create builder: %w", err)
	}

	layout := workspace.NewLayout(*dataDir)
	registry := tools.NewRegistry(layout, textureClient, b)
	exec := executor.New(registry, bus,
		executor.WithFanOut(cfg.Executor.FanOut),
		executor.WithTimeout(planner.KindGenerateTexture, cfg.Executor.TextureTimeout),
		executor.WithTimeout(planner.KindBuild, cfg.Executor.BuildTimeout),
	)

	ctrl := runengine.New(runengine.Options{
		Runs:         runenginememory.New(),
		Specs:        specs,
		Orchestrator: orchClient,
		Bus:          bus,
		Executor:     exec,
		Layout:       layout,
		Compat:       compiler.DefaultCompatibilityConfig(),
	})

	mux := newServer(ctrl, bus)
	srv := &http.Server{Addr: *addr, Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "modcraftd listening", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	return srv.Shutdown(shutdownCtx)
}

func newOrchestratorClient(cfg *config.Config) (*anthropic.Client, error) {
	ac := sdk.NewClient(option.WithAPIKey(cfg.Orchestrator.APIKey))
	return anthropic.New(&ac.Messages, anthropic.Options{Model: cfg.Orchestrator.Model})
}

func newTextureClient(ctx context.Context, cfg *config.Config) (texturegen.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.TextureGen.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	runtime := bedrockruntime.NewFromConfig(awsCfg)
	client, err := bedrock.New(bedrock.Options{Runtime: runtime, ModelID: cfg.TextureGen.ModelID})
	if err != nil {
		return nil, err
	}
	return ratelimit.Wrap(client, cfg.TextureGen.RequestsPerSec, 2), nil
}
