package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/joho/godotenv"
	"github.com/prometheus/common/log"
	"google.golang.org/api/option"

	"minerdash/internal/config"
	"minerdash/internal/database/relational"
	"minerdash/internal/mcpserver"
	"minerdash/internal/output"
	"minerdash/internal/rag"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	// Missing .env is fine; the environment may already be set.
	if err := godotenv.Load("env/.env"); err != nil && !os.IsNotExist(err) {
		log.Warnln("Failed to read env/.env:", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loadCtx, cancel := context.WithTimeout(ctx, cfg.LoadTimeout)
	payload, err := output.RunPipeline(loadCtx, cfg.Source())
	cancel()
	if err != nil {
		log.Fatal(err)
	}
	log.Infof("Loaded snapshot %q: %d devices on %d PDUs", payload.View.Title, payload.View.Devices, len(payload.View.Sections))

	db, err := relational.NewDuckDBClient(cfg.DuckDBPath, cfg.DuckDBOptions()...)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	dbCfg := db.Config()
	log.Infof("Fleet store ready (threads=%d, memory_limit=%dGB)", dbCfg.Threads, dbCfg.MemoryLimitGB)

	store := relational.NewFleetRepo(db.DB())
	if err := store.Migrate(ctx); err != nil {
		log.Fatal(err)
	}
	if err := store.Load(ctx, payload.Entry); err != nil {
		log.Fatal(err)
	}

	var asker mcpserver.Asker
	if cfg.AskEnabled() {
		client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
		if err != nil {
			log.Fatal(err)
		}
		defer client.Close()

		engine := rag.NewEngine(rag.NewGeminiGenerator(client), store, payload, cfg.GeminiModel)
		asker = timeoutAsker{engine: engine, timeout: cfg.AskTimeout}
		log.Infoln("Gemini enabled, model", engine.Model())
	} else {
		log.Infoln("GEMINI_API_KEY not set; ask_minerdash disabled")
	}

	server := mcpserver.NewServer(mcpserver.Config{
		ServerName:    cfg.ServerName,
		ServerVersion: cfg.ServerVersion,
	}, payload, store, asker)

	if err := server.Start(ctx); err != nil && ctx.Err() == nil {
		log.Fatal(err)
	}
}

// timeoutAsker bounds every question by the configured ask timeout.
type timeoutAsker struct {
	engine  *rag.Engine
	timeout time.Duration
}

func (a timeoutAsker) Query(ctx context.Context, question string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return a.engine.Query(ctx, question)
}
