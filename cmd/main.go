package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/w-h-a/supportdesk"
	"github.com/w-h-a/supportdesk/embedder"
	"github.com/w-h-a/supportdesk/embedder/cohere"
	googleembedder "github.com/w-h-a/supportdesk/embedder/google"
	"github.com/w-h-a/supportdesk/embedder/hashing"
	openaiembedder "github.com/w-h-a/supportdesk/embedder/openai"
	"github.com/w-h-a/supportdesk/generator"
	"github.com/w-h-a/supportdesk/generator/anthropic"
	googlegenerator "github.com/w-h-a/supportdesk/generator/google"
	openaigenerator "github.com/w-h-a/supportdesk/generator/openai"
	"github.com/w-h-a/supportdesk/server"
	httpserver "github.com/w-h-a/supportdesk/server/http"
	"github.com/w-h-a/supportdesk/storer"
	"github.com/w-h-a/supportdesk/storer/memory"
	"github.com/w-h-a/supportdesk/storer/postgres"
	"github.com/w-h-a/supportdesk/storer/qdrant"
)

var (
	cfg struct {
		// Server config
		Address string `help:"Address the HTTP server listens on" default:":8000" env:"ADDRESS"`
		Debug   bool   `help:"Enable debug logging" default:"false" env:"DEBUG"`

		// Generator config
		Generator      string `help:"Generator provider (google, openai, anthropic)" default:"google" enum:"google,openai,anthropic" env:"GENERATOR"`
		GeneratorModel string `help:"Model identifier for the generator" default:"" env:"GENERATOR_MODEL"`
		GeminiKey      string `help:"API key for Gemini" default:"" env:"GEMINI_API_KEY"`
		OpenAIKey      string `help:"API key for OpenAI" default:"" env:"OPENAI_API_KEY"`
		AnthropicKey   string `help:"API key for Anthropic" default:"" env:"ANTHROPIC_API_KEY"`

		// Embedder config
		Embedder       string `help:"Embedder provider (cohere, openai, google, hashing)" default:"cohere" enum:"cohere,openai,google,hashing" env:"EMBEDDER"`
		EmbedderModel  string `help:"Model identifier for the embedder" default:"" env:"EMBEDDER_MODEL"`
		CohereKey      string `help:"API key for Cohere" default:"" env:"COHERE_API_KEY"`
		Dimension      int    `help:"Embedding dimension shared by embedder and store" default:"1024" env:"EMBEDDING_DIMENSION"`
		EmbedBatchSize int    `help:"Texts per embedding call" default:"96" env:"EMBED_BATCH_SIZE"`

		// Storer config
		Storer         string `help:"Vector store provider (memory, postgres, qdrant)" default:"memory" enum:"memory,postgres,qdrant" env:"STORER"`
		StoreLocation  string `help:"Address of the vector store" default:"" env:"STORE_LOCATION"`
		StoreApiKey    string `help:"API key for the vector store" default:"" env:"STORE_API_KEY"`
		Collection     string `help:"Table or collection holding embeddings" default:"embeddings" env:"STORE_COLLECTION"`
		MaxSearchLimit int    `help:"Upper bound on search results" default:"20" env:"MAX_SEARCH_LIMIT"`

		// Ingestion config
		ChunkSize       int           `help:"Maximum characters per chunk" default:"1000" env:"CHUNK_SIZE"`
		ChunkOverlap    int           `help:"Characters shared by adjacent chunks" default:"200" env:"CHUNK_OVERLAP"`
		DownloadTimeout time.Duration `help:"Timeout for downloading a file" default:"60s" env:"DOWNLOAD_TIMEOUT"`
		MaxFileBytes    int64         `help:"Largest file accepted for ingestion" default:"52428800" env:"MAX_FILE_BYTES"`

		// Agent config
		MaxToolCalls int           `help:"Tool calls allowed per chat request" default:"10" env:"MAX_TOOL_CALLS"`
		ToolTimeout  time.Duration `help:"Timeout for each Slack or Stripe call" default:"20s" env:"TOOL_TIMEOUT"`
	}
)

func main() {
	// Load .env before parsing so env tags see it
	_ = godotenv.Load()

	_ = kong.Parse(&cfg)

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	// Create embedder
	em := newEmbedder()

	// Create vector store
	st := newStorer()

	// Create generator
	gen := newGenerator()

	// Create gateway
	gw := supportdesk.New(
		em,
		st,
		gen,
		supportdesk.WithChunkSize(cfg.ChunkSize),
		supportdesk.WithChunkOverlap(cfg.ChunkOverlap),
		supportdesk.WithMaxToolCalls(cfg.MaxToolCalls),
		supportdesk.WithToolTimeout(cfg.ToolTimeout),
		supportdesk.WithDownloadTimeout(cfg.DownloadTimeout),
		supportdesk.WithMaxFileBytes(cfg.MaxFileBytes),
	)
	defer gw.Close()

	// Create server
	srv := httpserver.NewServer(
		server.WithAddress(cfg.Address),
	)

	if err := srv.Handle(gw.Handler()); err != nil {
		slog.Error("failed to register handler", "error", err)
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		slog.Error("failed to start server", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	slog.Info("shutting down")

	if err := srv.Stop(); err != nil {
		slog.Error("failed to stop server", "error", err)
	}
}

func newEmbedder() embedder.Embedder {
	opts := []embedder.Option{
		embedder.WithModel(cfg.EmbedderModel),
		embedder.WithDimension(cfg.Dimension),
		embedder.WithBatchSize(cfg.EmbedBatchSize),
	}

	switch cfg.Embedder {
	case "openai":
		return openaiembedder.NewEmbedder(append(opts, embedder.WithApiKey(cfg.OpenAIKey))...)
	case "google":
		return googleembedder.NewEmbedder(append(opts, embedder.WithApiKey(cfg.GeminiKey))...)
	case "hashing":
		return hashing.NewEmbedder(opts...)
	default:
		return cohere.NewEmbedder(append(opts, embedder.WithApiKey(cfg.CohereKey))...)
	}
}

func newStorer() storer.Storer {
	opts := []storer.Option{
		storer.WithLocation(cfg.StoreLocation),
		storer.WithApiKey(cfg.StoreApiKey),
		storer.WithCollection(cfg.Collection),
		storer.WithDimension(cfg.Dimension),
		storer.WithMaxLimit(cfg.MaxSearchLimit),
	}

	switch cfg.Storer {
	case "postgres":
		return postgres.NewStorer(opts...)
	case "qdrant":
		return qdrant.NewStorer(opts...)
	default:
		return memory.NewStorer(opts...)
	}
}

func newGenerator() generator.Generator {
	opts := []generator.Option{
		generator.WithModel(cfg.GeneratorModel),
	}

	switch cfg.Generator {
	case "openai":
		return openaigenerator.NewGenerator(append(opts, generator.WithApiKey(cfg.OpenAIKey))...)
	case "anthropic":
		return anthropic.NewGenerator(append(opts, generator.WithApiKey(cfg.AnthropicKey))...)
	default:
		return googlegenerator.NewGenerator(append(opts, generator.WithApiKey(cfg.GeminiKey))...)
	}
}
