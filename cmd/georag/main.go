package main

import (
	"flag"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hauke96/sigolo/v2"
	"github.com/joho/godotenv"

	"georag/internal/config"
	"georag/internal/embedding"
	"georag/internal/embedding/openai"
	"georag/internal/embedding/tfidf"
	"georag/internal/geo"
	"georag/internal/images"
	"georag/internal/llm"
	"georag/internal/service"
	"georag/internal/tui"
	"georag/internal/vectorstore"
	"georag/internal/vectorstore/memory"
	"georag/internal/vectorstore/qdrant"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, dataPath, imagesDir string
	flag.StringVar(&cfgPath, "config", "config.yaml", "Path to YAML config file")
	flag.StringVar(&dataPath, "data", "", "GeoJSON feature collection (overrides config)")
	flag.StringVar(&imagesDir, "images", "", "Satellite image directory (overrides config)")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	sigolo.FatalCheck(err)
	if dataPath != "" {
		cfg.Data.GeoJSONPath = dataPath
	}
	if imagesDir != "" {
		cfg.Data.ImagesDir = imagesDir
	}

	store, err := geo.Load(cfg.Data.GeoJSONPath)
	sigolo.FatalCheck(err)

	var embedder embedding.Embedder
	switch cfg.Embedder.Type {
	case "tfidf", "":
		embedder = tfidf.NewEmbedder()
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			sigolo.Fatalf("openai embedder config missing")
		}
		client, err := openai.NewClient(openai.Config{
			BaseURL:   cfg.Embedder.OpenAI.BaseURL,
			APIKeyEnv: cfg.Embedder.OpenAI.APIKeyEnv,
			Model:     cfg.Embedder.OpenAI.Model,
			Timeout:   time.Duration(cfg.Embedder.OpenAI.TimeoutSecs) * time.Second,
		})
		sigolo.FatalCheck(err)
		embedder = client
	default:
		sigolo.Fatalf("unknown embedder: %s", cfg.Embedder.Type)
	}

	var index vectorstore.Storage
	switch cfg.VectorStore.Type {
	case "memory", "":
		index = memory.NewStorage()
	case "qdrant":
		if cfg.VectorStore.Qdrant == nil {
			sigolo.Fatalf("qdrant config missing")
		}
		index = qdrant.NewStorage(qdrant.Config{
			URL:        cfg.VectorStore.Qdrant.URL,
			APIKey:     cfg.VectorStore.Qdrant.APIKey,
			Collection: cfg.VectorStore.Qdrant.Collection,
			Timeout:    time.Duration(cfg.VectorStore.Qdrant.TimeoutSecs) * time.Second,
		})
	default:
		sigolo.Fatalf("unknown vector store: %s", cfg.VectorStore.Type)
	}

	generator := llm.NewClient(llm.Config{
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
		APIKeyEnv:   cfg.LLM.APIKeyEnv,
		Timeout:     time.Duration(cfg.LLM.TimeoutSecs) * time.Second,
	})

	retriever := service.NewGeoRetriever(store, embedder, index, generator)
	sigolo.FatalCheck(retriever.BuildIndex())

	m := tui.New(retriever, images.NewAnalyzer(), cfg.Data.ImagesDir)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		sigolo.Errorf("TUI exited with error: %v", err)
		os.Exit(1)
	}
}
