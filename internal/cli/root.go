// Package cli implements the life-orbit CLI commands.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/CyberDoctor2023/Life-Orbit/internal/classify"
	"github.com/CyberDoctor2023/Life-Orbit/internal/config"
	"github.com/CyberDoctor2023/Life-Orbit/internal/embedding"
	"github.com/CyberDoctor2023/Life-Orbit/internal/model"
	"github.com/CyberDoctor2023/Life-Orbit/internal/store"
)

var (
	dbPath  string
	verbose bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "life-orbit",
	Short: "Retrieval-augmented thought organizer",
	Long:  "Classify free-text thoughts into SURVIVAL/GROWTH/VISION orbits using retrieval-augmented classification. SQLite-backed, single binary.",
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $LIFEORBIT_DB_PATH or ~/.life-orbit/orbit.db)")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Mirror store events to stderr")
}

func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		exitErr("load config", err)
	}
	if dbPath != "" {
		cfg.DBPath = dbPath
	}
	return cfg
}

func openStore(cfg *config.Config) *store.SQLiteStore {
	s, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		exitErr("open store", err)
	}
	if verbose {
		s.Subscribe(func(e store.Event) {
			fmt.Fprintf(os.Stderr, "[%s] %s %s %s\n", e.Time.Format("15:04:05"), e.Op, e.ThoughtID, e.Detail)
		})
	}
	return s
}

func newGateway(cfg *config.Config) *embedding.Gateway {
	var embedder embedding.Embedder
	e := cfg.Embedding
	switch e.Provider {
	case "gemini":
		embedder = embedding.NewGeminiEmbedder(e.APIKey, e.Model, e.Dims)
	case "ollama":
		embedder = embedding.NewOllamaEmbedder(e.BaseURL, e.Model, e.Dims)
	case "openai":
		embedder = embedding.NewOpenAIEmbedder(e.BaseURL, e.APIKey, e.Model, e.Dims)
	default:
		// embeddings disabled: every text gets the zero vector
	}
	return embedding.NewGateway(embedder, e.Dims, logger())
}

func newClassifier(cfg *config.Config) classify.Classifier {
	c := cfg.Classifier
	switch c.Provider {
	case "gemini":
		return classify.NewGeminiClassifier(c.APIKey, c.Model)
	case "anthropic":
		return classify.NewAnthropicClassifier(c.APIKey, c.Model)
	case "openai":
		return classify.NewOpenAIClassifier(c.BaseURL, c.APIKey, c.Model)
	}
	return nil // classification disabled: pipeline takes the fallback branch
}

func logger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func findThought(cmd *cobra.Command, s *store.SQLiteStore, id string) (*model.Thought, error) {
	thoughts, err := s.GetAll(cmd.Context())
	if err != nil {
		return nil, err
	}
	for i := range thoughts {
		if thoughts[i].ID == id {
			return &thoughts[i], nil
		}
	}
	return nil, fmt.Errorf("thought not found: %s", id)
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
