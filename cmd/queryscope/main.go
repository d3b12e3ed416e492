package main

import (
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalambet/queryscope/internal/config"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:     "queryscope",
	Short:   "Explainable similarity search over a SQL query log",
	Version: version,
	Long: `queryscope turns a corpus of analyst SQL queries into a structured
similarity space: it extracts features from query text, encodes the corpus
into a shared vector space, computes pairwise distances, and recommends
similar queries with human-readable justifications.`,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}

// initLogging installs the default slog handler at the configured level.
func initLogging(cfg config.Config) {
	level := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
