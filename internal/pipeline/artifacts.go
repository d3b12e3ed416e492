package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kalambet/queryscope/internal/distance"
	"github.com/kalambet/queryscope/internal/vectorize"
)

func (r *Runner) queriesPath(name string) string {
	return filepath.Join(r.opts.OutputDir, "queries", name)
}

func (r *Runner) outputPath(name string) string {
	return filepath.Join(r.opts.OutputDir, name)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// LoadParsedArtifact reads a previously written vectorization artifact.
func LoadParsedArtifact(outputDir string) (vectorize.Artifact, error) {
	var a vectorize.Artifact
	err := readJSON(filepath.Join(outputDir, "queries", "parsed_features.json"), &a)
	return a, err
}

// LoadDistanceArtifact reads a previously written distance artifact.
func LoadDistanceArtifact(outputDir string) (distance.Artifact, error) {
	var a distance.Artifact
	err := readJSON(filepath.Join(outputDir, "topological_features.json"), &a)
	return a, err
}
