// ABOUTME: Export functionality for trained model data
// ABOUTME: Supports YAML and Markdown export formats
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/malbsmeyer/equivocal/internal/models"
)

// ExportReport represents the complete exportable view of a model
type ExportReport struct {
	Version    string            `yaml:"version" json:"version"`
	ExportedAt string            `yaml:"exported_at" json:"exported_at"`
	Tool       string            `yaml:"tool" json:"tool"`
	SampleRate int               `yaml:"sample_rate" json:"sample_rate"`
	Categories []ExportPrototype `yaml:"categories,omitempty" json:"categories,omitempty"`
}

// ExportPrototype represents one trained category for export
type ExportPrototype struct {
	Category    string             `yaml:"category" json:"category"`
	SampleCount int                `yaml:"sample_count" json:"sample_count"`
	TrainedAt   string             `yaml:"trained_at" json:"trained_at"`
	Features    map[string]float64 `yaml:"features,omitempty" json:"features,omitempty"`
	Timbre      []float64          `yaml:"timbre,omitempty" json:"timbre,omitempty"`
	Onset       *ExportOnset       `yaml:"onset,omitempty" json:"onset,omitempty"`
	Pitch       *ExportPitch       `yaml:"pitch,omitempty" json:"pitch,omitempty"`
}

// ExportOnset represents the rhythm record for export
type ExportOnset struct {
	MeanIOI     float64 `yaml:"mean_ioi" json:"mean_ioi"`
	IOIVariance float64 `yaml:"ioi_variance" json:"ioi_variance"`
	NumOnsets   float64 `yaml:"num_onsets" json:"num_onsets"`
}

// ExportPitch represents the pitch record for export
type ExportPitch struct {
	MeanPitch     float64 `yaml:"mean_pitch" json:"mean_pitch"`
	PitchRange    float64 `yaml:"pitch_range" json:"pitch_range"`
	PitchVariance float64 `yaml:"pitch_variance" json:"pitch_variance"`
}

// Export snapshots the store into its exportable shape
func (s *ModelStore) Export() *ExportReport {
	report := &ExportReport{
		Version:    "1.0",
		ExportedAt: time.Now().Format(time.RFC3339),
		Tool:       "equivocal",
		SampleRate: s.SampleRate(),
	}

	for _, category := range s.Categories() {
		p, err := s.Get(category)
		if err != nil {
			continue
		}
		report.Categories = append(report.Categories, exportPrototype(p))
	}

	return report
}

func exportPrototype(p *models.Prototype) ExportPrototype {
	out := ExportPrototype{
		Category:    p.Category,
		SampleCount: p.SampleCount,
		TrainedAt:   p.TrainedAt.Format(time.RFC3339),
	}

	fv := p.Features
	for _, key := range models.ScalarKeys() {
		if v, ok := fv.Scalar(key); ok {
			if out.Features == nil {
				out.Features = make(map[string]float64)
			}
			out.Features[string(key)] = v
		}
	}
	if len(fv.TimbreVector) > 0 {
		out.Timbre = append([]float64(nil), fv.TimbreVector...)
	}
	if fv.OnsetPattern != nil {
		out.Onset = &ExportOnset{
			MeanIOI:     fv.OnsetPattern.MeanIOI,
			IOIVariance: fv.OnsetPattern.IOIVariance,
			NumOnsets:   fv.OnsetPattern.NumOnsets,
		}
	}
	if fv.PitchProfile != nil {
		out.Pitch = &ExportPitch{
			MeanPitch:     fv.PitchProfile.MeanPitch,
			PitchRange:    fv.PitchProfile.PitchRange,
			PitchVariance: fv.PitchProfile.PitchVariance,
		}
	}

	return out
}

// ExportToYAML exports the model to a YAML file
func (s *ModelStore) ExportToYAML(outputPath string) error {
	report := s.Export()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	encoder := yaml.NewEncoder(file)
	encoder.SetIndent(2)
	if err := encoder.Encode(report); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}

// ExportToMarkdown exports the model to a Markdown file
func (s *ModelStore) ExportToMarkdown(outputPath string) error {
	report := s.Export()

	// Ensure directory exists
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(outputPath) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Write header
	_, _ = fmt.Fprintf(file, "# Equivocal Model Export - %s\n\n", time.Now().Format("2006-01-02"))
	_, _ = fmt.Fprintf(file, "Generated: %s\n\n", report.ExportedAt)
	_, _ = fmt.Fprintf(file, "- **Sample rate:** %d Hz\n", report.SampleRate)
	_, _ = fmt.Fprintf(file, "- **Trained categories:** %d\n\n", len(report.Categories))

	// Write summary table
	if len(report.Categories) > 0 {
		_, _ = fmt.Fprintln(file, "## Categories")
		_, _ = fmt.Fprintln(file)
		_, _ = fmt.Fprintln(file, "| Category | Samples | Valence | Energy | Complexity | Richness | Trajectory | Density | Openness |")
		_, _ = fmt.Fprintln(file, "|----------|---------|---------|--------|------------|----------|------------|---------|----------|")
		for _, p := range report.Categories {
			_, _ = fmt.Fprintf(file, "| %s | %d | %s | %s | %s | %s | %s | %s | %s |\n",
				p.Category, p.SampleCount,
				featureCell(p.Features, models.KeyEmotionalValence),
				featureCell(p.Features, models.KeyEnergyLevel),
				featureCell(p.Features, models.KeyTemporalComplexity),
				featureCell(p.Features, models.KeyHarmonicRichness),
				featureCell(p.Features, models.KeySpectralTrajectory),
				featureCell(p.Features, models.KeyTexturalDensity),
				featureCell(p.Features, models.KeySpatialOpenness))
		}
		_, _ = fmt.Fprintln(file)
	}

	// Write per-category detail
	for _, p := range report.Categories {
		_, _ = fmt.Fprintf(file, "### %s\n\n", p.Category)
		_, _ = fmt.Fprintf(file, "- **Samples:** %d\n", p.SampleCount)
		_, _ = fmt.Fprintf(file, "- **Trained:** %s\n", p.TrainedAt)
		if len(p.Timbre) > 0 {
			_, _ = fmt.Fprintf(file, "- **Timbre:** %s\n", formatCoefficients(p.Timbre))
		}
		if p.Onset != nil {
			_, _ = fmt.Fprintf(file, "- **Onsets:** mean IOI %.3fs, variance %.3f, count %.1f\n",
				p.Onset.MeanIOI, p.Onset.IOIVariance, p.Onset.NumOnsets)
		}
		if p.Pitch != nil {
			_, _ = fmt.Fprintf(file, "- **Pitch:** mean %.1f Hz, range %.1f Hz, variance %.1f\n",
				p.Pitch.MeanPitch, p.Pitch.PitchRange, p.Pitch.PitchVariance)
		}
		_, _ = fmt.Fprintln(file)
	}

	return nil
}

func featureCell(features map[string]float64, key models.FeatureKey) string {
	v, ok := features[string(key)]
	if !ok {
		return "-"
	}
	return fmt.Sprintf("%.4f", v)
}

func formatCoefficients(coeffs []float64) string {
	parts := make([]string, len(coeffs))
	for i, c := range coeffs {
		parts[i] = fmt.Sprintf("%.3f", c)
	}
	return strings.Join(parts, ", ")
}
