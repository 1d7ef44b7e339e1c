package results

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/photostudio/photostudio/internal/models"
	"gopkg.in/yaml.v3"
)

// Report is the printable outcome of a run
type Report struct {
	RunID     string            `json:"run_id" yaml:"run_id"`
	Mode      string            `json:"mode" yaml:"mode"`
	Artifacts []models.Artifact `json:"artifacts" yaml:"artifacts"`
	Summary   string            `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Write renders the report in the given format (text, json or yaml)
func Write(w io.Writer, report Report, format string) error {
	switch format {
	case "", "text":
		return writeText(w, report)
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report)
	case "yaml":
		encoder := yaml.NewEncoder(w)
		defer encoder.Close()
		return encoder.Encode(report)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeText(w io.Writer, report Report) error {
	fmt.Fprintln(w, "========================================")
	fmt.Fprintf(w, "Mode: %s\n", report.Mode)
	fmt.Fprintln(w, "========================================")

	for _, a := range report.Artifacts {
		fmt.Fprintf(w, "%-12s %s\n", a.Label, a.OutputPath)
		if a.Metadata != nil {
			fmt.Fprintf(w, "             %s, %s\n", a.Metadata.Dimensions, a.Metadata.FileSize)
		}
		if a.LocalPath != "" {
			fmt.Fprintf(w, "             saved to %s\n", a.LocalPath)
		}
	}

	if report.Summary != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, report.Summary)
	}

	_, err := fmt.Fprintln(w, "========================================")
	return err
}
