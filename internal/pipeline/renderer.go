package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/claimsight/claimsight/internal/model"
)

// Renderer writes pipeline results as Markdown and JSON reports
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderMarkdown produces the combined downloadable report: both text
// artifacts concatenated with section headers, plus the quality verdict.
func (r *Renderer) RenderMarkdown(result *model.PipelineResult) string {
	var sb strings.Builder

	sb.WriteString("# Document Verification Report\n\n")

	sb.WriteString("## Video Transcript Analysis\n\n")
	sb.WriteString(strings.TrimSpace(result.Analysis.Content))
	sb.WriteString("\n\n---\n\n")

	sb.WriteString("## Document Verification Report\n\n")
	sb.WriteString(strings.TrimSpace(result.Report.Content))
	sb.WriteString("\n\n---\n\n")

	sb.WriteString("## Quality Check\n\n")
	fmt.Fprintf(&sb, "**Quality Score:** %d / 100\n\n", result.Quality.Score)
	if result.Quality.Issues != "" {
		fmt.Fprintf(&sb, "**Quality Feedback:** %s\n", strings.TrimSpace(result.Quality.Issues))
	}

	if r.includeFooter {
		sb.WriteString("\n---\n*Generated by claimsight*\n")
	}

	return sb.String()
}

// WriteMarkdown renders the combined report to a file
func (r *Renderer) WriteMarkdown(result *model.PipelineResult, path string) error {
	if err := os.WriteFile(path, []byte(r.RenderMarkdown(result)), 0644); err != nil {
		return fmt.Errorf("write markdown report: %w", err)
	}
	return nil
}

// WriteJSON renders the result object to a file
func (r *Renderer) WriteJSON(result *model.PipelineResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write JSON report: %w", err)
	}
	return nil
}

// RenderSummary prints a short verdict to stdout
func (r *Renderer) RenderSummary(result *model.PipelineResult) {
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Println("  Verification Summary")
	fmt.Println("═══════════════════════════════════════════════════════════")
	fmt.Printf("  Quality score:   %d / 100\n", result.Quality.Score)
	fmt.Printf("  Cycles run:      %d\n", result.Cycles)
	fmt.Printf("  Store queries:   %d\n", result.Report.Queries)
	if result.Quality.Issues != "" {
		fmt.Printf("  Feedback:        %s\n", firstLine(result.Quality.Issues))
	}
	fmt.Println()
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		return s[:idx]
	}
	return s
}
