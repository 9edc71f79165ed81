package usecase

import (
	"context"
	"strings"

	"student-assistant/internal/domain/entity"
)

var diagramTypes = map[string]bool{
	"flowchart": true,
	"sequence":  true,
	"class":     true,
	"mindmap":   true,
	"timeline":  true,
}

// GenerateDiagram turns a free-text description into Mermaid source.
func (u *Orchestrator) GenerateDiagram(ctx context.Context, clientID string, in entity.DiagramInput) (*entity.Diagram, error) {
	if strings.TrimSpace(in.Prompt) == "" {
		return nil, entity.Invalid("prompt", "Prompt is required")
	}
	in.DiagramType = strings.ToLower(strings.TrimSpace(in.DiagramType))
	if !diagramTypes[in.DiagramType] {
		in.DiagramType = "flowchart"
	}

	out, err := runStructured(ctx, u, clientID, entity.FeatureDiagram, BuildDiagramPrompt(in), DiagramSchema,
		func() entity.Diagram { return FallbackDiagram(in) })
	if err != nil {
		return nil, err
	}
	d := out.Value
	if !out.Fallback {
		d.DiagramType = in.DiagramType
	}
	if d.Title == "" {
		d.Title = "Generated Diagram"
	}
	return &d, nil
}
