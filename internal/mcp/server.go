package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dohr-michael/promptdna/internal/dna"
	"github.com/dohr-michael/promptdna/internal/events"
	"github.com/dohr-michael/promptdna/internal/workflow"
)

var analyzeTool = toolSpec{
	Name:        "analyze_prompt",
	Description: "Decode the emotional DNA of a text: empathy, curiosity, chaos, confidence and creativity scores (0-100), a one-line summary, the blended helix color and the dominant emotion.",
	Parameters: map[string]paramSpec{
		"text": {Type: "string", Description: "The text to analyze", Required: true},
	},
}

var blendTool = toolSpec{
	Name:        "blend_colors",
	Description: "Blend emotion weights into the helix color. Unknown emotion names are ignored.",
	Parameters: map[string]paramSpec{
		"weights": {Type: "object", Description: "Map of emotion name to weight, e.g. {\"empathy\": 80, \"chaos\": 20}", Required: true},
	},
}

// AnalysisResult is the analyze_prompt tool output.
type AnalysisResult struct {
	Profile  dna.Profile `json:"profile"`
	Color    dna.HSL     `json:"color"`
	CSS      string      `json:"css"`
	Hex      string      `json:"hex"`
	Top      string      `json:"top_emotion"`
	Strength string      `json:"top_intensity"`
}

// BlendResult is the blend_colors tool output.
type BlendResult struct {
	Color dna.HSL `json:"color"`
	CSS   string  `json:"css"`
	Hex   string  `json:"hex"`
}

// NewMCPServer creates an MCP server whose analyses go through analyzer.
func NewMCPServer(analyzer workflow.Analyzer, bus *events.Bus, version string) *mcpsdk.Server {
	server := mcpsdk.NewServer(&mcpsdk.Implementation{
		Name:    "promptdna",
		Version: version,
	}, nil)

	runner := &workflow.Runner{Analyzer: analyzer}

	server.AddTool(toMCPTool(analyzeTool), func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		var args struct {
			Text string `json:"text"`
		}
		if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
			return toolError(fmt.Errorf("invalid arguments: %w", err)), nil
		}

		session := workflow.NewSession(bus)
		start := time.Now()
		profile, err := runner.Run(ctx, session, args.Text)
		if err != nil {
			slog.Debug("mcp analyze failed", "session", session.ID(), "error", err)
			if n := session.Notice(); n != nil {
				return toolError(fmt.Errorf("%s: %s", n.Title, n.Description)), nil
			}
			return toolError(err), nil
		}
		slog.Debug("mcp analyze", "session", session.ID(), "duration", time.Since(start))

		return toolJSON(NewAnalysisResult(*profile))
	})

	server.AddTool(toMCPTool(blendTool), func(ctx context.Context, req *mcpsdk.CallToolRequest) (*mcpsdk.CallToolResult, error) {
		var args struct {
			Weights map[string]float64 `json:"weights"`
		}
		if err := json.Unmarshal(req.Params.Arguments, &args); err != nil {
			return toolError(fmt.Errorf("invalid arguments: %w", err)), nil
		}
		c := dna.Blend(args.Weights)
		return toolJSON(BlendResult{Color: c, CSS: c.String(), Hex: c.Hex()})
	})

	return server
}

// NewAnalysisResult decorates a profile with its derived colors.
func NewAnalysisResult(p dna.Profile) AnalysisResult {
	c := p.Color()
	top := p.Top()
	return AnalysisResult{
		Profile:  p,
		Color:    c,
		CSS:      c.String(),
		Hex:      c.Hex(),
		Top:      string(top),
		Strength: dna.IntensityLabel(p.Score(top)),
	}
}

func toolJSON(v any) (*mcpsdk.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: string(data)}},
	}, nil
}

func toolError(err error) *mcpsdk.CallToolResult {
	return &mcpsdk.CallToolResult{
		IsError: true,
		Content: []mcpsdk.Content{&mcpsdk.TextContent{Text: err.Error()}},
	}
}
