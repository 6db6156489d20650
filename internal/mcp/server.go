package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("RepCoach", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("RepCoach training server. Check per-muscle fatigue, generate fatigue-aware strength sessions, swap exercises and get progression targets."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetFatigue, Handler: h.getFatigue},
		server.ServerTool{Tool: toolGenerateWorkout, Handler: h.generateWorkout},
		server.ServerTool{Tool: toolFindAlternative, Handler: h.findAlternative},
		server.ServerTool{Tool: toolSuggestProgression, Handler: h.suggestProgression},
		server.ServerTool{Tool: toolListExercises, Handler: h.listExercises},
		server.ServerTool{Tool: toolMarkSore, Handler: h.markSore},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resFatigue, Handler: h.fatigueResource},
		server.ServerResource{Resource: resCatalogue, Handler: h.catalogueResource},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resFatigue = mcp.NewResource(
	"repcoach://fatigue",
	"Current Fatigue",
	mcp.WithResourceDescription("Per-muscle fatigue right now, including which muscles are blocked from training"),
	mcp.WithMIMEType("application/json"),
)

var resCatalogue = mcp.NewResource(
	"repcoach://exercises",
	"Exercise Catalogue",
	mcp.WithResourceDescription("Every exercise the planner can choose from, with target muscles and equipment"),
	mcp.WithMIMEType("application/json"),
)

func (h *handlers) fatigueResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	report, err := h.ds.Fatigue(ctx, time.Time{})
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, report)
}

func (h *handlers) catalogueResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	exercises, err := h.ds.Exercises(ctx)
	if err != nil {
		return nil, err
	}
	return jsonResource(req.Params.URI, exercises)
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
