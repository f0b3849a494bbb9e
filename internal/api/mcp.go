package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/filmdeck/internal/film"
	"github.com/kalambet/filmdeck/internal/listfetch"
	"github.com/kalambet/filmdeck/internal/screen"
)

const (
	stateResourceURI = "films://state"
	fromMCP          = "MCP"
)

// NewMCPServer exposes the films screen as MCP tools and a state resource.
func NewMCPServer(films FilmsScreen, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"filmdeck",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("filmdeck: Studio Ghibli film catalogue. List, refresh and look up films."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("list_films",
			mcp.WithDescription("Return the films currently loaded, loading them first if nothing has been fetched yet."),
		),
		mcpListFilms(films),
	)

	s.AddTool(
		mcp.NewTool("refresh_films",
			mcp.WithDescription("Fetch the films collection again from the remote source."),
		),
		mcpRefreshFilms(films),
	)

	s.AddTool(
		mcp.NewTool("film_details",
			mcp.WithDescription("Show the details of one film, looked up by id or title."),
			mcp.WithString("query", mcp.Description("Film id or title (fuzzy)"), mcp.Required()),
			mcp.WithString("from", mcp.Description("Where the request originated")),
		),
		mcpFilmDetails(films),
	)

	s.AddResource(
		mcp.NewResource(
			stateResourceURI,
			"Films state",
			mcp.WithResourceDescription("Current films list state as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceState(films),
	)

	return s
}

func mcpListFilms(films FilmsScreen) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		st := films.State()
		if st.Generation == 0 {
			films.Load(ctx)
			st = films.State()
		}
		return mcpState(st)
	}
}

func mcpRefreshFilms(films FilmsScreen) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		err := films.Refresh(ctx)
		if err != nil && !errors.Is(err, listfetch.ErrSuperseded) {
			return mcpError(screen.ErrorText(films.State().Err)), nil
		}
		return mcpState(films.State())
	}
}

func mcpFilmDetails(films FilmsScreen) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query, err := req.RequireString("query")
		if err != nil {
			return mcpError("query is required"), nil
		}
		from := req.GetString("from", fromMCP)

		f, err := film.Find(films.State().Items, query)
		if err != nil {
			return mcpError(fmt.Sprintf("film %q not found", query)), nil
		}

		b, err := json.Marshal(screen.NewDetails(screen.Selection{Film: &f, From: from}))
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal details: %v", err)), nil
		}
		return mcpText(string(b)), nil
	}
}

func mcpResourceState(films FilmsScreen) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		b, err := json.Marshal(NewStateResponse(films.State()))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal state: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     string(b),
			},
		}, nil
	}
}

func mcpState(st listfetch.State[film.Film]) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(NewStateResponse(st))
	if err != nil {
		return mcpError(fmt.Sprintf("failed to marshal state: %v", err)), nil
	}
	return mcpText(string(b)), nil
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
