package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"plotnav/internal/adapters/opener"
	"plotnav/internal/application/commands"
	"plotnav/internal/domain"
	"plotnav/internal/ports"
)

// Defaults are applied when a tool call omits an argument
type Defaults struct {
	Format  string
	PlotDir string
}

// RegisterReadTools adds all read-only catalog tools to the MCP server.
func RegisterReadTools(s *server.MCPServer, catalog ports.PlotCatalog, defaults Defaults) {
	s.AddTool(plotCountTool(), plotCountHandler(catalog, defaults))
	s.AddTool(plotListTool(), plotListHandler(catalog, defaults))
	s.AddTool(plotAddressTool(), plotAddressHandler(catalog, defaults))
	s.AddTool(plotSearchTool(), plotSearchHandler(catalog, defaults))
}

func formatOption() mcp.ToolOption {
	return mcp.WithString("format",
		mcp.Description("Output format of the plots (e.g. output_web_raster). Omit for the configured default."),
	)
}

// --- plot_count ---

func plotCountTool() mcp.Tool {
	return mcp.NewTool("plot_count",
		mcp.WithDescription("Count the plots registered in the catalog for one output format."),
		formatOption(),
	)
}

func plotCountHandler(catalog ports.PlotCatalog, defaults Defaults) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		format := req.GetString("format", defaults.Format)

		n, err := commands.NewCountPlotsCommand(catalog, format).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(fmt.Sprintf("%d", n)), nil
	}
}

// --- plot_list ---

func plotListTool() mcp.Tool {
	return mcp.NewTool("plot_list",
		mcp.WithDescription("List the plots of one output format in navigation order, with their position and anchor."),
		formatOption(),
	)
}

func plotListHandler(catalog ports.PlotCatalog, defaults Defaults) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		format := req.GetString("format", defaults.Format)

		plots, err := commands.NewListPlotsCommand(catalog, format).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return formatEntities(plots, formatPlot)
	}
}

// --- plot_address ---

func plotAddressTool() mcp.Tool {
	return mcp.NewTool("plot_address",
		mcp.WithDescription("Get the file path and anchor of the plot at a 1-based position."),
		mcp.WithNumber("position",
			mcp.Description("1-based plot position"),
			mcp.Required(),
		),
		formatOption(),
	)
}

func plotAddressHandler(catalog ports.PlotCatalog, defaults Defaults) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		format := req.GetString("format", defaults.Format)
		position := req.GetInt("position", 0)

		plot, err := commands.NewShowPlotCommand(catalog, format, position).Execute(ctx)
		if err != nil {
			return toolError(err)
		}
		return mcp.NewToolResultText(opener.Address(defaults.PlotDir, plot)), nil
	}
}

// --- plot_search ---

func plotSearchTool() mcp.Tool {
	return mcp.NewTool("plot_search",
		mcp.WithDescription("Search plots by title, file name or anchor. Returns matches ranked by relevance with their positions."),
		mcp.WithString("query",
			mcp.Description("Search query (at least 2 characters)"),
			mcp.Required(),
		),
		formatOption(),
	)
}

func plotSearchHandler(catalog ports.PlotCatalog, defaults Defaults) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		query := req.GetString("query", "")
		if query == "" {
			return toolError(fmt.Errorf("query is required"))
		}

		results, err := commands.NewSearchPlotsCommand(catalog, req.GetString("format", defaults.Format), query).Execute(ctx)
		if err != nil {
			return toolError(err)
		}

		if len(results) == 0 {
			return mcp.NewToolResultText("No results found."), nil
		}
		return formatEntities(results, func(r commands.SearchResult) string {
			return formatPlot(r.Plot)
		})
	}
}

// --- helpers ---

func toolError(err error) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultError(err.Error()), nil
}

func formatEntities[T any](entities []T, format func(T) string) (*mcp.CallToolResult, error) {
	if len(entities) == 0 {
		return mcp.NewToolResultText("No results."), nil
	}
	var sb strings.Builder
	for _, e := range entities {
		sb.WriteString(format(e))
		sb.WriteByte('\n')
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func formatPlot(p domain.Plot) string {
	return fmt.Sprintf("%d  %s  %s  %s", p.Position, p.Anchor(), p.DisplayName(), p.Filename)
}
