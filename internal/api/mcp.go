package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer creates an MCP server exposing the similarity space as tools,
// so assistants can look up related queries while helping an analyst.
func NewMCPServer(deps Deps) *server.MCPServer {
	s := server.NewMCPServer(
		"queryscope",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions("queryscope: explainable similarity search over an analyst SQL query log."),
		server.WithRecovery(),
	)

	s.AddTool(
		mcp.NewTool("find_similar_queries",
			mcp.WithDescription("Find the queries most similar to a given corpus query, with an explanation per result."),
			mcp.WithNumber("query_idx", mcp.Description("Corpus position of the seed query"), mcp.Required()),
			mcp.WithNumber("k", mcp.Description("Number of recommendations (default 3)")),
			mcp.WithString("metric", mcp.Description("Distance metric (euclidean, cosine, manhattan); falls back when unknown")),
		),
		mcpFindSimilar(deps),
	)

	s.AddTool(
		mcp.NewTool("describe_query",
			mcp.WithDescription("Return the extracted structural and semantic features of a corpus query."),
			mcp.WithNumber("query_idx", mcp.Description("Corpus position of the query"), mcp.Required()),
		),
		mcpDescribeQuery(deps),
	)

	return s
}

func mcpFindSimilar(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		idx, err := req.RequireInt("query_idx")
		if err != nil {
			return mcpError("query_idx is required"), nil
		}
		if idx < 0 || idx >= len(deps.Parsed.ParsedQueries) {
			return mcpError(fmt.Sprintf("query index %d out of range [0, %d)", idx, len(deps.Parsed.ParsedQueries))), nil
		}

		k := req.GetInt("k", deps.DefaultK)
		if k <= 0 {
			k = deps.DefaultK
		}
		metric := deps.Recommender.ResolveMetric(req.GetString("metric", deps.DefaultMetric))

		recs, err := deps.Recommender.Recommend(idx, k, metric)
		if err != nil {
			return mcpError(fmt.Sprintf("recommendation failed: %v", err)), nil
		}

		type result struct {
			QueryIdx    int     `json:"query_idx"`
			SQL         string  `json:"sql"`
			Distance    float64 `json:"distance"`
			Explanation string  `json:"explanation"`
		}
		results := make([]result, 0, len(recs))
		for _, rec := range recs {
			results = append(results, result{
				QueryIdx:    rec.Index,
				SQL:         deps.Parsed.ParsedQueries[rec.Index].SQL,
				Distance:    rec.Distance,
				Explanation: rec.Explanation,
			})
		}

		data, err := json.MarshalIndent(map[string]any{
			"metric":          metric,
			"recommendations": results,
		}, "", "  ")
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal results: %v", err)), nil
		}
		return mcpText(string(data)), nil
	}
}

func mcpDescribeQuery(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		idx, err := req.RequireInt("query_idx")
		if err != nil {
			return mcpError("query_idx is required"), nil
		}
		if idx < 0 || idx >= len(deps.Parsed.ParsedQueries) {
			return mcpError(fmt.Sprintf("query index %d out of range [0, %d)", idx, len(deps.Parsed.ParsedQueries))), nil
		}

		data, err := json.MarshalIndent(deps.Parsed.ParsedQueries[idx], "", "  ")
		if err != nil {
			return mcpError(fmt.Sprintf("failed to marshal features: %v", err)), nil
		}
		return mcpText(string(data)), nil
	}
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
