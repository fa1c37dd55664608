package api

import (
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ralsina/nombres/pkg/gender"
	"github.com/ralsina/nombres/pkg/kit"
	"github.com/ralsina/nombres/pkg/query"
	"github.com/ralsina/nombres/pkg/store"
)

// RegisterMCPTools registers the nombres MCP tools on the server, dispatching
// to the same endpoints as the HTTP routes.
func RegisterMCPTools(srv *server.MCPServer, resolver *query.Resolver, cl *gender.Classifier, st *store.Store) {
	registerQueryNames(srv, resolver)
	registerNameHistory(srv, st)
	registerClassifyGender(srv, cl)
}

func registerQueryNames(srv *server.MCPServer, resolver *query.Resolver) {
	tool := mcp.NewTool("query_names",
		mcp.WithDescription("Rank historical Argentine first names by popularity. All filters optional: a name prefix, a birth year, and a gender (f/m)."),
		mcp.WithString("prefix", mcp.Description("Name prefix to match (e.g. jua)")),
		mcp.WithString("year", mcp.Description("Birth year (e.g. 1983); non-numeric values are ignored")),
		mcp.WithString("gender", mcp.Description("f or m; anything else is ignored")),
	)

	kit.RegisterMCPTool(srv, tool, queryEndpoint(resolver), func(req mcp.CallToolRequest) (any, error) {
		args := req.GetArguments()
		prefix, _ := args["prefix"].(string)
		year, _ := args["year"].(string)
		gender, _ := args["gender"].(string)
		return &queryReq{Prefix: prefix, Year: year, Gender: gender}, nil
	})
}

func registerNameHistory(srv *server.MCPServer, st *store.Store) {
	tool := mcp.NewTool("name_history",
		mcp.WithDescription("Per-year birth counts for one or more exact names (comma-separated, up to 10)."),
		mcp.WithString("names", mcp.Required(), mcp.Description("Comma-separated names (e.g. juan,maria)")),
	)

	kit.RegisterMCPTool(srv, tool, historyEndpoint(st), func(req mcp.CallToolRequest) (any, error) {
		args := req.GetArguments()
		namesStr, _ := args["names"].(string)
		return &historyReq{Names: splitNames(namesStr)}, nil
	})
}

// splitNames splits a comma-separated name list, dropping blanks.
func splitNames(s string) []string {
	var out []string
	for _, n := range strings.Split(s, ",") {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func registerClassifyGender(srv *server.MCPServer, cl *gender.Classifier) {
	tool := mcp.NewTool("classify_gender",
		mcp.WithDescription("Partition names into likely-female and likely-male lists. Names whose gender cannot be determined appear in both."),
		mcp.WithString("names", mcp.Required(), mcp.Description("Comma-separated names (e.g. juan,maria)")),
	)

	kit.RegisterMCPTool(srv, tool, classifyEndpoint(cl), func(req mcp.CallToolRequest) (any, error) {
		args := req.GetArguments()
		namesStr, _ := args["names"].(string)
		return &classifyReq{Names: splitNames(namesStr)}, nil
	})
}
