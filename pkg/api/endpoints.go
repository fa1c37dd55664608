package api

import (
	"context"
	"fmt"

	"github.com/ralsina/nombres/pkg/chart"
	"github.com/ralsina/nombres/pkg/gender"
	"github.com/ralsina/nombres/pkg/kit"
	"github.com/ralsina/nombres/pkg/names"
	"github.com/ralsina/nombres/pkg/query"
	"github.com/ralsina/nombres/pkg/store"
)

// Shared request/response types used by both HTTP and MCP transports.

type queryReq struct {
	Prefix string
	Year   string
	Gender string
}

type queryResponse struct {
	Title   string            `json:"title"`
	Results []store.NameCount `json:"results"`
}

type historyReq struct {
	Names []string
}

type historyResponse struct {
	Series []historySeries `json:"series"`
}

type historySeries struct {
	Name   string            `json:"name"`
	Counts []store.YearCount `json:"counts"`
}

type classifyReq struct {
	Names []string
}

type classifyResponse struct {
	F []string `json:"f"`
	M []string `json:"m"`
}

const maxHistoryNames = 10

func queryEndpoint(resolver *query.Resolver) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*queryReq)
		rows, err := resolver.Resolve(ctx, query.ParseParams(req.Prefix, req.Year, req.Gender))
		if err != nil {
			return nil, err
		}
		return queryResponse{Title: chart.Title(rows), Results: rows}, nil
	}
}

func historyEndpoint(st *store.Store) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*historyReq)
		if len(req.Names) == 0 {
			return nil, fmt.Errorf("no names given")
		}
		if len(req.Names) > maxHistoryNames {
			return nil, fmt.Errorf("too many names (max %d, got %d)", maxHistoryNames, len(req.Names))
		}

		resp := historyResponse{Series: []historySeries{}}
		for _, raw := range req.Names {
			name := names.Normalize(raw)
			if name == "" {
				continue
			}
			counts, err := st.YearHistory(ctx, name)
			if err != nil {
				return nil, err
			}
			if counts == nil {
				counts = []store.YearCount{}
			}
			resp.Series = append(resp.Series, historySeries{Name: name, Counts: counts})
		}
		return resp, nil
	}
}

func classifyEndpoint(cl *gender.Classifier) kit.Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*classifyReq)
		if len(req.Names) == 0 {
			return nil, fmt.Errorf("no names given")
		}

		rows := make([]store.NameCount, 0, len(req.Names))
		for _, raw := range req.Names {
			if name := names.Normalize(raw); name != "" {
				rows = append(rows, store.NameCount{Name: name})
			}
		}

		split := cl.Partition(ctx, rows)
		resp := classifyResponse{F: []string{}, M: []string{}}
		for _, nc := range split.F {
			resp.F = append(resp.F, nc.Name)
		}
		for _, nc := range split.M {
			resp.M = append(resp.M, nc.Name)
		}
		return resp, nil
	}
}
