package main

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"nlpengine/internal/mockapi"

	"github.com/spf13/cobra"
)

type stubArgs map[string]string

func (a stubArgs) get(name, fallback string) string {
	if v, ok := a[name]; ok && v != "" {
		return v
	}
	return fallback
}

func (a stubArgs) list(name string) []string {
	v := a[name]
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func (a stubArgs) int(name string, fallback int) (int, error) {
	v, ok := a[name]
	if !ok || v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("argument %s: %w", name, err)
	}
	return n, nil
}

type stubFunc func(ctx context.Context, g *mockapi.Generator, args stubArgs) (any, error)

// stubs maps a command line name to the generator call behind it.
var stubs = map[string]stubFunc{
	"dashboard": func(ctx context.Context, g *mockapi.Generator, _ stubArgs) (any, error) {
		return g.Dashboard(ctx)
	},
	"activity": func(ctx context.Context, g *mockapi.Generator, _ stubArgs) (any, error) {
		return g.RecentActivity(ctx)
	},
	"audit": func(ctx context.Context, g *mockapi.Generator, a stubArgs) (any, error) {
		return g.AuditWebsite(ctx, a.get("url", "https://example.com"))
	},
	"audit-history": func(ctx context.Context, g *mockapi.Generator, _ stubArgs) (any, error) {
		return g.AuditHistory(ctx)
	},
	"verify": func(ctx context.Context, g *mockapi.Generator, a stubArgs) (any, error) {
		return g.VerifyContent(ctx, a.get("url", "https://example.com"), a["hash"])
	},
	"register": func(ctx context.Context, g *mockapi.Generator, a stubArgs) (any, error) {
		return g.RegisterContent(ctx, a.get("url", "https://example.com"))
	},
	"verify-hash": func(ctx context.Context, g *mockapi.Generator, a stubArgs) (any, error) {
		return g.VerifyHash(ctx, a.get("type", "hash"), a.get("value", "0x0"))
	},
	"transactions": func(ctx context.Context, g *mockapi.Generator, _ stubArgs) (any, error) {
		return g.Transactions(ctx)
	},
	"performance": func(ctx context.Context, g *mockapi.Generator, _ stubArgs) (any, error) {
		return g.BlockchainPerformance(ctx)
	},
	"generate-content": func(ctx context.Context, g *mockapi.Generator, a stubArgs) (any, error) {
		tone, err := a.int("tone", 50)
		if err != nil {
			return nil, err
		}
		length, err := a.int("length", 500)
		if err != nil {
			return nil, err
		}
		return g.GenerateContent(ctx, mockapi.ContentRequest{
			Topic:       a["topic"],
			Keywords:    a.list("keywords"),
			ContentType: a.get("type", "blog"),
			Tone:        tone,
			Length:      length,
		})
	},
	"optimize": func(ctx context.Context, g *mockapi.Generator, a stubArgs) (any, error) {
		return g.OptimizeContent(ctx, mockapi.OptimizeRequest{
			Content:  a["content"],
			Keywords: a.list("keywords"),
		})
	},
	"keywords": func(ctx context.Context, g *mockapi.Generator, _ stubArgs) (any, error) {
		return g.Keywords(ctx)
	},
	"add-keyword": func(ctx context.Context, g *mockapi.Generator, a stubArgs) (any, error) {
		return g.AddKeyword(ctx, a.get("keyword", "seo tools"))
	},
	"research": func(ctx context.Context, g *mockapi.Generator, a stubArgs) (any, error) {
		return g.ResearchKeywords(ctx, a.get("keyword", "seo tools"))
	},
	"competitors": func(ctx context.Context, g *mockapi.Generator, _ stubArgs) (any, error) {
		return g.Competitors(ctx)
	},
	"serp": func(ctx context.Context, g *mockapi.Generator, a stubArgs) (any, error) {
		return g.AnalyzeSERP(ctx, a.get("keyword", "seo tools"), a.get("location", "United States"), a.get("device", "desktop"))
	},
	"serp-history": func(ctx context.Context, g *mockapi.Generator, _ stubArgs) (any, error) {
		return g.SERPHistory(ctx)
	},
}

func newGenerateCmd() *cobra.Command {
	var (
		seed  uint64
		scale float64
		args  map[string]string
	)

	names := slices.Sorted(maps.Keys(stubs))
	cmd := &cobra.Command{
		Use:       "generate <stub>",
		Short:     "Print one mock response as JSON",
		Long:      "Print one mock response as JSON. Available stubs: " + strings.Join(names, ", "),
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, positional []string) error {
			opts := []mockapi.Option{mockapi.WithLatencyScale(scale)}
			if cmd.Flags().Changed("seed") {
				opts = append(opts, mockapi.WithSeed(seed))
			}
			result, err := stubs[positional[0]](cmd.Context(), mockapi.New(opts...), args)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "fix the random source for reproducible output")
	cmd.Flags().Float64Var(&scale, "latency-scale", 0, "multiply the simulated network delay")
	cmd.Flags().StringToStringVar(&args, "arg", nil, "stub argument as name=value, repeatable")
	return cmd
}
