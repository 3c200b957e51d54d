package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/nhoward/scout/internal/config"
	"github.com/nhoward/scout/internal/facets"
	"github.com/nhoward/scout/internal/query"
	"github.com/nhoward/scout/internal/searchclient"
)

// maxConcurrentSearches limits parallel one-shot queries.
const maxConcurrentSearches = 3

func runSearch() {
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	topK := fs.Int("top", query.DefaultTopK, "Number of ranked results to request")
	minScore := fs.Float64("min-score", query.DefaultMinScore, "Minimum match score in [0,1]")
	location := fs.String("location", "", "Location facet filter")
	availability := fs.String("availability", "", "Availability facet filter")
	techs := fs.String("technologies", "", "Comma-separated technology facet filters")
	skills := fs.String("skills", "", "Comma-separated skill facet filters")
	fs.Parse(os.Args[1:])

	queries := fs.Args()
	if len(queries) == 0 {
		fmt.Fprintln(os.Stderr, "usage: scoutctl search [flags] <query> [query...]")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	client := searchclient.New(cfg.Search.Endpoint, cfg.Search.APIToken, cfg.Timeout())

	ctx := context.Background()
	responses := make([]*searchclient.Response, len(queries))
	errs := make([]error, len(queries))

	var g errgroup.Group
	g.SetLimit(maxConcurrentSearches)
	for i, text := range queries {
		g.Go(func() error {
			q := query.New(text)
			q.TopK = *topK
			q.MinScore = *minScore
			q.Facets.Location = *location
			q.Facets.Availability = *availability
			q.Facets.Technologies = splitList(*techs)
			q.Facets.Skills = splitList(*skills)
			responses[i], errs[i] = client.Search(ctx, q)
			return nil // errors reported per-query
		})
	}
	g.Wait()

	for i, text := range queries {
		fmt.Printf("\n>>> QUERY: %q\n", text)
		fmt.Println(strings.Repeat("-", 72))
		if errs[i] != nil {
			fmt.Printf("  ERROR: %s\n", searchclient.Classify(errs[i]))
			continue
		}
		resp := responses[i]
		fmt.Printf("  %d results (of %d total)\n\n", len(resp.Results), resp.TotalCount)
		for n, c := range resp.Results {
			fmt.Printf("  %2d. [%.2f] %s — %s, %s (%s)\n",
				n+1, c.MatchScore, c.Name, c.Title, c.Location, c.Availability)
		}

		summary := resp.Facets
		if summary == nil {
			summary = facets.Summarize(resp.Results)
		}
		for _, cat := range facets.Categories {
			counts := summary[cat]
			if len(counts) == 0 {
				continue
			}
			parts := make([]string, 0, len(counts))
			for _, fc := range counts {
				parts = append(parts, fmt.Sprintf("%s:%d", fc.Value, fc.Count))
				if len(parts) == 8 {
					break
				}
			}
			fmt.Printf("\n  %-15s %s", cat, strings.Join(parts, "  "))
		}
		fmt.Println()
	}
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
