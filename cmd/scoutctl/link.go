package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/nhoward/scout/internal/linkstate"
	"github.com/nhoward/scout/internal/query"
)

func runLink() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: scoutctl link encode|decode [args]")
		os.Exit(1)
	}

	sub := os.Args[1]
	os.Args = os.Args[1:]

	switch sub {
	case "encode":
		runLinkEncode()
	case "decode":
		runLinkDecode()
	default:
		fmt.Fprintf(os.Stderr, "scoutctl link: unknown subcommand %q\n", sub)
		os.Exit(1)
	}
}

func runLinkEncode() {
	fs := flag.NewFlagSet("encode", flag.ExitOnError)
	text := fs.String("q", "", "Query text")
	topK := fs.Int("top", query.DefaultTopK, "Number of ranked results")
	minScore := fs.Float64("min-score", query.DefaultMinScore, "Minimum match score")
	location := fs.String("location", "", "Location facet")
	availability := fs.String("availability", "", "Availability facet")
	techs := fs.String("technologies", "", "Comma-separated technologies")
	skills := fs.String("skills", "", "Comma-separated skills")
	certs := fs.String("certifications", "", "Comma-separated certifications")
	minYears := fs.Int("min-years", 0, "Minimum years of experience")
	fs.Parse(os.Args[1:])

	q := query.New(*text)
	q.TopK = *topK
	q.MinScore = *minScore
	q.Facets.Location = *location
	q.Facets.Availability = *availability
	q.Facets.Technologies = splitList(*techs)
	q.Facets.Skills = splitList(*skills)
	q.Facets.Certifications = splitList(*certs)
	q.Facets.MinYears = *minYears

	fmt.Println("?" + linkstate.EncodeString(q))
}

func runLinkDecode() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: scoutctl link decode '<query-string>'")
		os.Exit(1)
	}

	q, err := linkstate.DecodeString(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "decode: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("text:           %q\n", q.Text)
	fmt.Printf("topK:           %d\n", q.TopK)
	fmt.Printf("minScore:       %g\n", q.MinScore)
	if q.Facets.Location != "" {
		fmt.Printf("location:       %s\n", q.Facets.Location)
	}
	if q.Facets.Availability != "" {
		fmt.Printf("availability:   %s\n", q.Facets.Availability)
	}
	printList("technologies", q.Facets.Technologies)
	printList("skills", q.Facets.Skills)
	printList("certifications", q.Facets.Certifications)
	if q.Facets.MinYears > 0 {
		fmt.Printf("minYears:       %d\n", q.Facets.MinYears)
	}

	// Prove the round trip while we're here.
	if linkstate.EncodeString(q) != strings.TrimPrefix(os.Args[1], "?") {
		fmt.Println("\nnote: re-encoding normalizes parameter order")
	}
}

func printList(name string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Printf("%-15s %s\n", name+":", strings.Join(values, ", "))
}
