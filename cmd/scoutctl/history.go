package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/nhoward/scout/internal/history"
	"github.com/nhoward/scout/internal/linkstate"
)

func runHistory() {
	fs := flag.NewFlagSet("history", flag.ExitOnError)
	limit := fs.Int("n", 20, "Number of entries to show")
	fs.Parse(os.Args[1:])

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("home directory: %v", err)
	}
	dbPath := filepath.Join(homeDir, ".scout", "scout.db")
	if _, err := os.Stat(dbPath); err != nil {
		fmt.Println("No search history yet.")
		return
	}

	st, err := history.Open(dbPath)
	if err != nil {
		log.Fatalf("open history: %v", err)
	}
	defer st.Close()

	entries, err := st.Recent(*limit)
	if err != nil {
		log.Fatalf("read history: %v", err)
	}
	if len(entries) == 0 {
		fmt.Println("No search history yet.")
		return
	}

	for _, e := range entries {
		fmt.Printf("%s  %-30q %3d/%3d  ?%s\n",
			e.ExecutedAt.Local().Format("2006-01-02 15:04"),
			e.Query.Text,
			e.ResultCount,
			e.TotalCount,
			linkstate.EncodeString(e.Query),
		)
	}
}
