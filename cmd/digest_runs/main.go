package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/joho/godotenv"

	"github.com/hetulpatel/appealdigest/internal/storage/sqlite"
)

func main() {
	godotenv.Load()

	key := flag.String("key", "", "naming key (process number or file stem); empty lists all documents")
	limit := flag.Int("limit", 20, "max rows")
	flag.Parse()

	path := os.Getenv("SQLITE_PATH")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	store, err := sqlite.Open(ctx, path)
	if err != nil {
		log.Fatalf("open sqlite: %v", err)
	}
	defer store.Close()

	runs, err := store.RecentRuns(ctx, *key, *limit)
	if err != nil {
		log.Fatalf("list runs: %v", err)
	}
	if len(runs) == 0 {
		fmt.Printf("No runs recorded in %s\n", store.Path())
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FINISHED\tDOCUMENT\tKEY\tOUTCOME\tSTAGE\tIMPROVED FILE")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", r.FinishedAt, r.SourcePath, r.NamingKey, r.Outcome, r.FailedStage, r.ImprovedPath)
	}
	w.Flush()
}
