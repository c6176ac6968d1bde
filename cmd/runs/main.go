// Command runs lists the processing runs stored in a results database.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/banshee-data/emissions.report/internal/resultdb"
)

func main() {
	var dbPath string
	var showBins bool

	flag.StringVar(&dbPath, "db", "results.db", "path to sqlite results db")
	flag.BoolVar(&showBins, "bins", false, "also print per-bin aggregate rates")
	flag.Parse()

	db, err := resultdb.Open(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	runs, err := db.ListRuns()
	if err != nil {
		log.Fatalf("list runs: %v", err)
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return
	}

	for _, r := range runs {
		fmt.Printf("%s  %s  %s  windows=%d empty=%d  cycle NOx %.4f g/hp-hr\n",
			r.CreatedAt.Format("2006-01-02 15:04:05"), r.RunID, r.SourceFile,
			r.WindowCount, r.EmptyWindows, r.CycleNOxGPerHpHr)
		if !showBins {
			continue
		}
		rates, err := db.BinRatesForRun(r.RunID)
		if err != nil {
			log.Fatalf("bin rates for %s: %v", r.RunID, err)
		}
		for label, rate := range rates {
			fmt.Printf("    %-24s %.4f g/hp-hr\n", label, rate)
		}
	}
}
