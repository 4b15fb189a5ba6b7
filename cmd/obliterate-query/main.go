package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/Timmmm/obliterate/internal/database"
	"github.com/Timmmm/obliterate/internal/exitcodes"
)

func main() {
	dbPath := flag.String("db", "/var/lib/obliterate/removals.db", "Path to removal database")
	recent := flag.Int("recent", 0, "Show N most recent removal events")
	stats := flag.Bool("stats", false, "Show removal statistics")
	action := flag.String("action", "", "Filter by action (REMOVE, ERROR, SKIP)")
	pathPattern := flag.String("path", "", "Filter by path pattern (SQL LIKE syntax)")
	fixes := flag.Int("fixes", 0, "Show N most recent permission fixes")
	days := flag.Int("days", 30, "Number of days for statistics (default: 30)")
	jsonOutput := flag.Bool("json", false, "Output in JSON format")
	flag.Parse()

	db, err := database.NewRemovalDB(*dbPath)
	if err != nil {
		log.Fatalf("ERROR: Failed to open database %s: %v", *dbPath, err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("ERROR: Failed to close database: %v", err)
		}
	}()

	switch {
	case *stats:
		showStats(db, *days, *jsonOutput)
	case *recent > 0:
		showRecent(db, *recent, *jsonOutput)
	case *action != "":
		showByAction(db, *action, *jsonOutput)
	case *pathPattern != "":
		showByPath(db, *pathPattern, *jsonOutput)
	case *fixes > 0:
		showFixes(db, *fixes, *jsonOutput)
	default:
		flag.Usage()
		fmt.Println("\nExamples:")
		fmt.Println("  obliterate-query --recent 10           # Show 10 most recent events")
		fmt.Println("  obliterate-query --stats               # Show removal statistics")
		fmt.Println("  obliterate-query --action ERROR        # Show only failed removals")
		fmt.Println("  obliterate-query --path '/tmp/%'       # Show removals under /tmp")
		fmt.Println("  obliterate-query --fixes 10            # Show 10 most recent permission fixes")
		os.Exit(exitcodes.InvalidConfig)
	}
}

func showStats(db *database.RemovalDB, days int, jsonOutput bool) {
	stats, err := db.GetRemovalStats(days)
	if err != nil {
		log.Fatalf("ERROR: Failed to get statistics: %v", err)
	}

	if jsonOutput {
		data, _ := json.MarshalIndent(stats, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Removal Statistics (Last %d days)\n", days)
	fmt.Printf("Period: %s to %s\n\n", stats.StartDate.Format("2006-01-02"), stats.EndDate.Format("2006-01-02"))
	fmt.Printf("Entries Removed:   %d\n", stats.TotalRemoved)
	fmt.Printf("Errors:            %d\n", stats.TotalErrors)
	fmt.Printf("Refused Roots:     %d\n", stats.TotalSkipped)
	fmt.Printf("Permission Fixes:  %d\n\n", stats.PermissionFixes)

	if len(stats.ByObjectType) > 0 {
		fmt.Println("By Type:")
		for objectType, count := range stats.ByObjectType {
			fmt.Printf("  %-18s %d\n", objectType, count)
		}
	}
}

func showRecent(db *database.RemovalDB, limit int, jsonOutput bool) {
	records, err := db.GetRecentRemovals(limit)
	if err != nil {
		log.Fatalf("ERROR: Failed to get recent events: %v", err)
	}
	output(records, jsonOutput)
}

func showByAction(db *database.RemovalDB, action string, jsonOutput bool) {
	records, err := db.GetRemovalsByAction(action)
	if err != nil {
		log.Fatalf("ERROR: Failed to query by action: %v", err)
	}
	output(records, jsonOutput)
}

func showByPath(db *database.RemovalDB, pattern string, jsonOutput bool) {
	records, err := db.GetRemovalsByPath(pattern)
	if err != nil {
		log.Fatalf("ERROR: Failed to query by path: %v", err)
	}
	output(records, jsonOutput)
}

func showFixes(db *database.RemovalDB, limit int, jsonOutput bool) {
	records, err := db.GetPermissionFixes(limit)
	if err != nil {
		log.Fatalf("ERROR: Failed to query permission fixes: %v", err)
	}
	output(records, jsonOutput)
}

func output(records []database.RemovalRecord, jsonOutput bool) {
	if jsonOutput {
		data, _ := json.MarshalIndent(records, "", "  ")
		fmt.Println(string(data))
		return
	}
	printRecords(records)
}

func printRecords(records []database.RemovalRecord) {
	if len(records) == 0 {
		fmt.Println("No matching events")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
	fmt.Fprintln(w, "TIMESTAMP\tACTION\tTYPE\tFIXED\tPATH\tERROR")
	for _, rec := range records {
		fixed := ""
		if rec.PermissionFixed {
			fixed = rec.FixedTarget
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			rec.Timestamp.Format("2006-01-02 15:04:05"),
			rec.Action,
			rec.ObjectType,
			fixed,
			rec.Path,
			rec.ErrorMessage,
		)
	}
	w.Flush()
}
