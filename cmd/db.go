package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mementoweb/robustlinks/internal/utils"
	"github.com/mementoweb/robustlinks/pkg/polling"
	"github.com/mementoweb/robustlinks/pkg/storage"
	"github.com/mementoweb/robustlinks/pkg/urival"
)

var dbPath string

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Interact with the robustlinks database",
}

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan [file|url|-]",
	Short: "Audit a document's links and record them in the database",
	Long: `Extracts every anchor from a document, records valid robust links and
assembly failures in the database, and reports what changed since the
last scan of the same document.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, source, err := loadDocument(args[0])
		if err != nil {
			return err
		}

		exclusionsFlag, _ := cmd.Flags().GetString("exclusions")
		matcher, err := buildMatcher(exclusionsFlag)
		if err != nil {
			return err
		}

		documentURL := source
		if urival.IsAbsoluteHTTPURL(source) {
			documentURL = storage.NormalizeDocumentURL(source)
		}

		path, err := utils.GetAbsDBPath(dbPath)
		if err != nil {
			return err
		}

		lock, err := utils.NewDBLock(path)
		if err != nil {
			return err
		}
		if err := lock.Lock(); err != nil {
			return err
		}
		defer lock.Unlock()

		db, err := storage.Open(path)
		if err != nil {
			return err
		}
		defer db.Close()

		changes, n, err := polling.ScanDocument(context.Background(), db, documentURL, doc, matcher)
		if err != nil {
			return err
		}

		var added, updated, removed int
		for _, c := range changes {
			switch c.ChangeType {
			case "added":
				added++
			case "updated":
				updated++
			case "removed":
				removed++
			}
		}
		fmt.Printf("scanned %s: %d links (%d added, %d updated, %d removed)\n",
			documentURL, n, added, updated, removed)
		return nil
	},
}

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List audited links from the database",
	RunE: func(cmd *cobra.Command, _ []string) error {
		filter, _ := cmd.Flags().GetString("filter")
		onlyProblems, _ := cmd.Flags().GetBool("problems")
		sinceStr, _ := cmd.Flags().GetString("since")

		opts := storage.ListOptions{DocumentFilter: filter, OnlyProblems: onlyProblems}
		if sinceStr != "" {
			d, err := time.ParseDuration(sinceStr)
			if err != nil {
				return fmt.Errorf("invalid --since duration: %w", err)
			}
			opts.Since = time.Now().Add(-d)
		}

		db, err := openExistingDB()
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := db.ListEntries(context.Background(), opts)
		if err != nil {
			return err
		}
		for _, e := range entries {
			if !e.Valid {
				fmt.Printf("%s  %s  INVALID: %s\n", e.DocumentURL, e.Href, e.Problem)
				continue
			}
			fmt.Printf("%s  %s  versiondate=%s snapshots=%d archived=%t\n",
				e.DocumentURL, e.Href, e.VersionDate, e.SnapshotCount, e.IsArchived)
		}
		return nil
	},
}

// dbStatsCmd represents the stats command
var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Prints statistics about the audited links in the database.",
	Long:  "Prints statistics about the audited links in the database.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		db, err := openExistingDB()
		if err != nil {
			return err
		}
		defer db.Close()

		stats, err := db.GetStats(context.Background())
		if err != nil {
			return err
		}

		if len(stats) == 0 {
			fmt.Println("No data in the database to generate stats.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', tabwriter.AlignRight)
		fmt.Fprintln(w, "DOMAIN\tLINKS\tVALID\tARCHIVED\t")

		var totalLinks, totalValid, totalArchived int
		for _, s := range stats {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t\n", s.RootDomain, s.LinkCount, s.ValidCount, s.ArchivedCount)
			totalLinks += s.LinkCount
			totalValid += s.ValidCount
			totalArchived += s.ArchivedCount
		}

		fmt.Fprintln(w, " \t \t \t \t")
		fmt.Fprintf(w, "TOTAL\t%d\t%d\t%d\t\n", totalLinks, totalValid, totalArchived)

		w.Flush()

		return nil
	},
}

// dbChangesCmd represents the changes command
var dbChangesCmd = &cobra.Command{
	Use:   "changes",
	Short: "Show recent link changes (default 50)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		db, err := openExistingDB()
		if err != nil {
			return err
		}
		defer db.Close()

		changes, err := db.ListRecentChanges(context.Background(), limit)
		if err != nil {
			return err
		}
		for _, c := range changes {
			ts := c.OccurredAt.Format("2006-01-02 15:04:05")
			fmt.Printf("%s  %-7s  %s  %s\n", ts, c.ChangeType, c.DocumentURL, c.Href)
		}
		return nil
	},
}

// shellCmd represents the shell command
var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive shell to the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := utils.GetAbsDBPath(dbPath)
		if err != nil {
			return err
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("database file not found: %s", path)
		}

		// Check if sqlite3 is in PATH
		sqlitePath, err := exec.LookPath("sqlite3")
		if err != nil {
			return fmt.Errorf("sqlite3 command not found in your PATH. Please install it to use the db shell")
		}

		// Print schema first
		fmt.Println("--> Database schema:")
		schemaCmd := exec.Command(sqlitePath, path, ".schema")
		schemaCmd.Stdout = os.Stdout
		schemaCmd.Stderr = os.Stderr
		if err := schemaCmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: couldn't retrieve schema: %v\n", err)
		}
		fmt.Println("\n--> Starting interactive shell... (Ctrl+D to exit)")

		c := exec.Command(sqlitePath, path)
		c.Stdin = os.Stdin
		c.Stdout = os.Stdout
		c.Stderr = os.Stderr

		return c.Run()
	},
}

func openExistingDB() (*storage.DB, error) {
	path, err := utils.GetAbsDBPath(dbPath)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("database file not found: %s", path)
	}
	return storage.Open(path)
}

func init() {
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(scanCmd)
	dbCmd.AddCommand(listCmd)
	dbCmd.AddCommand(dbStatsCmd)
	dbCmd.AddCommand(dbChangesCmd)
	dbCmd.AddCommand(shellCmd)
	dbCmd.PersistentFlags().StringVar(&dbPath, "dbpath", "", "Path to SQLite DB file (default: ~/.config/robustlinks/robustlinks.sqlite)")

	scanCmd.Flags().StringP("exclusions", "e", "", "Exclusion pattern source: JSON file or URL (default: built-in list)")
	listCmd.Flags().String("filter", "", "Only show links from documents whose URL contains this substring")
	listCmd.Flags().Bool("problems", false, "Only show links that failed validation")
	listCmd.Flags().String("since", "", "Only show links seen within this duration (e.g. 24h)")
	dbChangesCmd.Flags().Int("limit", 50, "Number of recent changes to show")
}
