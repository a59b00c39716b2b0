package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mementoweb/robustlinks/internal/server"
	"github.com/mementoweb/robustlinks/internal/utils"
	"github.com/mementoweb/robustlinks/pkg/polling"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the audited links database over HTTP",
	Long: `Starts a JSON API over the database: per-domain statistics, audited
links, recent changes, and a memento URI construction endpoint. Requests
are protected with HTTP basic auth when credentials are configured. With
a poll interval, every known document is re-scanned periodically so the
inventory stays current.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		listenAddr, _ := cmd.Flags().GetString("listen")
		pollInterval, _ := cmd.Flags().GetInt("poll-interval")
		username := viper.GetString("server.username")
		password := viper.GetString("server.password")

		db, err := openExistingDB()
		if err != nil {
			return err
		}
		defer db.Close()

		if username == "" || password == "" {
			utils.Log.Warn("server.username/server.password not configured, API is unauthenticated")
		}

		if pollInterval > 0 {
			matcher, err := buildMatcher("")
			if err != nil {
				return err
			}
			go polling.Run(context.Background(), polling.Config{
				DB:      db,
				Matcher: matcher,
				Log:     utils.Log,
			}, time.Duration(pollInterval)*time.Hour)
		}

		utils.Log.Info("listening on ", listenAddr)
		return server.New(db, username, password).Start(listenAddr)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("listen", ":8080", "HTTP listen address")
	serveCmd.Flags().Int("poll-interval", 0, "Hours between document re-scans (0 to disable)")
	serveCmd.Flags().StringVar(&dbPath, "dbpath", "", "Path to SQLite DB file (default: ~/.config/robustlinks/robustlinks.sqlite)")
}
