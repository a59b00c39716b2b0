package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mementoweb/robustlinks/internal/utils"
	"github.com/mementoweb/robustlinks/pkg/rewrite"
	"github.com/mementoweb/robustlinks/pkg/whttp"
)

// checkCmd represents the check command
var checkCmd = &cobra.Command{
	Use:   "check [file|url|-]",
	Short: "Validate the robust links in a document",
	Long: `Parses every anchor of a document against the robust links convention and
reports the ones that do not assemble into a valid record. The document is
never modified. With --liveness, each valid link's href is also probed with
a HEAD request to spot rotten targets.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, source, err := loadDocument(args[0])
		if err != nil {
			return err
		}

		records, diags, problems := rewrite.ExtractRecords(doc)

		for _, rec := range records {
			fmt.Printf("ok    %s (versiondate %s, %d snapshots)\n",
				rec.Href, rec.Attrs().VersionDate, len(rec.Snapshots))
		}
		for _, d := range diags {
			fmt.Printf("warn  snapshot token %q skipped: %s\n", d.Token, d.Reason)
		}
		for _, p := range problems {
			fmt.Printf("fail  %s: %v\n", p.Href, p.Err)
		}

		liveness, _ := cmd.Flags().GetBool("liveness")
		if liveness {
			client := whttp.NewClient()
			for _, rec := range records {
				status, err := whttp.Status(rec.Href, client)
				if err != nil {
					fmt.Printf("dead  %s: %v\n", rec.Href, err)
					continue
				}
				if status >= 400 {
					fmt.Printf("dead  %s: HTTP %d\n", rec.Href, status)
				} else {
					utils.Log.Debug("alive: ", rec.Href, " HTTP ", status)
				}
			}
		}

		utils.Log.Info("checked ", source, ": ", len(records), " valid, ", len(problems), " failing")
		if len(problems) > 0 {
			return fmt.Errorf("%d anchors failed validation", len(problems))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Bool("liveness", false, "Probe each valid href with a HEAD request")
}
