package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/mementoweb/robustlinks/internal/utils"
	"github.com/mementoweb/robustlinks/pkg/datetime"
	"github.com/mementoweb/robustlinks/pkg/rewrite"
)

// rewriteCmd represents the rewrite command
var rewriteCmd = &cobra.Command{
	Use:   "rewrite [file|url|-]",
	Short: "Annotate a document's anchors with robust link attributes",
	Long: `Reads an HTML document from a file, stdin or a URL, writes the canonical
robust link attributes onto every anchor, and optionally points hrefs at
memento URIs. Anchors that already link into a known archive keep their
href. The annotated document goes to stdout or --output.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, source, err := loadDocument(args[0])
		if err != nil {
			return err
		}

		serviceFlag, _ := cmd.Flags().GetString("service")
		service, err := lookupService(serviceFlag)
		if err != nil {
			return err
		}

		exclusionsFlag, _ := cmd.Flags().GetString("exclusions")
		matcher, err := buildMatcher(exclusionsFlag)
		if err != nil {
			return err
		}

		versionDate, _ := cmd.Flags().GetString("versiondate")
		if versionDate == "" {
			versionDate = datetime.FormatDate(time.Now())
		} else if _, err := datetime.Parse(versionDate); err != nil {
			return err
		}

		rewriteHrefs, _ := cmd.Flags().GetBool("rewrite-hrefs")

		res := rewrite.Document(doc, rewrite.Options{
			Service:            service,
			Matcher:            matcher,
			DefaultVersionDate: versionDate,
			RewriteHrefs:       rewriteHrefs,
		})

		for _, p := range res.Problems {
			utils.Log.Warn("skipped anchor ", p.Href, ": ", p.Err)
		}
		for _, d := range res.SnapshotDiags {
			utils.Log.Debug("skipped snapshot token ", d.Token, ": ", d.Reason)
		}
		utils.Log.Info("processed ", source, ": ", res.Annotated, " annotated, ", res.Rewritten, " rewritten, ", len(res.Problems), " skipped")

		html, err := doc.Html()
		if err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("output")
		if output == "" || output == "-" {
			fmt.Print(html)
			return nil
		}
		return os.WriteFile(output, []byte(html), 0644)
	},
}

func init() {
	rootCmd.AddCommand(rewriteCmd)
	rewriteCmd.Flags().StringP("output", "o", "", "Write the annotated document to this file instead of stdout")
	rewriteCmd.Flags().StringP("versiondate", "d", "", "Linking datetime for anchors without data-versiondate, in any accepted encoding (default: today, UTC)")
	rewriteCmd.Flags().StringP("service", "s", "", "Archive service for memento URIs (see 'robustlinks services')")
	rewriteCmd.Flags().StringP("exclusions", "e", "", "Exclusion pattern source: JSON file or URL (default: built-in list)")
	rewriteCmd.Flags().BoolP("rewrite-hrefs", "r", false, "Point hrefs at memento URIs instead of only annotating")
}
