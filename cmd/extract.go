package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mementoweb/robustlinks/internal/utils"
	"github.com/mementoweb/robustlinks/pkg/rewrite"
	"github.com/mementoweb/robustlinks/pkg/robustlink"
	"github.com/mementoweb/robustlinks/pkg/snapshot"
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract [file|url|-]",
	Short: "Extract robust link records from a document",
	Long: `Pulls every valid robust link record out of a document and prints one
line per record. The printed columns are chosen with --output: a string of
single-letter flags concatenated in the order you want them.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, source, err := loadDocument(args[0])
		if err != nil {
			return err
		}

		outputFlags, _ := cmd.Flags().GetString("output")
		delimiter, _ := cmd.Flags().GetString("delimiter")

		records, diags, problems := rewrite.ExtractRecords(doc)

		for _, rec := range records {
			line, err := recordLine(rec, outputFlags, delimiter)
			if err != nil {
				return err
			}
			if len(line) > 0 {
				fmt.Println(line)
			}
		}

		for _, d := range diags {
			utils.Log.Debug("skipped snapshot token ", d.Token, ": ", d.Reason)
		}
		for _, p := range problems {
			utils.Log.Debug("skipped anchor ", p.Href, ": ", p.Err)
		}
		utils.Log.Debug("extracted ", len(records), " records from ", source)

		return nil
	},
}

func recordLine(rec *robustlink.Record, outputFlags, delimiter string) (string, error) {
	attrs := rec.Attrs()

	var line string
	for _, f := range outputFlags {
		switch f {
		case 'h':
			line += rec.Href + delimiter
		case 'o':
			line += rec.OriginalURL + delimiter
		case 'd':
			line += attrs.VersionDate + delimiter
		case 's':
			line += snapshot.FormatList(rec.Snapshots) + delimiter
		case 'n':
			line += fmt.Sprintf("%d", len(rec.Snapshots)) + delimiter
		case 't':
			line += rec.LinkText + delimiter
		default:
			return "", fmt.Errorf("invalid output flag %q (available: h, o, d, s, n, t)", string(f))
		}
	}
	return strings.TrimSuffix(line, delimiter), nil
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringP("output", "o", "hod", "Output flags: h (href), o (original URL), d (version date), s (snapshots), n (snapshot count), t (link text)")
	extractCmd.Flags().StringP("delimiter", "D", " ", "Delimiter between output columns")
}
