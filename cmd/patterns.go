package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mementoweb/robustlinks/pkg/archives"
	"github.com/mementoweb/robustlinks/pkg/exclusion"
	"github.com/mementoweb/robustlinks/pkg/urival"
)

// patternsCmd represents the patterns command
var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Show the archive-exclusion patterns in effect",
	Long: `Prints the exclusion patterns that decide whether an anchor's href
already points into a web archive. With --match, tests a URL against the
patterns instead of printing them.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		source, _ := cmd.Flags().GetString("exclusions")
		matchURL, _ := cmd.Flags().GetString("match")

		patterns, err := loadPatterns(source)
		if err != nil {
			return err
		}

		if matchURL != "" {
			m, err := exclusion.Compile(patterns)
			if err != nil {
				return err
			}
			fmt.Printf("%s: known archive = %t\n", matchURL, m.IsKnownArchive(matchURL))
			return nil
		}

		for _, p := range patterns {
			fmt.Println(p)
		}
		return nil
	},
}

func loadPatterns(source string) ([]string, error) {
	if source == "" {
		return archives.DefaultExclusionPatterns(), nil
	}
	if urival.IsAbsoluteHTTPURL(source) {
		return exclusion.FetchPatterns(source)
	}
	return exclusion.LoadPatternsFile(source)
}

func init() {
	rootCmd.AddCommand(patternsCmd)
	patternsCmd.Flags().StringP("exclusions", "e", "", "Exclusion pattern source: JSON file or URL (default: built-in list)")
	patternsCmd.Flags().StringP("match", "m", "", "Test this URL against the patterns instead of printing them")
}
