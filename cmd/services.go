package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mementoweb/robustlinks/pkg/archives"
)

// servicesCmd represents the services command
var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "List the known archive services",
	RunE: func(_ *cobra.Command, _ []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "NAME\tTIMEGATE\tTEMPLATE\t")
		for _, name := range archives.Names() {
			svc, err := archives.Lookup(name)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t\n", svc.Name, svc.TimeGateBase, svc.Template)
		}
		w.Flush()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(servicesCmd)
}
