package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/evobandits/gmab/bench"
)

var functionsCmd = &cobra.Command{
	Use:   "functions",
	Short: "List the built-in benchmark objectives",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tDESCRIPTION")
		for _, name := range bench.Names() {
			f, _ := bench.Lookup(name)
			fmt.Fprintf(w, "%s\t%s\n", f.Name, f.Description)
		}
		return w.Flush()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the gmab version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("gmab " + version)
	},
}
