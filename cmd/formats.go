package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/eitanfass/DNA-lab/internal/format"
)

var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List the supported instrument export formats",
	RunE: func(cmd *cobra.Command, _ []string) error {
		formatFormats(os.Stdout, format.NewRegistry())
		return nil
	},
}

func formatFormats(out io.Writer, reg *format.Registry) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "FORMAT\tEXTENSIONS")
	_, _ = fmt.Fprintln(w, "------\t----------")
	for _, f := range reg.All() {
		_, _ = fmt.Fprintf(w, "%s\t%s\n", f.Kind(), strings.Join(f.Extensions(), ", "))
	}
	_ = w.Flush()
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
