package main

import (
	"fmt"
	stdmath "math"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/go-highway/fmath/hwy/contrib/math"
)

func hexBits(v float32) string {
	return fmt.Sprintf("0x%08x", stdmath.Float32bits(v))
}

// formatTable lays out values four per line as "value (bits)".
func formatTable(name string, values []float32) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s[%d]:\n", name, len(values))
	cells := lo.Map(values, func(v float32, _ int) string {
		return fmt.Sprintf("%-13.9g (%s)", v, hexBits(v))
	})
	for i, row := range lo.Chunk(cells, 4) {
		fmt.Fprintf(&sb, "  %4d: %s\n", i*4, strings.Join(row, "  "))
	}
	return sb.String()
}

func formatCoefficients(name string, c math.Coefficients) string {
	rounded := lo.Map(c, func(v float64, _ int) float32 { return float32(v) })
	return formatTable(name, rounded)
}

func newTablesCmd() *cobra.Command {
	var (
		bits   int
		degree int
	)
	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Print the log lookup tables and the exp coefficient sets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := math.NewLogTable(bits)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, formatTable("log_tbl1", table.Inv))
			fmt.Fprint(out, formatTable("log_tbl2", table.LogInv))
			fmt.Fprint(out, formatCoefficients("exp_coef_maple", math.ExpCoeffsMaple))
			fmt.Fprint(out, formatCoefficients("exp_coef_sollya", math.ExpCoeffsSollya))
			if degree > 0 {
				fit, err := math.FitExp2(degree)
				if err != nil {
					return err
				}
				fmt.Fprint(out, formatCoefficients(fmt.Sprintf("exp_coef_fit%d", degree), fit))
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&bits, "table-bits", math.DefaultTableBits, "Mantissa bits indexing the log tables")
	cmd.Flags().IntVar(&degree, "fit-degree", 0, "Also print a least-squares fit of 2^x of this degree")
	return cmd
}
