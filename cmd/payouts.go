package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"clinic/utils"

	"github.com/spf13/cobra"
)

var payoutsCmd = &cobra.Command{
	Use:   "payouts",
	Short: "Doctor payout operations",
}

var payoutsRecalculateCmd = &cobra.Command{
	Use:   "recalculate",
	Short: "Recalculate doctor payouts from paid transactions",
	RunE:  runPayoutsRecalculate,
}

var payoutsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export doctor payouts to Excel or XML",
	Example: `  # Excel report
  clinic payouts export --format xlsx --output repasses.xlsx

  # XML to stdout
  clinic payouts export --format xml`,
	RunE: runPayoutsExport,
}

func init() {
	rootCmd.AddCommand(payoutsCmd)
	payoutsCmd.AddCommand(payoutsRecalculateCmd, payoutsExportCmd)

	payoutsExportCmd.Flags().String("format", "xlsx", "Report format: xlsx or xml")
	payoutsExportCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
}

func runPayoutsRecalculate(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	start := time.Now()
	payouts, err := a.payouts.Recalculate(cmd.Context())
	utils.LogOperation("recalculate payouts", start, err)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, p := range payouts {
		fmt.Fprintf(out, "%-30s %12s x %-6s = %12s  %s\n",
			p.DoctorName, p.TotalBilled.StringFixed(2), p.PayoutRate.String(), p.PayoutAmount.StringFixed(2), p.Status)
	}
	return nil
}

func runPayoutsExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	if format != "xlsx" && format != "xml" {
		return fmt.Errorf("unsupported format %q, use xlsx or xml", format)
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	var w io.Writer = cmd.OutOrStdout()
	if output != "" {
		file, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("ошибка создания файла: %w", err)
		}
		defer file.Close()
		w = file
	}

	if format == "xml" {
		err = a.payouts.ExportXML(cmd.Context(), w)
	} else {
		err = a.payouts.ExportXLSX(cmd.Context(), w)
	}
	if err != nil {
		return err
	}

	utils.WithComponent("payouts").Info().Str("format", format).Str("output", output).Msg("payouts exported")
	return nil
}
