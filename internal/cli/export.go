package cli

import (
	"github.com/spf13/cobra"

	"cotizador/internal/app"
)

var (
	exportIDs []string
	exportDir string
	exportPDF bool
	exportCSV bool
	exportPNG bool
)

var exportCmd = &cobra.Command{
	Use:   "export [fecha...]",
	Short: "Export the selected quotes as PDF, CSV and/or PNG chart",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Export(cmd.Context(), app.ExportOptions{
			IDs: append(append([]string(nil), exportIDs...), args...),
			Dir: exportDir,
			PDF: exportPDF,
			CSV: exportCSV,
			PNG: exportPNG,
		})
	},
}

func init() {
	exportCmd.Flags().StringArrayVar(&exportIDs, "id", nil, "Timestamp of a quote to export (repeatable)")
	exportCmd.Flags().StringVar(&exportDir, "dir", "", "Output directory (defaults to config)")
	exportCmd.Flags().BoolVar(&exportPDF, "pdf", false, "Write the PDF table (default when no format is chosen)")
	exportCmd.Flags().BoolVar(&exportCSV, "csv", false, "Write a CSV file")
	exportCmd.Flags().BoolVar(&exportPNG, "png", false, "Write a PNG bar chart")
}
