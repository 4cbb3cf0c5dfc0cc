package cli

import (
	"github.com/spf13/cobra"

	"cotizador/internal/app"
)

var (
	quoteArea     string
	quoteProperty string
	quoteLocation string
	quoteJSON     bool
	optionsJSON   bool
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Calculate a quote without saving it",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Quote(cmd.Context(), quoteOptions())
	},
}

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Calculate a quote and append it to the history",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Save(cmd.Context(), quoteOptions())
	},
}

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "List property types and locations with their codes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Options(cmd.Context(), optionsJSON)
	},
}

func quoteOptions() app.QuoteOptions {
	return app.QuoteOptions{
		Area:     quoteArea,
		Property: quoteProperty,
		Location: quoteLocation,
		JSON:     quoteJSON,
	}
}

func init() {
	for _, cmd := range []*cobra.Command{quoteCmd, saveCmd} {
		cmd.Flags().StringVar(&quoteArea, "area", "", "Area in square metres")
		cmd.Flags().StringVar(&quoteProperty, "property", "", "Property type code or label")
		cmd.Flags().StringVar(&quoteLocation, "location", "", "Location code or label")
		cmd.Flags().BoolVar(&quoteJSON, "json", false, "Print the result as JSON")
	}
	optionsCmd.Flags().BoolVar(&optionsJSON, "json", false, "Print the options as JSON")
}
