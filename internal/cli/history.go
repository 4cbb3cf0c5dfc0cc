package cli

import (
	"github.com/spf13/cobra"

	"cotizador/internal/app"
)

var (
	historyProperty string
	historyLocation string
	historyJSON     bool
	deleteIDs       []string
	clearYes        bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved quotes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().History(cmd.Context(), app.HistoryOptions{
			Property: historyProperty,
			Location: historyLocation,
			JSON:     historyJSON,
		})
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete [fecha...]",
	Short: "Delete the selected quotes by creation timestamp",
	RunE: func(cmd *cobra.Command, args []string) error {
		ids := append(append([]string(nil), deleteIDs...), args...)
		return getApp().Delete(cmd.Context(), ids)
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the whole history",
	RunE: func(cmd *cobra.Command, args []string) error {
		return getApp().Clear(cmd.Context(), app.ClearOptions{Yes: clearYes})
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyProperty, "property", "", "Only show this property type (code or label)")
	historyCmd.Flags().StringVar(&historyLocation, "location", "", "Only show this location (code or label)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "Print the history as JSON")

	deleteCmd.Flags().StringArrayVar(&deleteIDs, "id", nil, "Timestamp of a quote to delete (repeatable)")

	clearCmd.Flags().BoolVarP(&clearYes, "yes", "y", false, "Skip the confirmation prompt")
}
