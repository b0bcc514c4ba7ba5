package main

import (
	"fmt"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/rangepick/internal/i18n"
	"github.com/terraincognita07/rangepick/internal/services"
	"github.com/terraincognita07/rangepick/internal/tui"
)

func newTUICommand() *cobra.Command {
	var (
		startRaw string
		endRaw   string
		language string
	)

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Pick a range in the terminal and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			location := mustLoadLocation(getEnv("TZ", "UTC"))

			start, err := services.ParseOptionTime(startRaw, location, time.Time{})
			if err != nil {
				return fmt.Errorf("invalid --start: %w", err)
			}
			end, err := services.ParseOptionTime(endRaw, location, time.Time{})
			if err != nil {
				return fmt.Errorf("invalid --end: %w", err)
			}

			picker := services.NewRangePicker(location, nil)
			if err := picker.Create(services.PickerOptions{StartDate: start, EndDate: end}); err != nil {
				return err
			}
			defer picker.Destroy()

			messages := map[string]string{}
			if manager, err := i18n.NewManager(language, filepath.Join("internal", "i18n", "locales")); err == nil {
				language = manager.NormalizeLanguage(language)
				messages = manager.Messages(language)
			}

			final, err := tea.NewProgram(tui.NewModel(picker, language, messages)).Run()
			if err != nil {
				return err
			}
			model, ok := final.(tui.Model)
			if !ok {
				return nil
			}
			if err := model.Err(); err != nil {
				return err
			}
			if event, applied := model.Applied(); applied {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", event.Start.Format(time.RFC3339), event.End.Format(time.RFC3339))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&startRaw, "start", "", "Initial start (RFC 3339 or 2006-01-02)")
	cmd.Flags().StringVar(&endRaw, "end", "", "Initial end (RFC 3339 or 2006-01-02)")
	cmd.Flags().StringVar(&language, "lang", getEnv("DEFAULT_LANGUAGE", "en"), "Label language")
	return cmd
}
