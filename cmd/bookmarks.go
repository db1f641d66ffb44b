package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/candidate-sourcing/internal/bookmarks"
	"github.com/spigell/candidate-sourcing/internal/export"
)

var bookmarksCmd = &cobra.Command{
	Use:   "bookmarks",
	Short: "Inspect and export saved candidates",
}

var bookmarksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookmarks, newest first",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApplication(context.Background())
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		tags, _ := cmd.Flags().GetStringSlice("tag")
		query, _ := cmd.Flags().GetString("query")

		list, err := a.store.List(bookmarks.ListOptions{Tags: tags, Query: query})
		if err != nil {
			return err
		}

		out, err := export.Bookmarks(export.FormatJSON, list)
		if err != nil {
			return err
		}

		fmt.Println(out)
		return nil
	},
}

var bookmarksTagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "Print every tag in use",
	RunE: func(_ *cobra.Command, _ []string) error {
		a, err := newApplication(context.Background())
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		tags, err := a.store.Tags()
		if err != nil {
			return err
		}

		for _, tag := range tags {
			fmt.Println(tag)
		}
		return nil
	},
}

var bookmarksExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export bookmarks as JSON or CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApplication(context.Background())
		if err != nil {
			return err
		}
		defer a.logger.Sync()

		rawFormat, _ := cmd.Flags().GetString("format")
		tags, _ := cmd.Flags().GetStringSlice("tag")
		output, _ := cmd.Flags().GetString("output")

		format, err := export.ParseFormat(rawFormat)
		if err != nil {
			return err
		}

		list, err := a.store.List(bookmarks.ListOptions{Tags: tags})
		if err != nil {
			return err
		}

		data, err := export.Bookmarks(format, list)
		if err != nil {
			return err
		}

		if output == "" {
			fmt.Println(data)
			return nil
		}

		if err := os.WriteFile(output, []byte(data), 0o644); err != nil {
			return fmt.Errorf("writing export: %w", err)
		}

		a.logger.Info("bookmarks exported", zap.Int("count", len(list)), zap.String("format", string(format)), zap.String("file", output))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(bookmarksCmd)
	bookmarksCmd.AddCommand(bookmarksListCmd, bookmarksTagsCmd, bookmarksExportCmd)

	bookmarksListCmd.Flags().StringSlice("tag", nil, "only bookmarks with any of these tags")
	bookmarksListCmd.Flags().StringP("query", "q", "", "case-insensitive search over name, title, company, headline, notes, skills and tags")

	bookmarksExportCmd.Flags().StringP("format", "f", "csv", "export format: json or csv")
	bookmarksExportCmd.Flags().StringSlice("tag", nil, "only bookmarks with any of these tags")
	bookmarksExportCmd.Flags().StringP("output", "o", "", "write to this file instead of stdout")
}
