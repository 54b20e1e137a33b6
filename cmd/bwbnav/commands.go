package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/coolbeans/bwbnav/pkg/bwb"
	"github.com/coolbeans/bwbnav/pkg/catalog"
	"github.com/coolbeans/bwbnav/pkg/navigation"
)

func catalogCmd(application *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the regulations in the catalog",
		Long: `List the regulations in the catalog.

With --watch, the catalog file is reloaded and listed again whenever it
changes, until interrupted.

Example:
  bwbnav catalog
  bwbnav catalog --catalog regelingen.yaml --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			watch, _ := cmd.Flags().GetBool("watch")
			out := cmd.OutOrStdout()

			printCatalog(out, application.catalog.Entries())
			if !watch {
				return nil
			}

			watcher, err := catalog.Watch(application.catalog, application.config.CatalogFile, func(entries []catalog.Entry, err error) {
				if err != nil {
					application.logger.Warn("catalog reload failed, keeping previous entries", "error", err)
					return
				}
				application.logger.Info("catalog reloaded", "entries", len(entries))
				printCatalog(out, entries)
			})
			if err != nil {
				return fmt.Errorf("failed to watch catalog: %w", err)
			}
			defer watcher.Stop()

			<-cmd.Context().Done()
			return nil
		},
	}

	cmd.Flags().Bool("watch", false, "reload and list again when the catalog file changes")
	return cmd
}

func resolveCmd(application *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <identifier|description>",
		Short: "Resolve a regulation to its latest version",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			identifier := application.identifierFor(args[0])

			resolution, err := application.client.Resolve(cmd.Context(), identifier)
			if err != nil {
				application.logger.Error("failed to resolve", "identifier", identifier, "error", err)
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, resolution)
			}
			fmt.Fprintf(out, "Identifier:      %s\n", resolution.Identifier)
			fmt.Fprintf(out, "Manifest URL:    %s\n", resolution.ManifestLocation)
			fmt.Fprintf(out, "Latest item URL: %s\n", resolution.ContentLocation)
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "print the resolution as JSON")
	return cmd
}

func outlineCmd(application *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "outline <identifier|description>",
		Short: "Show the chapter outline of a regulation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")
			chapterPosition, _ := cmd.Flags().GetInt("chapter")

			document, err := application.loadDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if chapterPosition >= 0 {
				chapter, found := document.Outline.ChapterAt(chapterPosition)
				if !found {
					return fmt.Errorf("chapter %d not found: outline has %d chapters", chapterPosition, document.Outline.Len())
				}
				if asJSON {
					return writeJSON(out, chapter)
				}
				printChapter(out, chapter)
				return nil
			}

			if asJSON {
				return writeJSON(out, document)
			}
			printOutline(out, document.Outline)
			return nil
		},
	}

	cmd.Flags().Bool("json", false, "print the document and outline as JSON")
	cmd.Flags().Int("chapter", -1, "only show the chapter at this zero-based position")
	return cmd
}

func pagesCmd(application *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pages <identifier|description>",
		Short: "List the navigation pages of a regulation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chapterPosition, _ := cmd.Flags().GetInt("chapter")

			document, err := application.loadDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			index := navigation.NewIndex(document.Outline)
			pages := index.Pages()
			if chapterPosition >= 0 {
				pages = index.ChapterPages(chapterPosition)
				if pages == nil {
					return fmt.Errorf("chapter %d not found: outline has %d chapters", chapterPosition, document.Outline.Len())
				}
			}

			out := cmd.OutOrStdout()
			for _, page := range pages {
				indent := ""
				if !page.IsChapter() {
					indent = "  "
				}
				fmt.Fprintf(out, "%-10s %s%s\n", page.Key, indent, page.Title)
			}
			return nil
		},
	}

	cmd.Flags().Int("chapter", -1, "only list the pages of the chapter at this zero-based position")
	return cmd
}

func showCmd(application *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <identifier|description>",
		Short: "Show one navigation page and its neighbours",
		Long: `Show one navigation page and its neighbours.

Page keys come from the pages command. Without --page the first page is shown.

Example:
  bwbnav show BWBR0044767 --page c1/a0`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pageKey, _ := cmd.Flags().GetString("page")

			document, err := application.loadDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			index := navigation.NewIndex(document.Outline)

			var selection navigation.Selection
			if pageKey != "" {
				selection, err = navigation.Select(index, navigation.PageKey(pageKey))
				if err != nil {
					return err
				}
			}

			page, found := selection.Current(index)
			if !found {
				fmt.Fprintln(cmd.OutOrStdout(), "Geen hoofdstukken of subheaders gevonden.")
				return nil
			}
			printPage(cmd.OutOrStdout(), index, page)
			return nil
		},
	}

	cmd.Flags().String("page", "", "page key to show")
	return cmd
}

func printCatalog(out io.Writer, entries []catalog.Entry) {
	for _, entry := range entries {
		fmt.Fprintf(out, "%-14s %s\n", entry.Identifier, entry.Description)
	}
}

func printOutline(out io.Writer, outline *bwb.Outline) {
	if outline.Len() == 0 {
		fmt.Fprintln(out, "Geen hoofdstukken of subheaders gevonden.")
		return
	}
	for _, chapter := range outline.Chapters() {
		printChapter(out, chapter)
	}
}

func printChapter(out io.Writer, chapter bwb.OutlineNode) {
	fmt.Fprintln(out, chapter.Title)
	for _, child := range chapter.Children {
		fmt.Fprintf(out, "  - %s\n", child)
	}
}

func printPage(out io.Writer, index *navigation.Index, page navigation.Page) {
	fmt.Fprintf(out, "[%s] %s\n", page.Key, page.Title)
	if !page.IsChapter() {
		fmt.Fprintf(out, "Chapter: %s\n", page.ChapterTitle)
	}

	current := navigation.Selection{Key: page.Key}
	if previous := current.Prev(index); previous.Key != page.Key {
		fmt.Fprintf(out, "Previous: %s\n", previous.Key)
	}
	if next := current.Next(index); next.Key != page.Key {
		fmt.Fprintf(out, "Next: %s\n", next.Key)
	}
}

func writeJSON(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
