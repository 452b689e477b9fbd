package root

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"

	"sunrise/internal/engine"
	"sunrise/internal/ui"
)

func newBookCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "book",
		Short: "Books outside the reading plan, and plan book uploads",
	}
	cmd.AddCommand(
		newBookAddCmd(),
		newBookListCmd(),
		newBookProgressCmd(),
		newBookRmCmd(),
		newBookUploadCmd(),
		newBookExportCmd(),
	)
	return cmd
}

func newBookAddCmd() *cobra.Command {
	var (
		author string
		pages  int
		file   string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Track a book of your own",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("title is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			in := engine.AddBookInput{Title: args[0], Author: author, Pages: pages}
			if file != "" {
				data, err := os.ReadFile(file)
				if err != nil {
					return err
				}
				in.Content = data
			}
			return withService(cmd, func(ctx context.Context, svc *engine.Service) error {
				res, err := svc.AddCustomBook(ctx, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.IconPlus, ui.Good.Render("Added"), ui.Muted.Render("["+res.ID+"]"))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&author, "author", "", "book author")
	cmd.Flags().IntVar(&pages, "pages", 0, "number of pages")
	cmd.Flags().StringVar(&file, "file", "", "attach the book's file")
	_ = cmd.MarkFlagRequired("pages")
	return cmd
}

func newBookListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your books",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, svc *engine.Service) error {
				snap := svc.Snapshot()
				if len(snap.CustomBooks) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("(no books)"))
				}
				for _, b := range snap.CustomBooks {
					attached := ""
					if b.Content != "" {
						attached = " 📎"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s by %s, %d/%d (%d%%)%s %s\n",
						ui.IconBook, ui.Key.Render(b.Title), b.Author, b.CurrentPage, b.Pages, engine.CustomBookPercentage(b), attached, ui.Muted.Render("["+b.ID+"]"))
				}
				if len(snap.PlanBookContent) > 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "")
					fmt.Fprintln(cmd.OutOrStdout(), ui.H2.Render("Uploaded plan books"))
					for _, title := range slices.Sorted(maps.Keys(snap.PlanBookContent)) {
						fmt.Fprintf(cmd.OutOrStdout(), "- %s\n", title)
					}
				}
				return nil
			})
		},
	}
}

func newBookProgressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress <id> <page>",
		Short: "Set the page reached in one of your books",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("book id and page are required")
			}
			if _, err := strconv.Atoi(args[1]); err != nil {
				return errors.New("page must be an integer")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			page, _ := strconv.Atoi(args[1])
			return withService(cmd, func(ctx context.Context, svc *engine.Service) error {
				if _, ok := svc.Snapshot().Book(args[0]); !ok {
					return fmt.Errorf("no book with id %q", args[0])
				}
				if err := svc.UpdateCustomBookProgress(ctx, args[0], page); err != nil {
					return err
				}
				b, _ := svc.Snapshot().Book(args[0])
				fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue(b.Title, fmt.Sprintf("page %d/%d (%d%%)", b.CurrentPage, b.Pages, engine.CustomBookPercentage(*b))))
				return nil
			})
		},
	}
}

func newBookRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Stop tracking one of your books",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, svc *engine.Service) error {
				if _, ok := svc.Snapshot().Book(args[0]); !ok {
					return fmt.Errorf("no book with id %q", args[0])
				}
				if err := svc.RemoveCustomBook(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render("Removed."))
				return nil
			})
		},
	}
}

func newBookUploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload <title> <file>",
		Short: "Attach a file to a plan book",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			return withService(cmd, func(ctx context.Context, svc *engine.Service) error {
				if err := svc.UploadBookForPlan(ctx, args[0], data); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.IconBook, ui.Good.Render(fmt.Sprintf("Stored %d bytes for %s", len(data), args[0])))
				return nil
			})
		},
	}
}

// newBookExportCmd writes the content attached to a custom book (by id) or a
// plan book (by title) to a file.
func newBookExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <id|title> <file>",
		Short: "Write an attached book file back to disk",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withService(cmd, func(ctx context.Context, svc *engine.Service) error {
				snap := svc.Snapshot()
				ref := snap.PlanBookContent[norm.NFC.String(strings.TrimSpace(args[0]))]
				if b, ok := snap.Book(args[0]); ok {
					ref = b.Content
				}
				if ref == "" {
					return fmt.Errorf("no file attached to %q", args[0])
				}
				data, err := svc.Content(ctx, ref)
				if err != nil {
					return err
				}
				if data == nil {
					return fmt.Errorf("content for %q is missing from the database", args[0])
				}
				if err := os.WriteFile(args[1], data, 0o644); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(fmt.Sprintf("Wrote %d bytes to %s", len(data), args[1])))
				return nil
			})
		},
	}
}
