package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/haukened/discourse-new-tab/internal/dnt/domain"
)

func newListsCommand(app *Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lists",
		Short: "Manage the whitelist and the blacklist",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show [white|black]",
			Short: "Print one or both lists",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				kinds := []domain.ListKind{domain.Whitelist, domain.Blacklist}
				if len(args) == 1 {
					kind, err := domain.ParseListKind(args[0])
					if err != nil {
						return err
					}
					kinds = []domain.ListKind{kind}
				}
				for _, kind := range kinds {
					list, err := app.lists.List(cmd.Context(), kind)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", kind, strings.Join(list, " "))
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "add white|black DOMAIN",
			Short: "Add a domain; subdomains match too",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				kind, err := domain.ParseListKind(args[0])
				if err != nil {
					return err
				}
				added, list, err := app.lists.Add(cmd.Context(), kind, args[1])
				if err != nil {
					return err
				}
				if !added {
					fmt.Fprintf(cmd.OutOrStdout(), "%s already listed\n", args[1])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", kind, strings.Join(list, " "))
				return nil
			},
		},
		&cobra.Command{
			Use:   "remove white|black DOMAIN",
			Short: "Remove a domain",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				kind, err := domain.ParseListKind(args[0])
				if err != nil {
					return err
				}
				removed, list, err := app.lists.Remove(cmd.Context(), kind, args[1])
				if err != nil {
					return err
				}
				if !removed {
					fmt.Fprintf(cmd.OutOrStdout(), "%s not listed\n", args[1])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", kind, strings.Join(list, " "))
				return nil
			},
		},
		&cobra.Command{
			Use:   "import white|black FILE",
			Short: "Add every domain of a newline separated file (- reads stdin)",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				kind, err := domain.ParseListKind(args[0])
				if err != nil {
					return err
				}
				var src io.Reader = cmd.InOrStdin()
				if args[1] != "-" {
					fh, err := os.Open(args[1])
					if err != nil {
						return fmt.Errorf("failed to open list: %w", err)
					}
					defer fh.Close()
					src = fh
				}
				n, list, err := app.lists.Import(cmd.Context(), kind, src)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d new entries, %s has %d\n", n, kind, len(list))
				return nil
			},
		},
	)
	return cmd
}
