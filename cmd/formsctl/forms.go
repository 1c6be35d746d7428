package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/ONSdigital/ssdc-rm-form-response-adapter/models"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/viewer"
	"github.com/spf13/cobra"
)

func newFormsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forms",
		Short: "Manage forms in the demo store",
	}
	cmd.AddCommand(newFormsListCmd(opts), newFormsCreateCmd(opts), newFormsDeleteCmd(opts))
	return cmd
}

func newFormsListCmd(opts *rootOptions) *cobra.Command {
	var search, sortBy, order string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List forms with their response counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			listOpts, err := viewer.ParseFormListOptions(search, sortBy, order)
			if err != nil {
				return err
			}
			return opts.withDemoViewer(cmd.Context(), func(ctx context.Context, v *viewer.Viewer) error {
				summaries, err := v.ListForms(ctx, listOpts)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(w, "ID\tTITLE\tRESPONSES\tCREATED\tMODIFIED")
				for _, s := range summaries {
					fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n", s.ID, s.Title, s.ResponseCount,
						s.CreatedTime.Format("2006-01-02"), s.ModifiedTime.Format("2006-01-02"))
				}
				return w.Flush()
			})
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "only forms whose title or description contains this")
	cmd.Flags().StringVar(&sortBy, "sort", string(viewer.SortByModified), "name, created, modified or responses")
	cmd.Flags().StringVar(&order, "order", string(viewer.Descending), "asc or desc")
	return cmd
}

func newFormsDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <form-id>",
		Short: "Delete a form and its responses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withDemoViewer(cmd.Context(), func(ctx context.Context, v *viewer.Viewer) error {
				if err := v.Source.DeleteForm(ctx, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func newFormsCreateCmd(opts *rootOptions) *cobra.Command {
	var definitionPath string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a form from a YAML definition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := models.LoadFormDefinition(definitionPath)
			if err != nil {
				return err
			}
			return opts.withDemoViewer(cmd.Context(), func(ctx context.Context, v *viewer.Viewer) error {
				created, err := v.Source.CreateForm(ctx, *def)
				if err != nil {
					return err
				}
				form, err := models.ParseForm(created)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s with %d questions\n", form.ID, len(form.Questions))
				fmt.Fprintf(cmd.OutOrStdout(), "Published: %s\nEdit: %s\n", form.PublishedURL, form.EditURL)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&definitionPath, "definition", "", "form definition YAML file")
	_ = cmd.MarkFlagRequired("definition")
	return cmd
}
