package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ONSdigital/ssdc-rm-form-response-adapter/export"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/models"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/viewer"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var outPath, format string

	cmd := &cobra.Command{
		Use:   "export <form-id>",
		Short: "Export the responses of a demo form",
		Long: `Exports every response of a form. With --out set to a directory the
file is named after the form title, "-" writes to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(format)
			return opts.withDemoViewer(cmd.Context(), func(ctx context.Context, v *viewer.Viewer) error {
				form, responses, err := v.Load(ctx, args[0])
				if err != nil {
					return err
				}
				if outPath == "-" {
					return export.Write(cmd.OutOrStdout(), format, responses)
				}

				path := outPath
				if info, err := os.Stat(outPath); err == nil && info.IsDir() {
					path = filepath.Join(outPath, export.FileName(form.Title, format))
				}
				if err := writeExportFile(path, format, responses); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d responses to %s\n", len(responses), path)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&outPath, "out", ".", "output file or directory, - for stdout")
	cmd.Flags().StringVar(&format, "format", export.FormatCSV, "export format, csv or json")
	return cmd
}

func writeExportFile(path, format string, responses []models.NormalizedResponse) error {
	file, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "error creating export file")
	}
	if err := export.Write(file, format, responses); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	return errors.Wrap(file.Close(), "error closing export file")
}
