package main

import (
	"context"
	"time"

	"github.com/ONSdigital/ssdc-rm-form-response-adapter/config"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/logger"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/reconciler"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/source"
	"github.com/ONSdigital/ssdc-rm-form-response-adapter/viewer"
	"github.com/spf13/cobra"
)

const defaultDemoDbPath = "/tmp/form-response-adapter/demo.db"

type rootOptions struct {
	dbPath     string
	expiryDays int
	logLevel   string
	now        func() time.Time
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{now: time.Now}

	cmd := &cobra.Command{
		Use:          "formsctl",
		Short:        "Reconcile intake form responses and flag expiring IDs",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logger.ConfigureStderrLogger(&config.Configuration{LogLevel: opts.logLevel})
		},
	}
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", defaultDemoDbPath, "path of the demo form store")
	cmd.PersistentFlags().IntVar(&opts.expiryDays, "expiry-days", reconciler.DefaultExpiryDays, "days ahead an ID expiry is flagged")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "ERROR", "log level")

	cmd.AddCommand(newReconcileCmd(opts), newFormsCmd(opts), newExportCmd(opts))
	return cmd
}

func (o *rootOptions) reconciler() *reconciler.Reconciler {
	r := reconciler.New(reconciler.NewExpiryPolicy(o.expiryDays, false))
	r.Now = o.now
	return r
}

// withDemoViewer opens the demo store for the duration of fn.
func (o *rootOptions) withDemoViewer(ctx context.Context, fn func(context.Context, *viewer.Viewer) error) error {
	demo, err := source.NewDemo(o.dbPath)
	if err != nil {
		return err
	}
	defer demo.Close()
	demo.Now = o.now
	return fn(ctx, viewer.New(demo, o.reconciler()))
}
