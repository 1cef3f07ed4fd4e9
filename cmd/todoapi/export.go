package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"todoapi/internal/blob"
	"todoapi/internal/core"
	"todoapi/internal/export"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Write one snapshot of the configured repository to blob storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := a.load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			store, err := blob.Open(ctx, cfg.Blob)
			if err != nil {
				return err
			}
			repo, closeRepo, err := core.OpenRepository(ctx, cfg.Storage)
			if err != nil {
				return err
			}
			defer func() { _ = closeRepo() }()

			svc := core.NewService(repo, core.WithLogger(logger), core.WithTracer(a.tracer()))
			info, err := export.NewExporter(svc, store).Export(ctx)
			if err != nil {
				return err
			}
			logger.Info("export written", "key", info.Key, "driver", string(store.Driver()))
			enc := json.NewEncoder(a.stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		},
	}
}
