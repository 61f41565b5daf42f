package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	dombatch "github.com/kailas-cloud/resumerank/internal/domain/batch"
	"github.com/kailas-cloud/resumerank/internal/repository/filesource"
	candidateuc "github.com/kailas-cloud/resumerank/internal/usecase/candidate"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Embed and store every resume file in a directory",
	Long: "Reads plain-text resumes from a directory, embeds them and stores them keyed by file name. " +
		"Files whose name is already stored are skipped.",
	RunE: runIngest,
}

var ingestDir string

func init() {
	ingestCmd.Flags().StringVarP(&ingestDir, "dir", "d", "", "Directory to ingest (defaults to ingest.dir)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	cfg, logger := &app.cfg, app.logger
	dir := ingestDir
	if dir == "" {
		dir = cfg.Ingest.Dir
	}
	if dir == "" {
		return fmt.Errorf("no directory: pass --dir or set ingest.dir")
	}

	ctx := cmd.Context()
	docs, err := filesource.New(dir, cfg.Ingest.Extensions, cfg.Ingest.MaxTextBytes, logger).Documents(ctx)
	if err != nil {
		return fmt.Errorf("read %s: %w", dir, err)
	}
	if len(docs) == 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "No resumes found in %s\n", dir)
		return nil
	}

	svc, err := buildServices(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer svc.store.Close()

	items := make([]candidateuc.Item, len(docs))
	for i, d := range docs {
		items[i] = candidateuc.Item{ID: d.ID, Text: d.Text}
	}

	results := svc.candidates.IngestBatch(ctx, items)
	if err := writeBatchTable(cmd.OutOrStdout(), results); err != nil {
		return err
	}

	ok, skipped, failed := dombatch.Counts(results)
	logger.Info("Ingestion finished",
		zap.String("dir", dir),
		zap.Int("ingested", ok),
		zap.Int("skipped", skipped),
		zap.Int("failed", failed),
	)
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d resumes failed\n", failed, len(results))
		return fmt.Errorf("ingestion incomplete: %d failed", failed)
	}
	return nil
}
