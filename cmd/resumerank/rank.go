package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/resumerank/internal/domain/ranking/request"
	"github.com/kailas-cloud/resumerank/internal/domain/ranking/weight"
	"github.com/kailas-cloud/resumerank/internal/repository/snapshot"
	rankinguc "github.com/kailas-cloud/resumerank/internal/usecase/ranking"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank stored resumes against a job description",
	RunE:  runRank,
}

var (
	rankJD             string
	rankJDFile         string
	rankRequirements   string
	rankKeywordWeight  float64
	rankSemanticWeight float64
	rankLimit          int
	rankJSON           bool
)

func init() {
	rankCmd.Flags().StringVar(&rankJD, "jd", "", "Job description text")
	rankCmd.Flags().StringVar(&rankJDFile, "jd-file", "", "Read the job description from a file")
	rankCmd.Flags().StringVarP(&rankRequirements, "requirements", "r", "", "Comma-separated required phrases")
	rankCmd.Flags().Float64Var(&rankKeywordWeight, "keyword-weight", 0, "Keyword weight (defaults to ranking.keyword_weight)")
	rankCmd.Flags().Float64Var(&rankSemanticWeight, "semantic-weight", 0, "Semantic weight (defaults to ranking.semantic_weight)")
	rankCmd.Flags().IntVarP(&rankLimit, "limit", "n", 0, "Maximum results (defaults to ranking.default_limit, 0 = all)")
	rankCmd.Flags().BoolVar(&rankJSON, "json", false, "Print JSON instead of a table")
	rankCmd.MarkFlagsMutuallyExclusive("jd", "jd-file")
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	cfg, logger := &app.cfg, app.logger

	jd := rankJD
	if rankJDFile != "" {
		data, err := os.ReadFile(rankJDFile)
		if err != nil {
			return fmt.Errorf("read job description: %w", err)
		}
		jd = string(data)
	}
	if strings.TrimSpace(jd) == "" && strings.TrimSpace(rankRequirements) == "" {
		return fmt.Errorf("nothing to rank against: pass --jd, --jd-file or --requirements")
	}

	kw, sem := cfg.Ranking.KeywordWeight, cfg.Ranking.SemanticWeight
	if cmd.Flags().Changed("keyword-weight") {
		kw = rankKeywordWeight
	}
	if cmd.Flags().Changed("semantic-weight") {
		sem = rankSemanticWeight
	}
	w, err := weight.New(kw, sem)
	if err != nil {
		return fmt.Errorf("weights: %w", err)
	}
	limit := cfg.Ranking.DefaultLimit
	if cmd.Flags().Changed("limit") {
		limit = rankLimit
	}
	req, err := request.New(jd, rankRequirements, w, limit)
	if err != nil {
		return fmt.Errorf("rank request: %w", err)
	}

	ctx := cmd.Context()
	svc, err := buildServices(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer svc.store.Close()

	cands, err := svc.repo.List(ctx)
	if err != nil {
		return fmt.Errorf("list candidates: %w", err)
	}

	ranker := rankinguc.New(rankinguc.NewEngine(logger), svc.queryEmbedder, snapshot.Static(cands))
	out, err := ranker.Rank(ctx, &req)
	if err != nil {
		return fmt.Errorf("rank: %w", err)
	}

	if rankJSON {
		return writeRankJSON(cmd.OutOrStdout(), out)
	}
	if err := writeRankTable(cmd.OutOrStdout(), out); err != nil {
		return err
	}
	writeSkipped(cmd.ErrOrStderr(), out.Skipped)
	return nil
}
