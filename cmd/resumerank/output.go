package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	dombatch "github.com/kailas-cloud/resumerank/internal/domain/batch"
	rankinguc "github.com/kailas-cloud/resumerank/internal/usecase/ranking"
)

type rankedJSON struct {
	Rank          int     `json:"rank"`
	ID            string  `json:"id"`
	FinalScore    float64 `json:"final_score"`
	KeywordScore  float64 `json:"keyword_score"`
	SemanticScore float64 `json:"semantic_score"`
}

type skippedJSON struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

type rankOutputJSON struct {
	Items   []rankedJSON  `json:"items"`
	Skipped []skippedJSON `json:"skipped"`
}

func writeRankTable(w io.Writer, out rankinguc.Outcome) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tID\tFINAL\tKEYWORD\tSEMANTIC")
	for i := range out.Records {
		r := &out.Records[i]
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\t%.2f\n", i+1, r.ID(), r.Final(), r.Keyword(), r.Semantic())
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}

func writeRankJSON(w io.Writer, out rankinguc.Outcome) error {
	resp := rankOutputJSON{
		Items:   make([]rankedJSON, len(out.Records)),
		Skipped: make([]skippedJSON, len(out.Skipped)),
	}
	for i := range out.Records {
		r := &out.Records[i]
		resp.Items[i] = rankedJSON{
			Rank:          i + 1,
			ID:            r.ID(),
			FinalScore:    r.Final(),
			KeywordScore:  r.Keyword(),
			SemanticScore: r.Semantic(),
		}
	}
	for i, sk := range out.Skipped {
		resp.Skipped[i] = skippedJSON{ID: sk.ID, Reason: sk.Reason}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func writeSkipped(w io.Writer, skipped []rankinguc.Skipped) {
	for _, sk := range skipped {
		fmt.Fprintf(w, "skipped %s: %s\n", sk.ID, sk.Reason)
	}
}

func writeBatchTable(w io.Writer, results []dombatch.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tDETAIL")
	for _, r := range results {
		detail := ""
		if r.Err() != nil {
			detail = r.Err().Error()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID(), r.Status(), detail)
	}
	ok, skipped, failed := dombatch.Counts(results)
	fmt.Fprintf(tw, "\n%d ingested, %d skipped, %d failed\n", ok, skipped, failed)
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("write table: %w", err)
	}
	return nil
}
