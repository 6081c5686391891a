package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/kgpipe/internal/adapters/driven/config/file"
	"github.com/custodia-labs/kgpipe/internal/adapters/driven/mentions"
	"github.com/custodia-labs/kgpipe/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/kgpipe/internal/core/domain"
	"github.com/custodia-labs/kgpipe/internal/core/services"
)

var canonicalizeCmd = &cobra.Command{
	Use:   "canonicalize [mentions.jsonl]",
	Short: "Consolidate extractor mentions into canonical entities",
	Long: `Reads raw entity mentions (one JSON object per line) produced
by the external extractor, merges them into a deduplicated canonical
entity set, and upserts the set into the SQLite store keyed by
normalized name. Cleanup removals, plural folds, reclassifications and
unresolved taxonomy terms are printed as a review report.`,
	Args: cobra.ExactArgs(1),
	RunE: runCanonicalize,
}

func init() {
	rootCmd.AddCommand(canonicalizeCmd)
}

func runCanonicalize(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := configfile.Load(configFlag)
	if err != nil {
		return err
	}

	classifier, err := services.NewTaxonomyClassifier(cfg.TaxonomyTable(), cfg.Taxonomy.FuzzyThreshold)
	if err != nil {
		return err
	}
	canonicalizer, err := services.NewEntityService(classifier, cfg.CleanupDomain(), cfg.TaxonomyDomain())
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening %s: %w", args[0], err)
	}
	defer f.Close()

	raw, malformed, err := mentions.New().ReadMentions(f)
	if err != nil {
		return err
	}

	entities, report, err := canonicalizer.Canonicalize(ctx, raw)
	if err != nil {
		return err
	}
	report.InvalidMentions = append(malformed, report.InvalidMentions...)

	store, err := sqlite.NewStore(dataDirFlag)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	if err := store.UpsertEntities(ctx, entities); err != nil {
		return err
	}

	printReviewReport(cmd, len(raw), entities, report)
	return nil
}

func printReviewReport(cmd *cobra.Command, mentionCount int, entities []domain.CanonicalEntity, report *domain.ReviewReport) {
	cmd.Printf("Canonicalized %d mention(s) into %d entit(ies)\n", mentionCount, len(entities))

	if len(report.InvalidMentions) > 0 {
		cmd.Printf("Invalid mentions: %d\n", len(report.InvalidMentions))
		for _, m := range report.InvalidMentions {
			cmd.Printf("  mention %d: %s\n", m.Index, m.Reason)
		}
	}
	if len(report.RemovedGeneric) > 0 {
		cmd.Printf("Removed generic terms: %d\n", len(report.RemovedGeneric))
		for _, name := range report.RemovedGeneric {
			cmd.Printf("  %s\n", name)
		}
	}
	for _, fold := range report.PluralFolds {
		cmd.Printf("Folded %q into %q\n", fold.RemovedName, fold.SurvivorName)
	}
	for _, rc := range report.Reclassified {
		cmd.Printf("Reclassified %q: %s -> %s\n", rc.NormalizedName, rc.FromLabel, rc.ToLabel)
	}
	if len(report.UnresolvedTaxonomy) > 0 {
		cmd.Printf("Unresolved taxonomy terms (review required): %d\n", len(report.UnresolvedTaxonomy))
		for _, name := range report.UnresolvedTaxonomy {
			cmd.Printf("  %s\n", name)
		}
	}
}
