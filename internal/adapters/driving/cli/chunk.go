package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	configfile "github.com/custodia-labs/kgpipe/internal/adapters/driven/config/file"
	"github.com/custodia-labs/kgpipe/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/kgpipe/internal/adapters/driven/tokenizer/tiktoken"
	"github.com/custodia-labs/kgpipe/internal/core/domain"
	"github.com/custodia-labs/kgpipe/internal/core/services"
	htmlparser "github.com/custodia-labs/kgpipe/internal/normalisers/html"
)

var chunkCmd = &cobra.Command{
	Use:   "chunk [html-files...]",
	Short: "Chunk HTML documents into a hierarchical chunk tree",
	Long: `Parses each HTML file into titled sections and builds the
three-level chunk tree: document summary, sections, and sliding
windows inside oversized sections. The tree is persisted to the
SQLite store; skipped sections are reported, never silently lost.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runChunk,
}

func init() {
	rootCmd.AddCommand(chunkCmd)
}

func runChunk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := configfile.Load(configFlag)
	if err != nil {
		return err
	}

	tok, err := tiktoken.New()
	if err != nil {
		return fmt.Errorf("initialising tokenizer: %w", err)
	}

	chunker, err := services.NewChunkService(tok, cfg.ChunkingDomain())
	if err != nil {
		return err
	}

	store, err := sqlite.NewStore(dataDirFlag)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer store.Close()

	parser := htmlparser.New()
	docs := make([]*domain.Document, 0, len(args))
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		doc, err := parser.Parse(ctx, filepath.Base(path), f)
		f.Close()
		if err != nil {
			return fmt.Errorf("parsing %s: %w", path, err)
		}
		docs = append(docs, doc)
	}

	batch := chunker.ChunkAll(ctx, docs)

	byID := make(map[string]*domain.Document, len(docs))
	for _, d := range docs {
		byID[d.ID] = d
	}
	for _, result := range batch.Results {
		if err := store.SaveDocument(ctx, byID[result.DocumentID]); err != nil {
			return err
		}
		if err := store.SaveChunks(ctx, result.Chunks); err != nil {
			return err
		}
	}

	printChunkReport(cmd, batch)
	return nil
}

func printChunkReport(cmd *cobra.Command, batch *domain.BatchResult) {
	totalChunks := 0
	totalSkipped := 0
	for _, r := range batch.Results {
		totalChunks += len(r.Chunks)
		totalSkipped += len(r.Skipped)
	}

	cmd.Printf("Chunked %d document(s): %d chunk(s), %d skipped section(s)\n",
		len(batch.Results), totalChunks, totalSkipped)

	for _, r := range batch.Results {
		for _, skip := range r.Skipped {
			cmd.Printf("  skipped: %s section %d (%q), %d tokens\n",
				r.DocumentID, skip.Index, skip.Heading, skip.TokenCount)
		}
	}
	for id, err := range batch.Failures {
		cmd.Printf("  failed: %s: %v\n", id, err)
	}
}
