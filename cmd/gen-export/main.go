// Command gen-export writes synthetic chat export files, with a tunable
// share of mojibake-corrupted text and malformed records, for exercising
// the pipeline.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/arianv/chatmend/internal/exportgen"
	"github.com/arianv/chatmend/pkg/logger"
)

// Default generation parameters.
const (
	defaultFiles      = 3
	defaultMessages   = 500
	defaultSenders    = 4
	defaultCorrupt    = 0.3
	defaultMalformed  = 0.05
	defaultGenTimeout = time.Minute
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := &exportgen.Config{}

	cmd := &cobra.Command{
		Use:           "gen-export [flags]",
		Short:         "Generate synthetic chat export files",
		Long:          "gen-export writes chat export fixtures mixing clean text, mojibake-corrupted text, reactions, and malformed records.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Init(); err != nil {
				return fmt.Errorf("initialize logger: %w", err)
			}
			if !cmd.Flags().Changed("seed") {
				cfg.Seed = time.Now().UnixNano()
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), defaultGenTimeout)
			defer cancel()

			_, err := exportgen.Generate(ctx, cfg)
			return err
		},
	}

	cmd.Flags().StringVarP(&cfg.OutputDir, "out", "o", "testdata/generated", "Directory for the generated export files")
	cmd.Flags().IntVar(&cfg.Files, "files", defaultFiles, "Number of export files to write")
	cmd.Flags().IntVar(&cfg.Messages, "messages", defaultMessages, "Messages per file")
	cmd.Flags().IntVar(&cfg.Senders, "senders", defaultSenders, "Distinct sender names")
	cmd.Flags().Float64Var(&cfg.CorruptRatio, "corrupt", defaultCorrupt, "Fraction of text fields written as mojibake")
	cmd.Flags().Float64Var(&cfg.MalformedRatio, "malformed", defaultMalformed, "Fraction of records missing a required field")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", 0, "RNG seed controlling the record mix (default: current time)")

	return cmd
}
