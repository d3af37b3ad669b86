// cmd/intelcorp/main.go
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"intelcorp/internal/common/config"
	"intelcorp/internal/common/logger"
	"intelcorp/internal/intel/pipeline"
)

var args struct {
	configPath   string
	output       string
	jurisdiction string
	country      string
}

var rootCmd = &cobra.Command{
	Use:           "intelcorp",
	Short:         "Company search, enrichment and sanctions screening",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&args.configPath, "config", "", "path to a config file (default: configs/config.yaml or $CONFIG_PATH)")
	rootCmd.PersistentFlags().StringVarP(&args.output, "output", "o", "text", "output format: text or json")

	searchCmd.Flags().StringVar(&args.jurisdiction, "jurisdiction", "", "restrict the registry search to a jurisdiction code (e.g. ch, gb)")
	analyzeCmd.Flags().StringVar(&args.country, "country", "", "country hint passed to enrichment")

	rootCmd.AddCommand(searchCmd, analyzeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// buildPipeline loads configuration and wires providers. Logs go to stderr
// so that stdout stays machine readable.
func buildPipeline(cmd *cobra.Command) (*pipeline.Pipeline, func(), error) {
	var (
		cfg *config.Config
		err error
	)
	if args.configPath != "" {
		cfg, err = config.LoadFromFile(args.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	zapLog := logger.NewWithOutput(cfg.Logging.Level, cfg.Logging.Format, "stderr")
	p, closeProviders, err := pipeline.FromConfig(cmd.Context(), cfg, logger.NewZapAdapter(zapLog))
	if err != nil {
		return nil, nil, err
	}
	return p, func() {
		closeProviders()
		_ = zapLog.Sync()
	}, nil
}
