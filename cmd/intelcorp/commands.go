package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Resolve a free-text query into candidate companies",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, argv []string) error {
		if err := checkOutput(); err != nil {
			return err
		}
		p, done, err := buildPipeline(cmd)
		if err != nil {
			return err
		}
		defer done()

		res := p.Search(cmd.Context(), strings.Join(argv, " "), args.jurisdiction)
		if args.output == "json" {
			return writeJSON(os.Stdout, res)
		}
		return writeSearch(os.Stdout, res)
	},
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <name>",
	Short: "Enrich, screen and score one company",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, argv []string) error {
		if err := checkOutput(); err != nil {
			return err
		}
		p, done, err := buildPipeline(cmd)
		if err != nil {
			return err
		}
		defer done()

		a := p.Analyze(cmd.Context(), strings.Join(argv, " "), args.country)
		if args.output == "json" {
			return writeJSON(os.Stdout, analysisView(a))
		}
		return writeAnalysis(os.Stdout, a)
	},
}

func checkOutput() error {
	switch args.output {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("unsupported output format %q", args.output)
	}
}
