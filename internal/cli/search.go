package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CyberDoctor2023/Life-Orbit/internal/search"
)

func init() {
	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search thoughts",
		Long:  "Semantic search over stored thoughts by default; --literal switches to case-insensitive substring matching.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runSearch,
	}

	cmd.Flags().Bool("literal", false, "Substring match instead of semantic search")
	cmd.Flags().IntP("limit", "l", 0, "Max results (default from config)")
	cmd.Flags().Float64P("threshold", "t", -1, "Minimum similarity (default from config)")

	RootCmd.AddCommand(cmd)
}

func runSearch(cmd *cobra.Command, args []string) {
	literal, _ := cmd.Flags().GetBool("literal")
	limit, _ := cmd.Flags().GetInt("limit")
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	query := strings.Join(args, " ")

	cfg := loadConfig()
	s := openStore(cfg)
	defer s.Close()

	thoughts, err := s.GetAll(cmd.Context())
	if err != nil {
		exitErr("load thoughts", err)
	}

	opts := search.Options{
		Limit:     cfg.Search.Limit,
		Threshold: cfg.Search.Threshold,
		Semantic:  cfg.Search.Semantic && !literal,
	}
	if limit > 0 {
		opts.Limit = limit
	}
	if cmd.Flags().Changed("threshold") {
		opts.Threshold = threshold
	}

	searcher := search.New(newGateway(cfg))
	results := searcher.Search(cmd.Context(), query, thoughts, opts)

	if len(results) == 0 {
		fmt.Println("[]")
		return
	}

	b, _ := json.MarshalIndent(results, "", "  ")
	fmt.Println(string(b))
}
