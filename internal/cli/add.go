package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CyberDoctor2023/Life-Orbit/internal/rag"
)

func init() {
	cmd := &cobra.Command{
		Use:   "add [text]",
		Short: "Classify and store a thought",
		Long:  "Run the retrieval-augmented pipeline on new text and store the result. Text can be a positional arg or piped via stdin.",
		Run:   runAdd,
	}

	RootCmd.AddCommand(cmd)
}

func runAdd(cmd *cobra.Command, args []string) {
	var content string
	if len(args) > 0 {
		content = strings.Join(args, " ")
	} else {
		stat, _ := os.Stdin.Stat()
		if (stat.Mode() & os.ModeCharDevice) == 0 {
			b, err := io.ReadAll(os.Stdin)
			if err != nil {
				exitErr("read stdin", err)
			}
			content = string(b)
		}
	}
	if strings.TrimSpace(content) == "" {
		exitErr("add", fmt.Errorf("text is required (positional arg or stdin)"))
	}

	cfg := loadConfig()
	s := openStore(cfg)
	defer s.Close()

	snapshot, err := s.GetAll(cmd.Context())
	if err != nil {
		exitErr("load thoughts", err)
	}

	pipeline := rag.New(newGateway(cfg), newClassifier(cfg), rag.Options{
		TopK:               cfg.Retrieval.TopK,
		DuplicateThreshold: cfg.Retrieval.DuplicateThreshold,
	}, logger())

	result, err := pipeline.Process(cmd.Context(), content, snapshot)
	if err != nil {
		exitErr("process", err)
	}

	if result.Outcome == rag.OutcomeDuplicate {
		// Defined rejection, not an error: the thought already orbits.
		out := map[string]any{
			"ok":         false,
			"outcome":    result.Outcome,
			"best_score": result.BestScore,
		}
		if len(result.Retrieved) > 0 {
			out["match_id"] = result.Retrieved[0].Thought.ID
		}
		b, _ := json.MarshalIndent(out, "", "  ")
		fmt.Println(string(b))
		return
	}

	if err := s.Save(cmd.Context(), result.Candidate); err != nil {
		exitErr("save", err)
	}

	b, _ := json.MarshalIndent(map[string]any{
		"ok":      true,
		"outcome": result.Outcome,
		"thought": result.Candidate,
	}, "", "  ")
	fmt.Println(string(b))
}
