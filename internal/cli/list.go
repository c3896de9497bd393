package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CyberDoctor2023/Life-Orbit/internal/model"
)

func init() {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List thoughts",
		Run:   runList,
	}

	cmd.Flags().String("level", "", "Filter by level: SURVIVAL, GROWTH, VISION, FLOATING")
	cmd.Flags().Bool("completed", false, "Only completed thoughts")
	cmd.Flags().Bool("pending", false, "Only pending thoughts")
	cmd.Flags().IntP("limit", "l", 0, "Max results (0 = all)")

	RootCmd.AddCommand(cmd)
}

func runList(cmd *cobra.Command, args []string) {
	levelStr, _ := cmd.Flags().GetString("level")
	completed, _ := cmd.Flags().GetBool("completed")
	pending, _ := cmd.Flags().GetBool("pending")
	limit, _ := cmd.Flags().GetInt("limit")

	var level model.Level
	if levelStr != "" {
		level = model.Level(strings.ToUpper(levelStr))
		if !model.ValidLevels[level] {
			exitErr("list", fmt.Errorf("invalid level %q", levelStr))
		}
	}

	cfg := loadConfig()
	s := openStore(cfg)
	defer s.Close()

	thoughts, err := s.GetAll(cmd.Context())
	if err != nil {
		exitErr("list", err)
	}

	filtered := thoughts[:0]
	for _, t := range thoughts {
		if level != "" && t.Level != level {
			continue
		}
		if completed && !t.Completed {
			continue
		}
		if pending && t.Completed {
			continue
		}
		filtered = append(filtered, t)
		if limit > 0 && len(filtered) == limit {
			break
		}
	}

	if len(filtered) == 0 {
		fmt.Println("[]")
		return
	}

	b, _ := json.MarshalIndent(filtered, "", "  ")
	fmt.Println(string(b))
}
