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
		Use:   "move <id> <level>",
		Short: "Move a thought to another orbit level",
		Long:  "Reassign a thought's level. No re-embedding or re-classification happens; any level-to-level transition is allowed.",
		Args:  cobra.ExactArgs(2),
		Run:   runMove,
	}

	RootCmd.AddCommand(cmd)
}

func runMove(cmd *cobra.Command, args []string) {
	id := args[0]
	level := model.Level(strings.ToUpper(args[1]))
	if !model.ValidLevels[level] {
		exitErr("move", fmt.Errorf("invalid level %q (use SURVIVAL, GROWTH, VISION, or FLOATING)", args[1]))
	}

	cfg := loadConfig()
	s := openStore(cfg)
	defer s.Close()

	thought, err := findThought(cmd, s, id)
	if err != nil {
		exitErr("move", err)
	}

	thought.Level = level
	if err := s.Save(cmd.Context(), thought); err != nil {
		exitErr("move", err)
	}

	b, _ := json.Marshal(thought)
	fmt.Println(string(b))
}
