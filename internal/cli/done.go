package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a thought's completed flag",
		Args:  cobra.ExactArgs(1),
		Run:   runDone,
	}

	RootCmd.AddCommand(cmd)
}

func runDone(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	s := openStore(cfg)
	defer s.Close()

	thought, err := findThought(cmd, s, args[0])
	if err != nil {
		exitErr("done", err)
	}

	thought.Completed = !thought.Completed
	if err := s.Save(cmd.Context(), thought); err != nil {
		exitErr("done", err)
	}

	b, _ := json.Marshal(thought)
	fmt.Println(string(b))
}
