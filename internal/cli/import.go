package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/CyberDoctor2023/Life-Orbit/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import thoughts from JSON",
		Long:  "Import a JSON document from a file or stdin. Expects the format produced by export (legacy 'data' payloads are accepted). All-or-nothing.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runImport,
	}

	RootCmd.AddCommand(cmd)
}

func runImport(cmd *cobra.Command, args []string) {
	var data []byte
	var err error
	if len(args) > 0 {
		data, err = os.ReadFile(args[0])
	} else {
		data, err = io.ReadAll(os.Stdin)
	}
	if err != nil {
		exitErr("read input", err)
	}

	var doc store.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		exitErr("parse json", err)
	}

	cfg := loadConfig()
	s := openStore(cfg)
	defer s.Close()

	imported, err := s.Import(cmd.Context(), &doc)
	if err != nil {
		exitErr("import", err)
	}

	fmt.Printf(`{"ok":true,"imported":%d}`+"\n", imported)
}
