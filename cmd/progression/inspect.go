package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/JeanRibes/progression/music"
	"github.com/JeanRibes/progression/shared"
	"github.com/JeanRibes/progression/store"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [state file]",
	Short: "show a saved state and what it restores to",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(configPath)
		if err != nil && !missing(err) {
			return err
		}
		path := cfg.StateFile
		if len(args) == 1 {
			path = args[0]
		}
		lib, err := loadLibrary(cfg.Library)
		if err != nil {
			newLogger("inspect").Warn("library", "err", err)
		}

		st := store.Open(path)
		st.SetLogger(newLogger("store"))
		file, err := st.Read()
		if err != nil {
			return err
		}
		engine := music.NewEngine(cfg.Config, nil, music.WithLibrary(lib), music.WithLogger(newLogger("engine")))
		if err := engine.Restore(file.State); err != nil {
			return fmt.Errorf("%s would be refused: %w", path, err)
		}
		status := engine.Status()
		status.Instance = file.Instance

		out := struct {
			SavedAt string        `json:"saved_at"`
			Status  shared.Status `json:"status"`
			State   music.State   `json:"state"`
		}{file.SavedAt.Format("2006-01-02 15:04:05 MST"), status, file.State}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
