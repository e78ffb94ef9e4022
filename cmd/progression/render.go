package main

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/JeanRibes/progression/music"
	"github.com/JeanRibes/progression/theory"

	"github.com/spf13/cobra"
)

var renderFlags struct {
	edges    int
	seed     int64
	bpm      float64
	out      string
	quantize bool
	keyAt    []string
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "write a progression to a MIDI file",
	Long: `render clocks the engine offline and writes one track per voice. Key
changes are scripted with --key-at edge:root, e.g. --key-at 16:F.`,
	Example: "  progression render --edges 64 --seed 7 --key-at 16:F --key-at 40:Bb -o out.mid",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(configPath)
		if err != nil && !missing(err) {
			return err
		}
		changes, err := parseKeyChanges(renderFlags.keyAt)
		if err != nil {
			return err
		}
		logger := newLogger("render")
		lib, err := loadLibrary(cfg.Library)
		if err != nil {
			logger.Warn("library", "err", err)
		}

		engine := music.NewEngine(cfg.Config, rand.New(rand.NewSource(renderFlags.seed)),
			music.WithLibrary(lib), music.WithLogger(newLogger("engine")))
		live := cfg.Config
		take := music.Record(engine, renderFlags.edges, func(edge int) {
			if root, ok := changes[edge]; ok {
				live.Root = root
				engine.Poll(live)
			}
		})

		f := take.Convert(renderFlags.bpm)
		if renderFlags.quantize {
			if f, err = music.Quantize(f); err != nil {
				return err
			}
		}
		if err := f.WriteFile(renderFlags.out); err != nil {
			return err
		}
		for i, st := range take {
			logger.Debug("beat", "n", i, "chord", st.Label, "voicing", st.Voicing.Names())
		}
		logger.Info("wrote", "file", renderFlags.out, "beats", len(take), "seed", renderFlags.seed)
		return nil
	},
}

func init() {
	f := renderCmd.Flags()
	f.IntVarP(&renderFlags.edges, "edges", "n", 32, "clock edges to run")
	f.Int64Var(&renderFlags.seed, "seed", 1, "random seed")
	f.Float64Var(&renderFlags.bpm, "bpm", 120, "tempo written to the file")
	f.StringVarP(&renderFlags.out, "out", "o", "progression.mid", "output file")
	f.BoolVar(&renderFlags.quantize, "quantize", false, "run the quantizer over the result")
	f.StringArrayVar(&renderFlags.keyAt, "key-at", nil, "edge:root key change, repeatable")
	rootCmd.AddCommand(renderCmd)
}

// parseKeyChanges reads "edge:root" pairs. The root is a note name or a
// pitch class number.
func parseKeyChanges(pairs []string) (map[int]int, error) {
	changes := map[int]int{}
	for _, s := range pairs {
		edgeStr, rootStr, ok := strings.Cut(s, ":")
		if !ok {
			return nil, fmt.Errorf("key change %q: want edge:root", s)
		}
		edge, err := strconv.Atoi(edgeStr)
		if err != nil || edge < 0 {
			return nil, fmt.Errorf("key change %q: bad edge", s)
		}
		root, ok := theory.ParseNote(rootStr)
		if !ok {
			return nil, fmt.Errorf("key change %q: bad root", s)
		}
		changes[edge] = root
	}
	return changes, nil
}
