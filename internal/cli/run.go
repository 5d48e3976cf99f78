package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/evobandits/gmab"
	"github.com/evobandits/gmab/bench"
	"github.com/evobandits/gmab/internal/store"
)

func init() {
	runCmd.Flags().StringP("file", "f", "", "Path to a TOML study definition")
	runCmd.Flags().String("db", "", "SQLite database to persist results to (optional)")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a study from a TOML definition file",
	Long: `Run one optimization study described by a TOML file against a
built-in benchmark objective, print the ranked arms, and optionally
persist the results to SQLite.`,
	RunE: runStudy,
}

func runStudy(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("file")
	if path == "" {
		return errors.New("study file required: gmab run -f <file>")
	}
	dbPath, _ := cmd.Flags().GetString("db")

	logger, err := zap.NewDevelopment()
	if err != nil {
		return err
	}
	defer logger.Sync()

	cfg, err := LoadStudyFile(path)
	if err != nil {
		return err
	}

	fn, ok := bench.Lookup(cfg.Function)
	if !ok {
		return fmt.Errorf("unknown function %q; see 'gmab functions'", cfg.Function)
	}

	engineCfg := gmab.DefaultConfig()
	if cfg.Engine.PopulationSize != 0 {
		engineCfg.PopulationSize = cfg.Engine.PopulationSize
	}
	if cfg.Engine.MutationRate != 0 {
		engineCfg.MutationRate = cfg.Engine.MutationRate
	}
	if cfg.Engine.CrossoverRate != 0 {
		engineCfg.CrossoverRate = cfg.Engine.CrossoverRate
	}
	if cfg.Engine.MutationSpan != 0 {
		engineCfg.MutationSpan = cfg.Engine.MutationSpan
	}

	engine, err := gmab.New(engineCfg)
	if err != nil {
		return err
	}

	bounds := make([]gmab.Bound, len(cfg.Bounds))
	for i, b := range cfg.Bounds {
		bounds[i] = gmab.Bound{Low: b.Low, High: b.High}
	}

	direction := 1.0
	if cfg.Maximize {
		direction = -1.0
	}
	objective := func(action []int) (float64, error) {
		return direction * fn.Eval(action), nil
	}

	var seed *uint64
	if cfg.Seed != nil {
		u := uint64(*cfg.Seed)
		seed = &u
	}

	logger.Info("starting study",
		zap.String("function", fn.Name),
		zap.Int("budget", cfg.Budget),
		zap.Int("top_k", cfg.TopK),
		zap.Bool("maximize", cfg.Maximize),
	)

	results, err := engine.Optimize(objective, bounds, cfg.Budget, cfg.TopK, seed)
	if err != nil {
		return err
	}
	for i := range results {
		results[i].MeanReward = direction * results[i].MeanReward
	}

	w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tACTION VECTOR\tMEAN\tPULLS")
	for i, arm := range results {
		fmt.Fprintf(w, "%d\t%v\t%g\t%d\n", i+1, arm.ActionVector, arm.MeanReward, arm.NumPulls)
	}
	w.Flush()

	if dbPath != "" {
		db, err := store.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()

		rec := store.StudyRecord{
			ID:       uuid.NewString(),
			Function: fn.Name,
			Budget:   cfg.Budget,
			TopK:     cfg.TopK,
			Seed:     cfg.Seed,
			Maximize: cfg.Maximize,
		}
		for _, b := range cfg.Bounds {
			rec.Bounds = append(rec.Bounds, [2]int{b.Low, b.High})
		}
		for i, arm := range results {
			rec.Arms = append(rec.Arms, store.ArmRecord{
				Rank:         i + 1,
				ActionVector: arm.ActionVector,
				MeanReward:   arm.MeanReward,
				NumPulls:     arm.NumPulls,
			})
		}
		if err := db.SaveStudy(rec); err != nil {
			return err
		}
		logger.Info("results persisted", zap.String("id", rec.ID), zap.String("db", dbPath))
	}

	return nil
}
