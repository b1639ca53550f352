package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/contactkeval/option-iv/internal/config"
	"github.com/contactkeval/option-iv/internal/data"
	"github.com/contactkeval/option-iv/internal/instrument"
	"github.com/contactkeval/option-iv/internal/logger"
	"github.com/contactkeval/option-iv/internal/report"
	"github.com/contactkeval/option-iv/internal/snapshot"
	"github.com/contactkeval/option-iv/internal/store"
)

type RunArgs struct {
	Input         string
	ExecutionDate string
	Save          bool
	OutDir        string
}

type RunResults struct {
	RunID   string
	Result  *snapshot.Result
	Saved   int
	Elapsed time.Duration
}

var runCmd = &cobra.Command{
	Use:   "run --input snapshot.csv",
	Short: "Values one snapshot file and writes records.csv / records.json.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		runArgs := RunArgs{}
		runArgs.Input, _ = cmd.Flags().GetString("input")
		runArgs.ExecutionDate, _ = cmd.Flags().GetString("date")
		runArgs.Save, _ = cmd.Flags().GetBool("save")
		runArgs.OutDir, _ = cmd.Flags().GetString("out")

		if rate, _ := cmd.Flags().GetFloat64("rate"); cmd.Flags().Changed("rate") {
			cfg.RiskFreeRate = &rate
		}
		if cmd.Flags().Changed("workers") {
			cfg.Workers, _ = cmd.Flags().GetInt("workers")
		}

		res, err := Run(cmd.Context(), cfg, runArgs)
		if err != nil {
			return err
		}

		report.PrintSummary(os.Stdout, res.Result.Records)
		logger.Infof("[done] run %s finished in %v", res.RunID, res.Elapsed)
		return nil
	},
}

func init() {
	runCmd.Flags().String("input", "", "snapshot CSV (code,execution_date,price_today,strike_price,last_option_price)")
	runCmd.Flags().String("date", "", "execution date dd-mm-yyyy for rows without one (default today)")
	runCmd.Flags().Bool("save", false, "persist records to the database")
	runCmd.Flags().String("out", "", "report directory (default from config)")
	runCmd.Flags().Float64("rate", config.DefaultRiskFreeRate, "risk-free rate")
	runCmd.Flags().Int("workers", 1, "rows valued concurrently")
	_ = runCmd.MarkFlagRequired("input")
}

// Run reads a snapshot, values it, writes reports and optionally saves it.
func Run(ctx context.Context, cfg *config.Config, args RunArgs) (*RunResults, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	runID := uuid.New().String()

	execDate := args.ExecutionDate
	if execDate == "" {
		execDate = time.Now().Format(instrument.DateLayout)
	}
	asOf, err := instrument.ParseDate(execDate)
	if err != nil {
		return nil, err
	}

	rows, err := data.NewLocalCSVProvider(args.Input).GetSnapshotRows(ctx)
	if err != nil {
		return nil, err
	}

	if spot := spotProvider(cfg); spot != nil {
		if _, err := data.FillMissingSpot(ctx, rows, spot, cfg.Massive.Underlying, asOf); err != nil {
			logger.Warnf("underlying price lookup failed, affected rows will have no IV: %v", err)
		}
	}

	builder := &snapshot.Builder{
		Valuer:        snapshot.Valuer{RiskFreeRate: cfg.Rate(), Solver: cfg.PricingSolver()},
		ExecutionDate: execDate,
		Workers:       cfg.Workers,
	}
	res, err := builder.Build(ctx, rows)
	if err != nil {
		return nil, err
	}

	outDir := args.OutDir
	if outDir == "" {
		outDir = cfg.Report.Dir
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", outDir, err)
	}
	if err := report.WriteJSON(res.Records, outDir); err != nil {
		return nil, fmt.Errorf("write json: %w", err)
	}
	if err := report.WriteCSV(res.Records, outDir); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}

	out := &RunResults{RunID: runID, Result: res}
	if args.Save {
		st, err := store.Open(cfg.Database.Path)
		if err != nil {
			return nil, err
		}
		defer st.Close()
		st.IDIncludesExecutionDate = *cfg.IDIncludesExecutionDate

		if out.Saved, err = st.SaveRecords(ctx, runID, res.Records); err != nil {
			return nil, err
		}
	}

	out.Elapsed = time.Since(start)
	return out, nil
}

// spotProvider chains Massive and a fixed fallback spot, whichever are configured.
func spotProvider(cfg *config.Config) data.SpotProvider {
	var fallback data.SpotProvider
	if cfg.Massive.Fallback > 0 {
		fallback = data.NewSyntheticSpot(cfg.Massive.Fallback)
	}
	if cfg.Massive.APIKey != "" {
		return data.NewMassiveSpotProvider(cfg.Massive.APIKey, fallback)
	}
	return fallback
}
