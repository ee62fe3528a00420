package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"kcalcount/adapters/excel"
	"kcalcount/app"
	"kcalcount/domain/workout"
	"kcalcount/internal"
	"kcalcount/internal/config"
	"kcalcount/internal/container"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type modelFlags struct {
	path string
	kind string
}

func newRootCmd() *cobra.Command {
	var mf modelFlags

	rootCmd := &cobra.Command{
		Use:           "kcal",
		Short:         "KCAL-COUNT command line: one-shot predictions and offline model evaluation",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&mf.path, "model", "", "Model artifact path (overrides MODEL_PATH)")
	rootCmd.PersistentFlags().StringVar(&mf.kind, "model-type", "", "Model type: xgboost or linear (overrides MODEL_TYPE)")

	rootCmd.AddCommand(
		newPredictCmd(&mf),
		newEvaluateCmd(&mf),
	)
	return rootCmd
}

// buildContainer loads configuration the same way the server does, then
// applies command-line overrides.
func buildContainer(mf *modelFlags) (*container.Container, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if mf.path != "" {
		cfg.Model.Path = mf.path
	}
	if mf.kind != "" {
		cfg.Model.Type = mf.kind
	}

	level, _ := internal.ParseLogLevel(cfg.Log.Level)
	log := internal.NewLoggerWithOptions(internal.LogOptions{
		Level:  level,
		Format: cfg.Log.Format,
		File:   cfg.Log.File,
	})
	return container.New(cfg, log)
}

func newPredictCmd(mf *modelFlags) *cobra.Command {
	req := workout.DefaultRequest()
	var gender string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Estimate calories burnt for one workout",
		Long: `Estimate calories burnt for one workout using the configured model.

Example: kcal predict --gender female --age 30 --height 165 --weight 60 --duration 45 --heart-rate 120 --body-temp 38.5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Gender = workout.Gender(gender)

			c, err := buildContainer(mf)
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())

			est, err := c.Predictor.Predict(cmd.Context(), req)
			if err != nil {
				return err
			}
			return printEstimate(cmd.OutOrStdout(), est, asJSON)
		},
	}

	cmd.Flags().StringVar(&gender, "gender", string(req.Gender), "male or female")
	cmd.Flags().Float64Var(&req.Age, "age", req.Age, "Age in years (1-100)")
	cmd.Flags().Float64Var(&req.HeightCm, "height", req.HeightCm, "Height in cm (100-250)")
	cmd.Flags().Float64Var(&req.WeightKg, "weight", req.WeightKg, "Weight in kg (30-200)")
	cmd.Flags().Float64Var(&req.DurationMin, "duration", req.DurationMin, "Workout duration in minutes (1-300)")
	cmd.Flags().Float64Var(&req.HeartRateBPM, "heart-rate", req.HeartRateBPM, "Average heart rate in BPM (40-200)")
	cmd.Flags().Float64Var(&req.BodyTempC, "body-temp", req.BodyTempC, "Body temperature in °C (35-45)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the estimate as JSON")

	return cmd
}

func printEstimate(w io.Writer, est workout.Estimate, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(est)
	}
	_, err := fmt.Fprintln(w, est.Text)
	return err
}

func newEvaluateCmd(mf *modelFlags) *cobra.Command {
	var sheet, target string
	var maxRows int
	var asJSON, showSkipped bool

	cmd := &cobra.Command{
		Use:   "evaluate <samples.xlsx|samples.csv>",
		Short: "Score the model against a labelled sample sheet",
		Long: `Predict every row of a labelled sheet and report accuracy.

The sheet needs the columns Gender, Age, Height, Weight, Duration, Heart_Rate,
Body_Temp and the measured target (Calories by default). Rows that fail
validation are skipped and counted.

Example: kcal evaluate data/calories.csv --show-skipped`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := buildContainer(mf)
			if err != nil {
				return err
			}
			defer c.Shutdown(context.Background())

			sheetCfg := excel.DefaultSheetConfig(args[0])
			sheetCfg.SheetName = sheet
			sheetCfg.MaxRows = maxRows
			if target != "" {
				sheetCfg.TargetColumn = target
			}

			report, err := c.Evaluator(sheetCfg).Evaluate(cmd.Context())
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), report, asJSON, showSkipped)
		},
	}

	cmd.Flags().StringVar(&sheet, "sheet", "", "Worksheet name for xlsx files (default: first sheet)")
	cmd.Flags().StringVar(&target, "target", "", "Target column holding measured calories (default: Calories)")
	cmd.Flags().IntVar(&maxRows, "max-rows", 0, "Stop after this many data rows (0 = all)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")
	cmd.Flags().BoolVar(&showSkipped, "show-skipped", false, "List the reason each skipped row was ignored")

	return cmd
}

func printReport(w io.Writer, r *app.EvaluationReport, asJSON, showSkipped bool) error {
	if asJSON {
		out := *r
		if math.IsNaN(out.R2) {
			out.R2 = 0
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(w, "Model:        %s\n", r.Model)
	fmt.Fprintf(w, "Evaluated:    %d\n", r.Evaluated)
	fmt.Fprintf(w, "Skipped:      %d\n", r.Skipped)
	fmt.Fprintf(w, "Failed:       %d\n", r.Failed)
	fmt.Fprintf(w, "MAE:          %.3f kcal\n", r.MAE)
	fmt.Fprintf(w, "RMSE:         %.3f kcal\n", r.RMSE)
	fmt.Fprintf(w, "Bias:         %+.3f kcal\n", r.Bias)
	fmt.Fprintf(w, "P90 |error|:  %.3f kcal\n", r.P90AbsErr)
	fmt.Fprintf(w, "Max |error|:  %.3f kcal\n", r.MaxAbsErr)
	if math.IsNaN(r.R2) {
		fmt.Fprintln(w, "R²:           n/a (constant target)")
	} else {
		fmt.Fprintf(w, "R²:           %.4f\n", r.R2)
	}

	if showSkipped {
		for _, err := range r.SkippedRows {
			fmt.Fprintf(w, "  skipped %v\n", err)
		}
	}
	return nil
}
