package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jo-hoe/eduboard/internal/backend/stats"
	"github.com/jo-hoe/eduboard/internal/core"
	"github.com/spf13/cobra"
)

func newStatsCmd(app *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the statistics exercises",
		Long:  `Print mean, median, variance and 90th percentile of 1..100, a random 5x5 matrix with determinant and trace, and the frequency table of 1000 random integers in [0,10].`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			overview := app.coreService.Statistics()
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "Array 1..100")
			fmt.Fprintf(out, "  mean:            %s\n", formatFloat(overview.Summary.Mean))
			fmt.Fprintf(out, "  median:          %s\n", formatFloat(overview.Summary.Median))
			fmt.Fprintf(out, "  variance:        %s\n", formatFloat(overview.Summary.Variance))
			fmt.Fprintf(out, "  90th percentile: %s\n", formatFloat(overview.Summary.P90))

			fmt.Fprintln(out, "Matrix 5x5")
			for _, row := range overview.Matrix {
				fmt.Fprintf(out, "  %s\n", joinFloats(row, "  "))
			}
			fmt.Fprintf(out, "  determinant: %s\n", formatFloat(overview.MatrixSummary.Determinant))
			fmt.Fprintf(out, "  trace:       %s\n", formatFloat(overview.MatrixSummary.Trace))

			fmt.Fprintln(out, "Frequencies")
			for _, f := range overview.Frequencies {
				fmt.Fprintf(out, "  %2d: %d\n", f.Value, f.Count)
			}
			return nil
		},
	}
}

func newNormalizeCmd(app *cli) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "normalize <values|random>",
		Short: "Z-score normalize a comma separated vector",
		Long: `Normalize a vector given as comma separated numbers, e.g. "1,2,3,4".
Pass "random" to draw a vector using the configured length and range.
With --save the original values are appended to the vector log.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, input := core.ModeManual, args[0]
			if strings.EqualFold(strings.TrimSpace(input), core.ModeRandom) {
				mode, input = core.ModeRandom, ""
			}

			exercise, err := app.coreService.ResolveVector(mode, input)
			if err != nil {
				return err
			}
			if exercise == nil {
				return &stats.InputError{Input: input, Err: stats.ErrInvalidVector}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "vector:     %s\n", joinFloats(exercise.Source, ", "))
			fmt.Fprintf(out, "normalized: %s\n", joinFloats(exercise.Normalized, ", "))

			if save {
				if err := app.coreService.SaveVector(cmd.Context(), exercise.Source); err != nil {
					return err
				}
				fmt.Fprintf(out, "saved %d values\n", len(exercise.Source))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "append the vector to the vector log")
	return cmd
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}

func joinFloats(values []float64, sep string) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatFloat(v)
	}
	return strings.Join(parts, sep)
}
