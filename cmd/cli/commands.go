package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"currency-calculator/internal/calculator"
	"currency-calculator/internal/domain/model"
	"currency-calculator/internal/domain/ports"
	"currency-calculator/internal/service"
)

// --- Convert Command ---

type convertOptions struct {
	base       string
	amount     string
	track      []string
	sampleSize int
}

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert an amount into the tracked currencies",
	Long: `Fetch the rate table and the as-of date, apply the base currency,
amount and extra tracked currencies, and print one row per currency with
two decimals. The base row comes first.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := convertOptions{}
		opts.base, _ = cmd.Flags().GetString("base")
		opts.amount, _ = cmd.Flags().GetString("amount")
		opts.track, _ = cmd.Flags().GetStringSlice("track")
		opts.sampleSize, _ = cmd.Flags().GetInt("sample")
		if !cmd.Flags().Changed("sample") {
			opts.sampleSize = cfg.Session.SampleSize
		}

		return runConvert(cmd.Context(), cmd.OutOrStdout(), api, api, opts)
	},
}

func init() {
	convertCmd.Flags().String("base", "", "base currency code (default: first code of the table)")
	convertCmd.Flags().String("amount", "1", "amount in the base currency; ',' is accepted as decimal separator")
	convertCmd.Flags().StringSlice("track", nil, "extra currency codes to track, comma separated")
	convertCmd.Flags().Int("sample", calculator.DefaultSampleSize, "number of randomly sampled currencies to track")
}

func runConvert(ctx context.Context, w io.Writer, rates ports.RateSource, dates ports.DateSource, opts convertOptions) error {
	if opts.sampleSize < 0 {
		return fmt.Errorf("invalid sample size: %d", opts.sampleSize)
	}

	table, err := rates.FetchRates(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch rates: %w", err)
	}

	st := calculator.NewState(calculator.WithSampleSize(opts.sampleSize))
	if err := st.Load(table); err != nil {
		return err
	}

	// the date is informational; a failure only leaves it blank
	if date, err := dates.FetchAsOf(ctx); err != nil {
		log.Error("Fetch failed", "source", "date", "error", err)
	} else {
		st.SetAsOfDate(date)
	}

	if opts.base != "" {
		base := model.Currency(opts.base)
		if !table.Has(base) {
			return fmt.Errorf("unknown base currency: %s", opts.base)
		}
		st.SetBaseCurrency(base)
	}
	st.SetBaseAmount(opts.amount)
	for _, code := range opts.track {
		code = strings.TrimSpace(code)
		if code == "" {
			continue
		}
		st.SelectForAdd(model.Currency(code))
	}

	view := service.BuildView("", st)
	if view.AsOfDate != "" {
		fmt.Fprintf(w, "Rates as of %s\n", view.AsOfDate)
	}
	for _, row := range view.Rows {
		fmt.Fprintf(w, "%s: %s\n", row.Currency, row.Display)
	}
	return nil
}

// --- Codes Command ---

var codesCmd = &cobra.Command{
	Use:   "codes",
	Short: "List the currency codes of the rate table in source order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCodes(cmd.Context(), cmd.OutOrStdout(), api)
	},
}

func runCodes(ctx context.Context, w io.Writer, rates ports.RateSource) error {
	table, err := rates.FetchRates(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch rates: %w", err)
	}
	for _, code := range table.Codes() {
		fmt.Fprintln(w, code)
	}
	return nil
}
