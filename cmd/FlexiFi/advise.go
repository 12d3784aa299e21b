package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sebuszqo/FlexiFi/internal/cli"
	"github.com/sebuszqo/FlexiFi/internal/finance/advisory"
	"github.com/sebuszqo/FlexiFi/internal/finance/interfaces"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	flagFile           string
	flagToday          string
	flagKind           string
	flagAmount         string
	flagOutput         string
	flagTightnessRatio float64
)

var adviseCmd = &cobra.Command{
	Use:   "advise",
	Short: "Compute advisory facts offline from a JSON export",
	Example: `  flexifi advise --file export.json
  flexifi advise --file export.json --today 2024-07-22 --amount 5000 --output yaml`,
	Annotations: map[string]string{"config": "skip"},
	RunE:        runAdvise,
}

func init() {
	adviseCmd.Flags().StringVarP(&flagFile, "file", "f", "", "JSON export with transactions, budgets and savings_goals")
	adviseCmd.Flags().StringVar(&flagToday, "today", "", "reference day YYYY-MM-DD (default: today)")
	adviseCmd.Flags().StringVarP(&flagKind, "kind", "k", "", "query kind: general, budget, savings or affordability")
	adviseCmd.Flags().StringVarP(&flagAmount, "amount", "a", "", "proposed purchase amount")
	adviseCmd.Flags().StringVarP(&flagOutput, "output", "o", cli.FormatText, "output format: text, json or yaml")
	adviseCmd.Flags().Float64Var(&flagTightnessRatio, "tightness-ratio", 0.5, "allowance ratio below which a purchase is CAUTION")
	_ = adviseCmd.MarkFlagRequired("file")
}

func runAdvise(cmd *cobra.Command, args []string) error {
	file, err := os.Open(flagFile)
	if err != nil {
		return fmt.Errorf("could not open dataset: %w", err)
	}
	defer file.Close()

	dataset, err := cli.ReadDataset(file)
	if err != nil {
		return err
	}

	req := interfaces.AdviceRequest{Today: flagToday, QueryKind: flagKind}
	if flagAmount != "" {
		amount, err := decimal.NewFromString(flagAmount)
		if err != nil {
			return fmt.Errorf("invalid --amount %q: %w", flagAmount, err)
		}
		req.ProposedAmount = &amount
	}
	query, err := req.Query()
	if err != nil {
		return err
	}
	if query.Today.IsZero() {
		query.Today = time.Now()
	}

	composer := advisory.NewComposer(advisory.NewEvaluator(advisory.PolicyFromRatio(flagTightnessRatio)))
	facts, err := composer.Compose(advisory.Input{
		Transactions:   dataset.Transactions,
		Budgets:        dataset.Budgets,
		Goals:          dataset.Goals,
		Today:          query.Today,
		Kind:           query.Kind,
		ProposedAmount: query.ProposedAmount,
	})
	if err != nil {
		return err
	}

	return cli.Write(cmd.OutOrStdout(), facts, flagOutput)
}
