package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/propertybazaar/server/internal/finance"
)

func newEMICmd(opts *rootOptions) *cobra.Command {
	var (
		price, loan, rate float64
		years             int
	)
	cmd := &cobra.Command{
		Use:   "emi",
		Short: "Compute the monthly instalment for a home loan",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if loan <= 0 {
				loan = price * finance.DefaultLoanRatio
			}
			if loan <= 0 {
				return fmt.Errorf("either --loan or --price must be positive")
			}
			if !finance.ValidAmount(loan) {
				return fmt.Errorf("loan must not exceed %.0f", finance.MaxAmount)
			}
			if !finance.ValidRate(rate) {
				return fmt.Errorf("--rate must be between 0 and %g", finance.MaxRatePct)
			}
			if years < 1 || years > finance.MaxTenureYears {
				return fmt.Errorf("--years must be between 1 and %d", finance.MaxTenureYears)
			}
			printf(opts, "loan %.0f at %.2f%% for %d years: EMI %.0f\n", loan, rate, years, finance.EMI(loan, rate, years))
			return nil
		},
	}
	cmd.Flags().Float64Var(&price, "price", 0, "property price; the loan defaults to 80% of it")
	cmd.Flags().Float64Var(&loan, "loan", 0, "loan amount")
	cmd.Flags().Float64Var(&rate, "rate", finance.BankRates[0].Rate, "annual interest rate in percent")
	cmd.Flags().IntVar(&years, "years", 20, "tenure in years")
	return cmd
}

func newPredictCmd(opts *rootOptions) *cobra.Command {
	var (
		price       float64
		city, ptype string
		years       int
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Estimate a future price from city growth rates",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if !finance.ValidAmount(price) {
				return fmt.Errorf("--price must be positive and at most %.0f", finance.MaxAmount)
			}
			p := finance.Predict(price, city, ptype, years)
			printf(opts, "in %d years at %.1f%%/yr: %.0f (+%.0f)\n", p.Years, p.GrowthRate*100, p.PredictedPrice, p.Appreciation)
			return nil
		},
	}
	cmd.Flags().Float64Var(&price, "price", 0, "current price")
	cmd.Flags().StringVar(&city, "city", "", "city name")
	cmd.Flags().StringVar(&ptype, "type", "", "property type, e.g. Apartment or Villa")
	cmd.Flags().IntVar(&years, "years", 5, "years ahead (1-15)")
	return cmd
}
