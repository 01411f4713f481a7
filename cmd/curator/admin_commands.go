package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"curator/internal/doi"
	"curator/internal/figshare"
	"curator/internal/report"
)

func newAccountsCommand(ctx *commandContext) *cobra.Command {
	var ignoreFilter bool
	var csvDir string

	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "List institutional accounts with counts and role flags",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			filter := ctx.accountFilter()
			if ignoreFilter {
				filter = figshare.AccountFilter{}
			}

			details, err := client.AccountDetails(cmd.Context(), filter)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, report.RenderAccounts(details))
			fmt.Fprintf(out, "%d accounts\n", len(details))

			if csvDir != "" {
				gen := report.NewGenerator(logger)
				path, err := gen.WriteAccountsCSV(csvDir, details)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "CSV written to %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&ignoreFilter, "all", false, "Include administrative and test accounts")
	cmd.Flags().StringVar(&csvDir, "csv-dir", "", "Also write accounts.csv into this directory")
	return cmd
}

func newReviewsCommand(ctx *commandContext) *cobra.Command {
	var articleID int64

	cmd := &cobra.Command{
		Use:   "reviews",
		Short: "List curation reviews, optionally for one article",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}

			reviews, err := client.CurationList(cmd.Context(), articleID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, report.RenderReviews(reviews))
			fmt.Fprintf(out, "%d reviews\n", len(reviews))
			return nil
		},
	}

	cmd.Flags().Int64Var(&articleID, "article", 0, "Narrow the listing to one article id")
	return cmd
}

func newDOICommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doi <article-id>",
		Short: "Check or reserve the persistent identifier for a deposit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			articleID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || articleID <= 0 {
				return fmt.Errorf("invalid article id %q", args[0])
			}

			client, err := ctx.client()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			gate := doi.NewGate(client, ctx.confirmer(), logger)
			result, err := gate.EnsureIdentifier(cmd.Context(), articleID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case result.Minted:
				fmt.Fprintf(out, "Reserved %s for article %d\n", result.DOI, articleID)
			case result.DOI != "":
				fmt.Fprintf(out, "Article %d already has identifier %s\n", articleID, result.DOI)
			default:
				fmt.Fprintf(out, "Article %d has no identifier; reservation skipped\n", articleID)
			}
			return nil
		},
	}
}
