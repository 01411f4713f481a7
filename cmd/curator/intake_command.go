package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"curator/internal/workflow"
)

func newIntakeCommand(ctx *commandContext) *cobra.Command {
	var skipAdvance bool
	cmd := &cobra.Command{
		Use:   "intake <article-id>",
		Short: "Run the full intake workflow for one deposit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			articleID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil || articleID <= 0 {
				return fmt.Errorf("invalid article id %q", args[0])
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			client, err := ctx.client()
			if err != nil {
				return err
			}

			var opts []workflow.Option
			journal, err := ctx.journal()
			if err != nil {
				logger.Warn("audit journal unavailable, continuing without it", "error", err)
			} else if journal != nil {
				defer journal.Close()
				opts = append(opts, workflow.WithJournal(journal))
			}

			if skipAdvance {
				opts = append(opts, workflow.WithSkipAdvance())
			}

			orch := workflow.New(cfg, client, ctx.confirmer(), logger, opts...)
			outcome, err := orch.Intake(cmd.Context(), articleID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if outcome.AlreadyPresent {
				fmt.Fprintf(out, "Deposit %s already present in stage %s; nothing to do.\n",
					outcome.FolderName, outcome.ExistingStage)
				return nil
			}

			fmt.Fprintf(out, "Intake complete for article %d (%s)\n", outcome.ArticleID, outcome.FolderName)
			if outcome.DOI != "" {
				minted := "existing"
				if outcome.DOIMinted {
					minted = "minted"
				}
				fmt.Fprintf(out, "  Identifier: %s (%s)\n", outcome.DOI, minted)
			} else {
				fmt.Fprintln(out, "  Identifier: not reserved")
			}
			if outcome.Fetch != nil {
				fmt.Fprintf(out, "  Files: %d retrieved, %d failed\n",
					outcome.Fetch.Retrieved(), outcome.Fetch.Failed())
				for _, item := range outcome.Fetch.Items {
					if item.Err != nil {
						fmt.Fprintf(out, "    failed: %s (%v)\n", item.Name, item.Err)
					}
				}
			}
			if outcome.ManifestPath != "" {
				fmt.Fprintf(out, "  Manifest: %s\n", outcome.ManifestPath)
			}
			if outcome.Advanced {
				fmt.Fprintf(out, "  Stage: advanced %s -> %s\n", outcome.FromStage, outcome.ToStage)
			} else {
				fmt.Fprintln(out, "  Stage: unchanged")
			}
			fmt.Fprintf(out, "  Duration: %s\n", outcome.Duration.Round(time.Second))
			return nil
		},
	}
	cmd.Flags().BoolVar(&skipAdvance, "skip-advance", false, "Leave the deposit in its current stage after intake")
	return cmd
}
