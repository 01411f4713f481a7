package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"curator/internal/services"
	"curator/internal/stagefs"
	"curator/internal/workflow"
)

func newLocateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "locate <folder-name>",
		Short: "Report which curation stage holds a deposit folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			manager := stagefs.New(cfg, logger)
			loc, found, err := manager.Locate(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !found {
				fmt.Fprintf(out, "Deposit %s is not present in any stage.\n", args[0])
				return nil
			}
			fmt.Fprintf(out, "Deposit %s is in stage %s (%s)\n", args[0], loc.Stage, loc.Path)
			return nil
		},
	}
}

func newAdvanceCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "advance <folder-name>",
		Short: "Move a deposit folder to the next curation stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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

			orch := workflow.New(cfg, client, ctx.confirmer(), logger, opts...)
			next, moved, err := orch.Advance(cmd.Context(), args[0])
			out := cmd.OutOrStdout()
			if err != nil {
				if errors.Is(err, services.ErrInvalidTransition) {
					return fmt.Errorf("deposit %s is already at the terminal stage", args[0])
				}
				return err
			}
			if !moved {
				fmt.Fprintf(out, "Deposit %s stays in stage %s.\n", args[0], next.Stage)
				return nil
			}
			fmt.Fprintf(out, "Deposit %s advanced to stage %s.\n", args[0], next.Stage)
			return nil
		},
	}
}
