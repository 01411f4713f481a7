package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"curator/internal/history"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history [article-id]",
		Short: "Show the audit journal, newest first or per article",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			journal, err := ctx.journal()
			if err != nil {
				return err
			}
			if journal == nil {
				return errors.New("audit journal is disabled (set history.enabled = true)")
			}
			defer journal.Close()

			var events []history.Event
			if len(args) == 1 {
				articleID, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil || articleID <= 0 {
					return fmt.Errorf("invalid article id %q", args[0])
				}
				events, err = journal.ListByArticle(cmd.Context(), articleID)
				if err != nil {
					return err
				}
			} else {
				events, err = journal.ListRecent(cmd.Context(), limit)
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if len(events) == 0 {
				fmt.Fprintln(out, "No recorded events.")
				return nil
			}
			for _, event := range events {
				line := fmt.Sprintf("%s  article=%d  %s",
					event.CreatedAt.Local().Format(time.DateTime), event.ArticleID, event.Event)
				if event.FolderName != "" {
					line += "  folder=" + event.FolderName
				}
				if event.Detail != "" {
					line += "  " + event.Detail
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum events to show without an article filter")
	return cmd
}
