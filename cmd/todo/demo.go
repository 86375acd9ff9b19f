package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"todo/internal/output"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Complete the first task and delete the second concurrently",
	Long: `demo starts a fresh session, requests completion of the first seeded
task and deletion of the second at the same time, waits for both
confirmations and prints the resulting status table.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		orch, err := newOrchestrator(ctx, cfg)
		if err != nil {
			return err
		}

		tasks := orch.View().Tasks()
		if len(tasks) < 2 {
			return errors.New("demo needs at least two seeded tasks")
		}

		var g errgroup.Group
		g.Go(func() error {
			return orch.RequestComplete(ctx, tasks[0].ID)
		})
		g.Go(func() error {
			return orch.RequestDelete(ctx, tasks[1].ID)
		})
		if err := g.Wait(); err != nil {
			return err
		}

		v := orch.View()
		out := cmd.OutOrStdout()
		output.StatusTable(out, v.Tasks(), v)
		if !cfg.Quiet {
			for _, t := range tasks[:2] {
				if _, ok := v.Task(t.ID); !ok {
					fmt.Fprintf(out, "deleted #%d %s\n", t.ID, t.Title)
				}
			}
		}
		return nil
	},
}
