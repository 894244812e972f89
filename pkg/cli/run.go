package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/AFDudley/briefcase-test-sub000/pkg/runner"
)

func newRunCmd() *cobra.Command {
	var (
		playbookPath  string
		inventoryPath string
		stallTimeout  time.Duration
		timeout       time.Duration
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute a playbook against an inventory",
		RunE: func(cmd *cobra.Command, args []string) error {
			pb, err := runner.LoadPlaybook(playbookPath)
			if err != nil {
				return err
			}
			inv, err := runner.LoadInventory(inventoryPath)
			if err != nil {
				return err
			}

			ctx := context.Background()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			exec := runner.New(runner.Config{
				Logger:       newLogger(),
				StallTimeout: stallTimeout,
			})
			report, err := exec.Run(ctx, pb, inv)
			if err != nil {
				return err
			}

			printReport(report)
			if report.Failed > 0 {
				return fmt.Errorf("%d task(s) failed", report.Failed)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&playbookPath, "playbook", "p", "playbook.yaml", "playbook file")
	cmd.Flags().StringVarP(&inventoryPath, "inventory", "i", "inventory.yaml", "inventory file")
	cmd.Flags().DurationVar(&stallTimeout, "stall-timeout", runner.DefaultStallTimeout, "max wait for any single result")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "overall run timeout (0 for none)")

	return cmd
}

func printReport(report *runner.Report) {
	fmt.Printf("run %s finished in %s\n", report.RunID, report.Elapsed.Round(time.Millisecond))

	ok := color.New(color.FgGreen)
	bad := color.New(color.FgRed, color.Bold)

	for _, res := range report.Results {
		if res.Failed() {
			bad.Printf("  FAIL %s/%s on %s: %s (attempts=%d)\n",
				res.Play, res.Task, res.Host, res.Error, res.Attempts)
		} else {
			ok.Printf("  ok   %s/%s on %s\n", res.Play, res.Task, res.Host)
		}
	}
	fmt.Printf("%d result(s), %d failed\n", len(report.Results), report.Failed)
}
