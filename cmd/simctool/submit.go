package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wowlab/guildsim/internal/simjob"
	"github.com/wowlab/guildsim/internal/simulation"
)

func newSubmitCmd() *cobra.Command {
	var (
		serverURL string
		output    string
	)

	cmd := &cobra.Command{
		Use:   "submit <input-file>",
		Short: "Submit a simc input to a guildsim server and wait for the report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readInput(args[0])
			if err != nil {
				return err
			}

			client, err := simjob.New(simjob.Config{BaseURL: serverURL})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			job, err := client.Submit(ctx, input)
			if err != nil {
				return err
			}

			// Ctrl-C cancels the remote job before exiting.
			go func() {
				<-ctx.Done()
				job.Cancel()
			}()

			var (
				report string
				runErr error
			)
			for ev := range job.Updates() {
				switch ev.Type {
				case simulation.EventStatus:
					fmt.Fprintf(cmd.ErrOrStderr(), "status: %s\n", ev.Content)
				case simulation.EventQueuePosition:
					fmt.Fprintf(cmd.ErrOrStderr(), "queue position: %d\n", ev.Position)
				case simulation.EventEstimatedWait:
					fmt.Fprintf(cmd.ErrOrStderr(), "estimated wait: %ds\n", ev.Wait)
				case simulation.EventStdout:
					fmt.Fprintln(cmd.ErrOrStderr(), ev.Content)
				case simulation.EventStderr:
					fmt.Fprintln(cmd.ErrOrStderr(), ev.Content)
				case simulation.EventError:
					runErr = fmt.Errorf("simulation failed: %s", ev.Content)
				case simulation.EventResult:
					report = ev.Content
				}
			}

			if runErr != nil {
				return runErr
			}
			if report == "" {
				return fmt.Errorf("job %s finished without a report", job.ID())
			}

			if output == "" || output == "-" {
				fmt.Fprint(cmd.OutOrStdout(), report)
				return nil
			}
			if err := os.WriteFile(output, []byte(report), 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "report written to %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "guildsim server base URL")
	cmd.Flags().StringVarP(&output, "output", "o", "", "report output file (default stdout)")
	return cmd
}
