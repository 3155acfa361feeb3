package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/phrazzld/taskhub/internal/analysis"
	"github.com/phrazzld/taskhub/internal/client"
	"github.com/phrazzld/taskhub/internal/config"
	"github.com/phrazzld/taskhub/internal/domain"
	"github.com/phrazzld/taskhub/internal/tui"
	"github.com/spf13/cobra"
)

// rootCommand holds state shared by every subcommand.
type rootCommand struct {
	cmd     *cobra.Command
	out     io.Writer
	apiURL  string
	timeout time.Duration
	client  *client.Client
}

// newRootCommand builds the taskhub command tree writing output to out.
func newRootCommand(out io.Writer) *cobra.Command {
	root := &rootCommand{out: out}

	root.cmd = &cobra.Command{
		Use:   "taskhub",
		Short: "A terminal client for the TaskHub API",
		Long: `taskhub talks to a TaskHub server to add, search and summarize tasks.

EXAMPLES:
  taskhub ui                               # Open the interactive UI
  taskhub add "Buy milk" --due 2030-01-02  # Add a task with a due date
  taskhub list milk                        # Tasks whose title contains "milk"
  taskhub analyze                          # Task count and next due date

CONFIGURATION:
  TASKHUB_API_URL                          API base URL (default: http://localhost:3000)
  TASKHUB_TIMEOUT_SECONDS                  Request timeout (default: 10)`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return root.setupClient(cmd)
		},
	}
	root.cmd.SetOut(out)

	root.cmd.PersistentFlags().StringVar(&root.apiURL, "api", "",
		"API base URL (overrides TASKHUB_API_URL)")

	root.cmd.AddCommand(
		root.uiCommand(),
		root.addCommand(),
		root.listCommand(),
		root.analyzeCommand(),
	)

	return root.cmd
}

// setupClient loads client settings and applies flag overrides.
func (r *rootCommand) setupClient(cmd *cobra.Command) error {
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("api") {
		cfg.APIURL = r.apiURL
	}

	r.timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	r.client, err = client.New(cfg.APIURL, client.WithHTTPClient(&http.Client{Timeout: r.timeout}))
	return err
}

func (r *rootCommand) requestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), r.timeout)
}

func (r *rootCommand) uiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the interactive task UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(r.client, tui.WithRequestTimeout(r.timeout))
		},
	}
}

func (r *rootCommand) addCommand() *cobra.Command {
	var due string

	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Add a task",
		Long:  "Add a task. All arguments are joined into the title.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.TrimSpace(strings.Join(args, " "))
			if err := domain.ValidateTitle(title); err != nil {
				return err
			}
			if _, err := domain.ParseDue(due); err != nil {
				return err
			}

			ctx, cancel := r.requestContext()
			defer cancel()

			task, err := r.client.CreateTask(ctx, client.CreateTaskRequest{Title: title, Due: due})
			if err != nil {
				return fmt.Errorf("add task: %w", err)
			}
			_, err = fmt.Fprintf(r.out, "Added task %s: %s\n", task.ID, formatTask(task))
			return err
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD or RFC 3339)")

	return cmd
}

func (r *rootCommand) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list [query]",
		Short: "List tasks, newest first",
		Long:  "List tasks, newest first. A query keeps only titles containing it, ignoring case.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var q string
			if len(args) == 1 {
				q = strings.TrimSpace(args[0])
			}

			ctx, cancel := r.requestContext()
			defer cancel()

			tasks, err := r.client.ListTasks(ctx, q)
			if err != nil {
				return fmt.Errorf("list tasks: %w", err)
			}
			if len(tasks) == 0 {
				_, err = fmt.Fprintln(r.out, "No tasks found")
				return err
			}
			for _, task := range tasks {
				if _, err := fmt.Fprintf(r.out, "- %s\n", formatTask(task)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (r *rootCommand) analyzeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Summarize the task list",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := r.requestContext()
			defer cancel()

			tasks, err := r.client.ListTasks(ctx, "")
			if err != nil {
				return fmt.Errorf("list tasks: %w", err)
			}
			return analysis.Summarize(tasks, time.Now().UTC()).Write(r.out)
		},
	}
}

func formatTask(task *domain.Task) string {
	if task.Due == nil {
		return task.Title
	}
	return fmt.Sprintf("%s (due %s)", task.Title, task.Due.UTC().Format(domain.DueDateLayout))
}
