package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/taskflow/taskflow-api/internal/client"
	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/schema"
)

type remoteFlags struct {
	server string
	token  string
}

func (f *remoteFlags) bind(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.server, "server", envOr("TASKFLOW_URL", "http://localhost:8080"), "API base URL")
	cmd.PersistentFlags().StringVar(&f.token, "token", envOr("TASKFLOW_TOKEN", ""), "bearer token")
}

func (f *remoteFlags) client() *client.Client {
	return client.New(f.server, client.WithToken(f.token))
}

func newLoginCmd() *cobra.Command {
	var remote remoteFlags
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and print a bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := client.New(remote.server)
			user, err := c.Login(cmd.Context(), schema.LoginInput{Email: email, Password: password})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "signed in as %s (%s)\n", user.Username, user.Role)
			fmt.Fprintln(cmd.OutOrStdout(), c.Token())
			return nil
		},
	}

	remote.bind(cmd)
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newTasksCmd() *cobra.Command {
	var remote remoteFlags

	cmd := &cobra.Command{
		Use:   "tasks",
		Short: "Manage your tasks",
	}
	remote.bind(cmd)

	var query schema.TaskQuery
	list := &cobra.Command{
		Use:   "list",
		Short: "List tasks",
		RunE: func(cmd *cobra.Command, args []string) error {
			tasks, err := remote.client().Tasks(cmd.Context(), query)
			if err != nil {
				return err
			}
			if len(tasks) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no tasks")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDONE\tDUE\tPRIORITY\tTAG\tTITLE")
			for _, t := range tasks {
				done := " "
				if t.Completed {
					done = "x"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", t.ID, done, t.DueDate, t.Priority, t.Tag, t.Title)
			}
			return w.Flush()
		},
	}
	list.Flags().StringVar(&query.Status, "status", "", "all, pending or completed")
	list.Flags().StringVar(&query.Tag, "tag", "", "Work, Personal, Urgent or Shopping")
	list.Flags().StringVar(&query.Search, "search", "", "text to look for in title or description")

	var form schema.TaskForm
	var priority, tag string
	add := &cobra.Command{
		Use:   "add TITLE",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form.Title = args[0]
			form.Priority = models.TaskPriority(priority)
			form.Tag = models.TaskTag(tag)
			task, err := remote.client().CreateTask(cmd.Context(), form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created task %d\n", task.ID)
			return nil
		},
	}
	add.Flags().StringVar(&form.Description, "description", "", "details")
	add.Flags().StringVar(&form.DueDate, "due", "", "due date (YYYY-MM-DD)")
	add.Flags().StringVar(&priority, "priority", string(models.PriorityMedium), "high, medium or low")
	add.Flags().StringVar(&tag, "tag", string(models.TagPersonal), "Work, Personal, Urgent or Shopping")
	add.MarkFlagRequired("due")

	toggle := &cobra.Command{
		Use:   "toggle ID",
		Short: "Flip a task between pending and completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}
			task, err := remote.client().ToggleTask(cmd.Context(), id)
			if err != nil {
				return err
			}
			state := "pending"
			if task.Completed {
				state = "completed"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "task %d is now %s\n", task.ID, state)
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}
			if err := remote.client().DeleteTask(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted task %d\n", id)
			return nil
		},
	}

	cmd.AddCommand(list, add, toggle, del)
	return cmd
}
