package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/datagraph/internal/assignment"
	"github.com/jonathan/datagraph/internal/db"
	"github.com/jonathan/datagraph/internal/observability"
)

var assignCmd = &cobra.Command{
	Use:   "assign",
	Short: "Assign qualified workers to one project or to every open project",
	Long:  "Runs the selector against the live database and commits the new assignments. Prints the result as JSON.",
	RunE:  runAssign,
}

var (
	assignProjectID string
	assignAll       bool
	assignVerbose   bool
)

func init() {
	assignCmd.Flags().StringVarP(&assignProjectID, "project", "p", "", "Project ID to assign")
	assignCmd.Flags().BoolVar(&assignAll, "all", false, "Assign every open project")
	assignCmd.Flags().BoolVarP(&assignVerbose, "verbose", "v", false, "Print a summary box to stderr")
	assignCmd.MarkFlagsMutuallyExclusive("project", "all")
	assignCmd.MarkFlagsOneRequired("project", "all")

	rootCmd.AddCommand(assignCmd)
}

func runAssign(cmd *cobra.Command, _ []string) error {
	var projectID uuid.UUID
	if !assignAll {
		id, err := uuid.Parse(assignProjectID)
		if err != nil {
			return fmt.Errorf("invalid --project: %w", err)
		}
		projectID = id
	}

	rt, err := loadRuntime()
	if err != nil {
		return err
	}
	defer func() { _ = rt.log.Sync() }()

	if err := requireDatabaseURL(rt.cfg); err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	database, err := db.Connect(ctx, rt.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	svc := assignment.NewService(database, assignment.Options{
		Matcher:       rt.matcher,
		Logger:        rt.log,
		Concurrency:   rt.cfg.AutoAssign.Concurrency,
		CommitRetries: rt.cfg.AutoAssign.CommitRetries,
	})

	return executeAssign(ctx, svc, projectID, assignAll, cmd.OutOrStdout(), verboseWriter(cmd, assignVerbose))
}

// executeAssign runs one assignment mode and writes its JSON result to out.
func executeAssign(ctx context.Context, svc *assignment.Service, projectID uuid.UUID, all bool, out, verbose io.Writer) error {
	var result any
	if all {
		res, err := svc.AutoAssign(ctx)
		if err != nil {
			return fmt.Errorf("auto-assign failed: %w", err)
		}
		if verbose != nil {
			observability.NewPrinter(verbose).PrintAutoAssign(res)
		}
		result = res
	} else {
		res, err := svc.AssignProject(ctx, projectID)
		if err != nil {
			return fmt.Errorf("assign project %s: %w", projectID, err)
		}
		if verbose != nil {
			_, _ = fmt.Fprintf(verbose, "Assigned %d of %d qualified (%d considered)\n", res.Assigned, res.Qualified, res.Considered)
		}
		result = res
	}

	return writeJSON(out, result)
}

func writeJSON(out io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal result to JSON: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func verboseWriter(cmd *cobra.Command, verbose bool) io.Writer {
	if !verbose {
		return nil
	}
	return cmd.ErrOrStderr()
}
