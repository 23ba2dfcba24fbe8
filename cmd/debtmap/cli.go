package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/debtmap/internal/config"
	"github.com/hpungsan/debtmap/internal/debt"
	"github.com/hpungsan/debtmap/internal/errors"
	"github.com/hpungsan/debtmap/internal/ops"
	"github.com/hpungsan/debtmap/internal/web"
)

// newCLIApp creates the CLI application with all commands.
func newCLIApp(env *appEnv) *cli.App {
	app := &cli.App{
		Name:    "debtmap",
		Usage:   "Track technical debt for a project",
		Version: Version,
		Commands: []*cli.Command{
			initCmd(env),
			addCmd(env),
			showCmd(env),
			listCmd(env),
			updateCmd(env),
			deleteCmd(env),
			moveCmd(env),
			scanCmd(env),
			reportCmd(env),
			statsCmd(env),
			webCmd(env),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// initCmd creates the init command.
func initCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Create the debt document and repo config if they do not exist",
		Action: func(c *cli.Context) error {
			if err := env.eng.Initialize(); err != nil {
				return outputError(err)
			}
			configPath, err := config.WriteRepoConfig(env.root, &config.Config{
				ProjectName: env.cfg.ProjectName,
			})
			if err != nil {
				return outputError(errors.NewIO(err))
			}
			return outputJSON(map[string]any{
				"storage":     env.eng.Path(),
				"config":      configPath,
				"initialized": true,
			})
		},
	}
}

// addCmd creates the add command.
func addCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "add",
		Usage: "Create a debt entry",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Required: true, Usage: "Short summary (max 100 chars)"},
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Required: true, Usage: "Explanation (max 500 chars)"},
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Required: true, Usage: "Project-relative file path"},
			&cli.IntFlag{Name: "line", Aliases: []string{"l"}, Required: true, Usage: "1-based line number"},
			&cli.StringFlag{Name: "severity", Usage: "low|medium|high|critical (default low)"},
			&cli.StringFlag{Name: "category", Usage: "Category token (default other)"},
			&cli.StringFlag{Name: "priority", Usage: "low|normal|high|urgent (default normal)"},
			&cli.StringFlag{Name: "due", Usage: "Due date (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "tags", Usage: "Comma-separated tags"},
			&cli.StringFlag{Name: "context", Usage: "Surrounding-code context"},
			&cli.StringFlag{Name: "assignee", Usage: "Assignee"},
			&cli.StringFlag{Name: "effort", Usage: "Effort estimate"},
			&cli.StringFlag{Name: "notes", Usage: "Notes (markdown allowed)"},
		},
		Action: func(c *cli.Context) error {
			if err := env.eng.Initialize(); err != nil {
				return outputError(err)
			}

			input := ops.CreateInput{
				Title:       c.String("title"),
				Description: c.String("description"),
				FilePath:    c.String("file"),
				LineNumber:  c.Int("line"),
				Severity:    c.String("severity"),
				Category:    c.String("category"),
				Priority:    c.String("priority"),
				Tags:        parseTags(c.String("tags")),
			}
			if due := c.String("due"); due != "" {
				t, err := time.Parse("2006-01-02", due)
				if err != nil {
					return outputError(errors.NewValidation("due", "must be YYYY-MM-DD"))
				}
				input.DueDate = &t
			}
			for flag, dst := range map[string]**string{
				"context": &input.Context, "assignee": &input.Assignee,
				"effort": &input.Effort, "notes": &input.Notes,
			} {
				if v := c.String(flag); v != "" {
					value := v
					*dst = &value
				}
			}

			output, err := ops.Create(env.eng, input)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// showCmd creates the show command.
func showCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "show",
		Usage:     "Show one debt entry",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Get(env.eng, ops.GetInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// listCmd creates the list command.
func listCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List debt entries in insertion order",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "Filter by exact file path"},
			&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "Filter by status"},
			&cli.StringFlag{Name: "severity", Usage: "Filter by severity"},
			&cli.StringFlag{Name: "category", Usage: "Filter by category"},
			&cli.StringFlag{Name: "tag", Usage: "Filter by tag"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.List(env.eng, ops.ListInput{
				FilePath: c.String("file"),
				Status:   c.String("status"),
				Severity: c.String("severity"),
				Category: c.String("category"),
				Tag:      c.String("tag"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// updateCmd creates the update command. Flags translate into an explicit
// patch: only flags actually set on the command line are applied.
func updateCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "Partially update a debt entry",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "New title"},
			&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "New description"},
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "New file path"},
			&cli.IntFlag{Name: "line", Aliases: []string{"l"}, Usage: "New line number"},
			&cli.StringFlag{Name: "severity", Usage: "New severity"},
			&cli.StringFlag{Name: "category", Usage: "New category"},
			&cli.StringFlag{Name: "status", Usage: "New status (whitelist-gated)"},
			&cli.StringFlag{Name: "priority", Usage: "New priority"},
			&cli.StringFlag{Name: "due", Usage: "New due date (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "tags", Usage: "Replacement comma-separated tag set"},
			&cli.StringFlag{Name: "context", Usage: "New context"},
			&cli.StringFlag{Name: "assignee", Usage: "New assignee"},
			&cli.StringFlag{Name: "effort", Usage: "New effort estimate"},
			&cli.StringFlag{Name: "notes", Usage: "New notes"},
			&cli.BoolFlag{Name: "clear-due", Usage: "Remove the due date"},
			&cli.BoolFlag{Name: "clear-context", Usage: "Remove the context"},
			&cli.BoolFlag{Name: "clear-assignee", Usage: "Remove the assignee"},
			&cli.BoolFlag{Name: "clear-effort", Usage: "Remove the effort estimate"},
			&cli.BoolFlag{Name: "clear-notes", Usage: "Remove the notes"},
		},
		Action: func(c *cli.Context) error {
			patch := debt.Patch{
				ClearDueDate:  c.Bool("clear-due"),
				ClearContext:  c.Bool("clear-context"),
				ClearAssignee: c.Bool("clear-assignee"),
				ClearEffort:   c.Bool("clear-effort"),
				ClearNotes:    c.Bool("clear-notes"),
			}

			setString := func(flag string, dst **string) {
				if c.IsSet(flag) {
					v := c.String(flag)
					*dst = &v
				}
			}
			setString("title", &patch.Title)
			setString("description", &patch.Description)
			setString("file", &patch.FilePath)
			setString("context", &patch.Context)
			setString("assignee", &patch.Assignee)
			setString("effort", &patch.Effort)
			setString("notes", &patch.Notes)

			if c.IsSet("line") {
				line := c.Int("line")
				patch.LineNumber = &line
			}
			if c.IsSet("severity") {
				s := debt.Severity(c.String("severity"))
				patch.Severity = &s
			}
			if c.IsSet("category") {
				cat := debt.Category(c.String("category"))
				patch.Category = &cat
			}
			if c.IsSet("status") {
				s := debt.Status(c.String("status"))
				patch.Status = &s
			}
			if c.IsSet("priority") {
				p := debt.Priority(c.String("priority"))
				patch.Priority = &p
			}
			if c.IsSet("due") {
				t, err := time.Parse("2006-01-02", c.String("due"))
				if err != nil {
					return outputError(errors.NewValidation("due", "must be YYYY-MM-DD"))
				}
				patch.DueDate = &t
			}
			if c.IsSet("tags") {
				tags := parseTags(c.String("tags"))
				patch.Tags = &tags
			}

			output, err := ops.Update(env.eng, ops.UpdateInput{
				ID:    c.Args().First(),
				Patch: patch,
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// deleteCmd creates the delete command.
func deleteCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "Permanently remove a debt entry",
		ArgsUsage: "<id>",
		Action: func(c *cli.Context) error {
			output, err := ops.Delete(env.eng, ops.DeleteInput{ID: c.Args().First()})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// moveCmd creates the move command (status transition).
func moveCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:      "move",
		Usage:     "Move a debt entry to a new status (whitelist-gated)",
		ArgsUsage: "<id> <status>",
		Action: func(c *cli.Context) error {
			if c.NArg() != 2 {
				return outputError(errors.NewInvalidRequest("usage: debtmap move <id> <status>"))
			}
			output, err := ops.Transition(env.eng, ops.TransitionInput{
				ID:     c.Args().Get(0),
				Status: c.Args().Get(1),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// scanCmd creates the scan command.
func scanCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "scan",
		Usage: "Scan the workspace for debt markers",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "root", Usage: "Scan root (default: project root)"},
			&cli.StringFlag{Name: "markers", Usage: "Comma-separated marker vocabulary override"},
			&cli.StringFlag{Name: "include", Usage: "Comma-separated include glob override"},
			&cli.StringFlag{Name: "exclude", Usage: "Comma-separated exclude glob override"},
			&cli.BoolFlag{Name: "apply", Usage: "Create entries for candidates not already tracked"},
		},
		Action: func(c *cli.Context) error {
			if err := env.eng.Initialize(); err != nil {
				return outputError(err)
			}

			root := c.String("root")
			if root == "" {
				root = env.root
			}

			output, err := ops.Scan(c.Context, env.eng, env.cfg, ops.ScanInput{
				Root:    root,
				Markers: parseTags(c.String("markers")),
				Include: parseTags(c.String("include")),
				Exclude: parseTags(c.String("exclude")),
				Apply:   c.Bool("apply"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// reportCmd creates the report command.
func reportCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "report",
		Usage: "Write a grouped debt report to disk",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "path", Aliases: []string{"o"}, Usage: "Output path"},
			&cli.StringFlag{Name: "format", Value: "markdown", Usage: "markdown|html"},
			&cli.StringFlag{Name: "status", Usage: "Restrict to one status"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Report(env.eng, ops.ReportInput{
				Path:   c.String("path"),
				Format: c.String("format"),
				Status: c.String("status"),
			})
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// statsCmd creates the stats command.
func statsCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Summarize tracked debt",
		Action: func(c *cli.Context) error {
			output, err := ops.Stats(env.eng)
			if err != nil {
				return outputError(err)
			}
			return outputJSON(output)
		},
	}
}

// webCmd creates the web command.
func webCmd(env *appEnv) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve the local web UI",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Value: "127.0.0.1", Usage: "Bind address"},
			&cli.IntFlag{Name: "port", Value: 7797, Usage: "Port"},
		},
		Action: func(c *cli.Context) error {
			if err := env.eng.Initialize(); err != nil {
				return outputError(err)
			}
			srv := web.NewServer(env.eng, env.cfg, Version, c.String("bind"), c.Int("port"))
			return web.Run(srv)
		},
	}
}

// outputJSON writes indented JSON to stdout.
func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	if dErr, ok := err.(*errors.DebtError); ok {
		return cli.Exit(fmt.Sprintf("[%s] %s", dErr.Code, dErr.Message), 1)
	}
	return cli.Exit(err.Error(), 1)
}

// parseTags splits a comma-separated string into a slice of tags.
func parseTags(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
