package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/debtmap/internal/config"
	"github.com/hpungsan/debtmap/internal/mcp"
	"github.com/hpungsan/debtmap/internal/storage"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"init": true, "add": true, "show": true, "list": true,
	"update": true, "delete": true, "move": true,
	"scan": true, "report": true, "stats": true, "web": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode() bool {
	if len(os.Args) < 2 {
		return false // No args → MCP server
	}
	arg := os.Args[1]
	// Known subcommand → CLI
	if cliCommands[arg] {
		return true
	}
	// --help or --version → CLI
	if arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" {
		return true
	}
	return false // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion() bool {
	if len(os.Args) < 2 {
		return false
	}
	arg := os.Args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   _     _   _
  | |___| |_| |_ _ __  __ _ _ __
  |  _  | -_|  _|  _ \/ _' |  _ \
  |____||___|\__|_.__/\__,_|  __/
                           |_|
  Technical debt tracker

  Usage: debtmap <command> [options]
         debtmap --help

  MCP server mode requires piped input.`)
}

// appEnv bundles what every command needs: the storage engine, config, and
// the resolved project root.
type appEnv struct {
	eng  *storage.Engine
	cfg  *config.Config
	root string
}

// buildEnv resolves the project root upward from the working directory,
// loads the merged configuration, and wires the storage engine.
func buildEnv() (*appEnv, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("could not determine working directory: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("could not determine home directory: %w", err)
	}

	root := config.FindProjectRoot(cwd)
	cfg, err := config.LoadWithRepo(filepath.Join(homeDir, ".debtmap"), cwd)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	projectName := cfg.ProjectName
	if projectName == "" {
		projectName = filepath.Base(root)
	}

	eng := storage.NewEngine(
		cfg.StoragePath(root),
		projectName,
		storage.WithStaleAfter(cfg.LockStaleThreshold()),
	)

	return &appEnv{eng: eng, cfg: cfg, root: root}, nil
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before storage init (no engine needed)
	if isHelpOrVersion() {
		app := newCLIApp(nil)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	env, err := buildEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// CLI mode: known subcommand
	if isCLIMode() {
		app := newCLIApp(env)
		if err := app.Run(os.Args); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'debtmap --help' for usage.\n")
		os.Exit(1)
	}

	// MCP server mode (default). The MCP surface assumes the document
	// exists; initialize lazily so first use needs no explicit init.
	if err := env.eng.Initialize(); err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize storage: %v\n", err)
		os.Exit(1)
	}
	if err := mcp.Run(env.eng, env.cfg, env.root, Version); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
