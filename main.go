package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	mdcli "github.com/sammcj/mdquotes/internal/cli"
	"github.com/sammcj/mdquotes/internal/config"
	"github.com/sammcj/mdquotes/internal/converter"
	"github.com/sammcj/mdquotes/internal/registry"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	// Import all tool packages to register them
	_ "github.com/sammcj/mdquotes/internal/tools/smartquotes"
)

// Version information (set during build)
var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// parseLogLevel parses the LOG_LEVEL environment variable and returns the appropriate logrus level.
// Defaults to WarnLevel if not set or invalid.
func parseLogLevel() logrus.Level {
	logLevelStr := os.Getenv("LOG_LEVEL")
	if logLevelStr == "" {
		return logrus.WarnLevel
	}

	switch strings.ToLower(strings.TrimSpace(logLevelStr)) {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	case "panic":
		return logrus.PanicLevel
	default:
		return logrus.WarnLevel
	}
}

func main() {
	// A .env file is optional; absence is not an error.
	_ = godotenv.Load()

	// Create context with signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(parseLogLevel())
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	// Initialise the registry (tools self-register via package imports)
	registry.Init(logger)

	app := &cli.Command{
		Name:    "mdquotes",
		Usage:   "Convert quotation marks between straight and curly forms in Markdown",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		Commands: []*cli.Command{
			convertCommand("curl", "Convert straight quotes to curly (typographic) quotes", converter.DirectionCurl, logger),
			convertCommand("straighten", "Convert curly (typographic) quotes to straight quotes", converter.DirectionStraighten, logger),
			serveCommand(logger),
			{
				Name:  "version",
				Usage: "Print version information",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Printf("mdquotes version %s\n", Version)
					fmt.Printf("Commit: %s\n", Commit)
					fmt.Printf("Built: %s\n", BuildDate)
					return nil
				},
			},
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			if msg := exitErr.Error(); msg != "" {
				fmt.Fprintln(os.Stderr, msg)
			}
			os.Exit(exitErr.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// convertCommand builds the curl/straighten command. Both directions share
// flags and behaviour; only the conversion direction differs.
func convertCommand(name, usage string, direction converter.Direction, logger *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "<path>... (file, directory, or '-' for stdin)",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "inplace",
				Aliases: []string{"i"},
				Usage:   "Write the converted result back to the source file",
			},
			&cli.BoolFlag{
				Name:    "check",
				Aliases: []string{"c"},
				Usage:   "Report whether conversion is needed without writing (exit status 1 when it is)",
			},
			&cli.BoolFlag{
				Name:    "watch",
				Aliases: []string{"w"},
				Usage:   "Keep running and re-convert files as they change (requires --inplace)",
			},
			&cli.StringFlag{
				Name:    "config",
				Usage:   "Path to config file (default: ~/.mdquotes/config.yaml)",
				Sources: cli.EnvVars("MDQUOTES_CONFIG"),
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(cmd.String("config"))
			if err != nil {
				return err
			}

			opts := mdcli.Options{
				Direction: direction,
				InPlace:   cmd.Bool("inplace"),
				Check:     cmd.Bool("check"),
			}

			watch := cmd.Bool("watch")
			if watch && !opts.InPlace {
				return fmt.Errorf("--watch requires --inplace")
			}
			if watch && opts.Check {
				return fmt.Errorf("--watch cannot be combined with --check")
			}

			runner := mdcli.NewRunner(logger, cfg, os.Stdin, os.Stdout)
			paths := cmd.Args().Slice()

			// Initial pass. In watch mode this brings every file up to
			// date before we start waiting for changes.
			if err := runner.Run(paths, opts); err != nil {
				if errors.Is(err, mdcli.ErrNeedsConversion) {
					// Verdicts are already printed; just set the status.
					return cli.Exit("", 1)
				}
				return err
			}

			if watch {
				files, _, err := runner.ExpandPaths(paths)
				if err != nil {
					return err
				}
				return runner.Watch(ctx, files, opts)
			}

			return nil
		},
	}
}

// serveCommand runs the MCP stdio server exposing the registered tools.
func serveCommand(logger *logrus.Logger) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run as an MCP server over stdio",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logFile := configureServeLogging(logger)
			if logFile != nil {
				defer func() {
					_ = logFile.Close()
				}()
			}

			logger.Debug("Creating MCP server")
			srv := mcpserver.NewMCPServer("mdquotes", Version)

			enabledTools := registry.GetEnabledTools()
			logger.WithField("tool_count", len(enabledTools)).Debug("MCP server created, registering tools")

			for toolName, toolImpl := range enabledTools {
				name := toolName
				tool := toolImpl

				srv.AddTool(tool.Definition(), func(toolCtx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
					// Get fresh reference from registry to ensure consistency
					currentTool, ok := registry.GetTool(name)
					if !ok {
						return nil, fmt.Errorf("tool not found: %s", name)
					}

					args, ok := request.Params.Arguments.(map[string]any)
					if !ok {
						if request.Params.Arguments == nil {
							args = map[string]any{}
						} else {
							return nil, fmt.Errorf("invalid arguments type: expected map[string]interface{}, got %T", request.Params.Arguments)
						}
					}

					result, err := currentTool.Execute(toolCtx, registry.GetLogger(), registry.GetCache(), args)
					if err != nil {
						return nil, fmt.Errorf("tool execution failed: %w", err)
					}
					return result, nil
				})
			}

			logger.Info("Starting MCP server on stdio")
			return mcpserver.ServeStdio(srv)
		},
	}
}

// configureServeLogging redirects logs away from stdout/stderr while serving:
// stdout belongs to the stdio protocol. Logs go to ~/.mdquotes/logs/mdquotes.log,
// or are discarded if the file cannot be created. Returns the log file handle
// for cleanup, or nil.
func configureServeLogging(logger *logrus.Logger) *os.File {
	homeDir, err := os.UserHomeDir()
	if err == nil {
		logDir := filepath.Join(homeDir, ".mdquotes", "logs")
		if err := os.MkdirAll(logDir, 0700); err == nil {
			logPath := filepath.Join(logDir, "mdquotes.log")
			if file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600); err == nil {
				logger.SetOutput(file)
				return file
			}
		}
	}

	logger.SetOutput(io.Discard)
	return nil
}
