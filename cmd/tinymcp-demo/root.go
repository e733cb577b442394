// Copyright (c) 2026 tinymcp Contributors. All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/tinymcp/tinymcp"
	"github.com/tinymcp/tinymcp/logger"
)

var appVersion = "0.1.0"

var configFile string

// buildRootCommand assembles the demo binary's command tree: the root
// command starts the stdio MCP server (the default, argument-free
// behavior), "tools list" renders the registered tools without starting
// a server, the way the teacher's CLIFramework starts its MCP server by
// default while still exposing ancillary subcommands.
func buildRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     "tinymcp-demo",
		Short:   "Demo MCP server exercising the tinymcp tool adapter",
		Version: appVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "path to demo bootstrap config (YAML)")
	root.AddCommand(buildToolsCommand())

	return root
}

func buildToolsCommand() *cobra.Command {
	toolsCmd := &cobra.Command{
		Use:   "tools",
		Short: "Inspect the demo server's registered tools",
	}
	toolsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List the tools the demo server would register, without starting it",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runToolsList(cmd.OutOrStdout())
		},
	})
	return toolsCmd
}

// newDemoServer builds the Server the "tools list" and stdio-serving paths
// both use, so they never drift apart.
func newDemoServer(cfg *bootConfig, log logger.Logger) (*tinymcp.Server, error) {
	s := tinymcp.New(cfg.Name, cfg.Version, tinymcp.WithLogger(log))
	if err := registerDemoTools(s, log); err != nil {
		return nil, err
	}
	return s, nil
}

func runToolsList(out io.Writer) error {
	cfg, err := loadBootConfig(configFile)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	s, err := newDemoServer(cfg, logger.NewMCPLogger(nil, true))
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	table := tablewriter.NewTable(out)
	table.Header([]string{"Name", "Description"})

	var rows [][]string
	for _, name := range s.ToolNames() {
		desc, _ := s.ToolDescription(name)
		rows = append(rows, []string{name, desc})
	}
	table.Bulk(rows)
	table.Render()
	return nil
}

func runServer() error {
	cfg, err := loadBootConfig(configFile)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	log := logger.NewCLILogger()
	log.SetOutput(os.Stderr)

	s, err := newDemoServer(cfg, logger.NewMCPLogger(os.Stderr, false))
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("received signal %s, shutting down", sig)
		cancel()
	}()

	log.Printf("%s %s starting on stdio", cfg.Name, cfg.Version)

	if err := s.Serve(ctx, os.Stdin, os.Stdout); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
