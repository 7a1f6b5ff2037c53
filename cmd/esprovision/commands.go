//
// Tencent is pleased to support the open source community by making trpc-es-provision available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-es-provision is licensed under the Apache License Version 2.0.
//
//

package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"trpc.group/trpc-go/trpc-es-provision/config"
	"trpc.group/trpc-go/trpc-es-provision/log"
	"trpc.group/trpc-go/trpc-es-provision/provision"
	"trpc.group/trpc-go/trpc-es-provision/reconcile"
	storage "trpc.group/trpc-go/trpc-es-provision/storage/elasticsearch"
	"trpc.group/trpc-go/trpc-es-provision/telemetry"
)

const defaultConfigFile = "esprovision.yaml"

// flags shared by every command.
type flags struct {
	configFile   string
	resourceDir  string
	logLevel     string
	otlpEndpoint string
	otlpProtocol string

	cleanTelemetry func() error
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:          "esprovision",
		Short:        "Provision Elasticsearch indices, mappings, aliases and templates",
		Long:         "Reconcile an Elasticsearch cluster against the JSON definitions of a resource tree.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := log.SetLevel(f.logLevel); err != nil {
				return err
			}
			if f.otlpEndpoint == "" {
				return nil
			}
			opts := []telemetry.Option{telemetry.WithEndpoint(f.otlpEndpoint)}
			if f.otlpProtocol != "" {
				opts = append(opts, telemetry.WithProtocol(f.otlpProtocol))
			}
			clean, err := telemetry.Start(cmd.Context(), opts...)
			if err != nil {
				return fmt.Errorf("start telemetry: %w", err)
			}
			f.cleanTelemetry = clean
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if f.cleanTelemetry == nil {
				return nil
			}
			return f.cleanTelemetry()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&f.configFile, "config", "c", defaultConfigFile, "Path to config file")
	pf.StringVarP(&f.resourceDir, "resource-dir", "d", "", "Directory holding the resource tree, overrides resource_dir")
	pf.StringVar(&f.logLevel, "log-level", log.LevelInfo, "Log level: debug, info, warn, error")
	pf.StringVar(&f.otlpEndpoint, "otlp-endpoint", "", "OTLP collector endpoint, telemetry is off when empty")
	pf.StringVar(&f.otlpProtocol, "otlp-protocol", "", "OTLP protocol: grpc or http")

	root.AddCommand(newApplyCmd(f), newPlanCmd(f), newVersionCmd())
	return root
}

func (f *flags) load() (*config.Config, error) {
	cfg, err := config.Load(f.configFile)
	if err != nil {
		return nil, err
	}
	if f.resourceDir != "" {
		cfg.ResourceDir = f.resourceDir
	}
	return cfg, nil
}

func newApplyCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Reconcile the cluster",
		Long:  "Create missing resources and apply the configured force and merge policies.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.load()
			if err != nil {
				return err
			}
			opts, err := cfg.Options()
			if err != nil {
				return err
			}
			opts = append(opts, provision.WithAsync(false))

			h, err := provision.Open(cmd.Context(), opts...)
			if err != nil {
				return err
			}
			defer func() {
				if err := h.Close(); err != nil {
					log.Warnf("close client: %v", err)
				}
			}()
			report, err := h.Wait(cmd.Context())
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), report)
		},
	}
}

func newPlanCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "Show what apply would do",
		Long:  "Query the cluster and report the action apply would take for every resource, without changing anything.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.load()
			if err != nil {
				return err
			}
			reconcileOpts, err := cfg.ReconcileOptions()
			if err != nil {
				return err
			}
			client, err := storage.NewClient(cfg.ClientOptions()...)
			if err != nil {
				return err
			}
			defer client.Close()

			report, err := reconcile.New(client, reconcileOpts...).Plan(cmd.Context())
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), report)
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "esprovision %s (commit %s, built %s)\n", Version, GitCommit, BuildTime)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
			return nil
		},
	}
}
