//
// Tencent is pleased to support the open source community by making trpc-es-provision available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-es-provision is licensed under the Apache License Version 2.0.
//
//

// Command esprovision reconciles an Elasticsearch cluster against a resource
// tree described by a YAML config file.
package main

import (
	"os"
)

// Build information, set with -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
