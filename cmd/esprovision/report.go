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
	"io"
	"text/tabwriter"

	"trpc.group/trpc-go/trpc-es-provision/reconcile"
)

// printReport writes one row per result and a summary line.
func printReport(w io.Writer, report *reconcile.Report) error {
	if report == nil {
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "KIND\tNAME\tPRESENT\tACTION")
	changed := 0
	for _, res := range report.Results {
		fmt.Fprintf(tw, "%s\t%s\t%t\t%s\n", res.Kind, res.Name, res.Present, res.Action)
		if res.Changed() {
			changed++
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	verb := "changed"
	if report.DryRun {
		verb = "to change"
	}
	_, err := fmt.Fprintf(w, "pass %s: %d resources, %d %s\n", report.PassID, len(report.Results), changed, verb)
	return err
}
