/*
Package tally is a resumable prompt/response labeling engine.

It presents a human annotator with a deterministic, pseudo-random sequence
of prompt/response pairs drawn from a tabular dataset, collects a binary
judgment for each, and persists labels durably and incrementally. A session
can be interrupted at any point and resumed without losing progress or
re-presenting already-labeled items.

# Concept

The controller derives a stable shuffled visitation order from the row
identifiers and a fixed seed, tracks the cursor over unlabeled rows, and
writes every label through a DatasetStore port with full-rewrite atomicity.
Because the order is a pure function of the identifier set and the seed, a
fresh session recomputes the identical order and picks up exactly where the
previous one left off. This Hexagonal Architecture allows Tally to be
driven by any interface: CLI, HTTP server, or AI agent infrastructure (MCP).

# Usage

	package main

	import (
		"context"
		"log"

		"github.com/aretw0/tally"
		"github.com/aretw0/tally/pkg/domain"
	)

	func main() {
		ctrl, err := tally.New("annotate.csv")
		if err != nil {
			log.Fatal(err)
		}

		ctx := context.Background()
		sess, err := ctrl.Start(ctx)
		if err != nil {
			log.Fatal(err)
		}

		for row := ctrl.Current(sess); row != nil; row = ctrl.Current(sess) {
			// present row.Prompt / row.Response, collect a verdict
			if err := ctrl.Label(ctx, sess, row.ID, domain.LabelYes); err != nil {
				log.Printf("label not applied: %v", err)
			}
		}
	}

The dataset is a CSV file with columns ID, Prompts, Responses and Label;
the Label column is created automatically on first load if absent.
*/
package tally

// Version is the current release of Tally.
var Version = "0.2.0"
