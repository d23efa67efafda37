package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/tally"
	"github.com/aretw0/tally/internal/presentation/tui"
	"github.com/aretw0/tally/pkg/domain"
	"github.com/aretw0/tally/pkg/ports"
	"github.com/aretw0/tally/pkg/session"
)

// RunOptions configures an interactive labeling session.
type RunOptions struct {
	// Path is the CSV dataset path. Ignored when Store is set.
	Path string

	// Seed overrides the default shuffle seed.
	Seed int64

	// Debug enables structured logging to stderr.
	Debug bool

	// Plain disables markdown rendering and the banner.
	Plain bool

	// Store optionally injects a non-CSV dataset store (e.g. Redis).
	Store ports.DatasetStore
}

// RunSession executes a single interactive labeling session on the
// terminal. Setup failures are printed as a blocking message; the returned
// error then only signals the non-zero exit, the user has already been told
// what to do.
func RunSession(opts RunOptions) error {
	logger := createLogger(opts.Debug)

	interactive := !opts.Plain && tui.IsTerminal()
	if interactive {
		tui.PrintBanner(tally.Version)
	}

	ctrlOpts := []tally.Option{
		tally.WithSeed(opts.Seed),
		tally.WithLogger(logger),
	}
	if opts.Store != nil {
		ctrlOpts = append(ctrlOpts, tally.WithStore(opts.Store))
	}

	ctrl, err := tally.New(opts.Path, ctrlOpts...)
	if err != nil {
		return fmt.Errorf("error initializing tally: %w", err)
	}

	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()

	sess, err := ctrl.Start(sigCtx)
	if err != nil {
		fmt.Println(SetupMessage(err, opts.Path))
		return err
	}

	logger.Info("interactive session", "session_id", sess.ID)

	renderer := tui.PlainRenderer()
	if interactive {
		renderer = tui.NewRenderer()
	}

	reader := bufio.NewReader(NewInterruptibleReader(os.Stdin, sigCtx.Done()))
	return eventLoop(sigCtx, ctrl, sess, renderer, reader)
}

func eventLoop(ctx *SignalContext, ctrl *tally.Controller, sess *session.Session, render func(string) (string, error), reader *bufio.Reader) error {
	for {
		if ctx.Err() != nil {
			fmt.Println()
			printSystemMessage("Interrupted. Progress is saved; run again to resume.")
			return nil
		}

		if sess.Exhausted() {
			p := ctrl.Progress()
			printSystemMessage("All %d items have been labeled. Nothing left to do!", p.Total)
			printSystemMessage("Use 'tally reset' if you want to start over.")
			return nil
		}

		row := ctrl.Current(sess)
		if row == nil {
			// The cursor row vanished from the collection between calls
			// (external edit). Surface it rather than guessing.
			return fmt.Errorf("%w: %q (dataset changed underneath the session?)", domain.ErrRowNotFound, sess.Cursor)
		}

		presentItem(ctrl.Progress(), row, render)

		fmt.Print("[y]es  [n]o  [s]kip  [r]eset  [q]uit > ")
		line, err := reader.ReadString('\n')
		if err != nil {
			if isInterrupted(err) {
				fmt.Println("\n>>> Interrupted. Progress is saved; run again to resume.")
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "y", "yes":
			applyLabel(ctx, ctrl, sess, row.ID, domain.LabelYes)
		case "n", "no":
			applyLabel(ctx, ctrl, sess, row.ID, domain.LabelNo)
		case "s", "skip":
			if ctrl.Skip(sess) == "" {
				printSystemMessage("No other unlabeled item to skip to.")
			}
		case "r", "reset":
			if err := confirmReset(ctx, ctrl, sess, reader); err != nil {
				printSystemMessage("Reset failed: %v", err)
			}
		case "q", "quit", "exit":
			printSystemMessage("Bye! Progress is saved.")
			return nil
		default:
			printSystemMessage("Unknown command %q (y/n/s/r/q).", strings.TrimSpace(line))
		}
	}
}

// presentItem renders one prompt/response pair with its position in the
// run. Position counts labeled items, matching "Item N of M" semantics.
func presentItem(p domain.Progress, row *domain.Row, render func(string) (string, error)) {
	md := fmt.Sprintf("# Item %d of %d\n\n**ID:** %s\n\n## Prompt\n\n%s\n\n## Response\n\n%s\n",
		p.Labeled+1, p.Total, row.ID, row.Prompt, row.Response)

	out, err := render(md)
	if err != nil {
		out = md + "\n"
	}
	fmt.Print(out)
	fmt.Printf("Progress: %d labeled · %d remaining · %d total\n\n", p.Labeled, p.Remaining, p.Total)
}

// applyLabel persists a verdict. A write failure keeps the current item
// presented; the action is simply not applied.
func applyLabel(ctx context.Context, ctrl *tally.Controller, sess *session.Session, id string, value domain.Label) {
	if err := ctrl.Label(ctx, sess, id, value); err != nil {
		printSystemMessage("Label NOT saved (%v). The item stays up; try again.", err)
		return
	}
	printSystemMessage("Labeled %q as %s and saved.", id, value)
}

func confirmReset(ctx context.Context, ctrl *tally.Controller, sess *session.Session, reader *bufio.Reader) error {
	fmt.Print("Clear ALL labels? This cannot be undone. Type 'yes' to confirm: ")
	line, err := reader.ReadString('\n')
	if err != nil {
		return err
	}
	if strings.TrimSpace(line) != "yes" {
		printSystemMessage("Reset cancelled.")
		return nil
	}

	if err := ctrl.Reset(ctx, sess); err != nil {
		return err
	}
	printSystemMessage("All labels cleared.")
	return nil
}
