package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cristianoliveira/cansig/cmd"
	"github.com/cristianoliveira/cansig/internal/colors"
	"github.com/cristianoliveira/cansig/internal/config"
	"github.com/cristianoliveira/cansig/internal/dbc"
	"github.com/cristianoliveira/cansig/internal/logging"
	"github.com/cristianoliveira/cansig/internal/signaltree"
	"github.com/cristianoliveira/cansig/internal/stream"
	"github.com/cristianoliveira/cansig/internal/tui/state"
	"github.com/cristianoliveira/cansig/internal/undo"
	"github.com/spf13/cobra"
)

type editClient interface {
	LoadDocument(ctx context.Context, name string) (*dbc.Document, error)
	SaveDocument(ctx context.Context, doc *dbc.Document) error
	LoadReplay(ctx context.Context) (*stream.Replay, error)
}

// programRunner runs a bubbletea model until it quits.
type programRunner func(m tea.Model) error

func runProgram(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

const editCommandLong = `Edit the signals of a message while replaying recorded traffic.

USAGE:
    cansig edit MESSAGE_ID [OPTIONS]

MESSAGE_ID is "source:hexaddress" (e.g. 0:1f0) or a hex address.
The message does not need to exist yet; adding a signal creates it.

KEY BINDINGS:
    j/k         Move down/up
    enter       Expand a signal or its extra info
    e           Edit the selected property
    space       Toggle a boolean property
    /           Filter signals by name
    a           Add a signal ("start size [le|be]")
    d           Remove the selected signal
    u / ctrl+r  Undo / redo
    s           Save
    y           Copy the selected value
    ] / [       Step the replay by one second
    p           Play or pause the replay
    + / -       Widen or narrow the sparkline range
    q           Quit`

// NewEditCmd creates the edit command with explicit dependencies.
func NewEditCmd(client editClient, run programRunner) *cobra.Command {
	if client == nil || run == nil {
		panic("NewEditCmd: dependencies cannot be nil")
	}

	var play bool

	editCmd := &cobra.Command{
		Use:   "edit MESSAGE_ID",
		Short: "Edit the signals of a message",
		Long:  editCommandLong,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := dbc.ParseMessageID(args[0])
			if err != nil {
				return fmt.Errorf("edit: %w", err)
			}
			ctx := cmd.Context()
			doc, err := client.LoadDocument(ctx, "cansig")
			if err != nil {
				return fmt.Errorf("edit: %w", err)
			}
			replay, err := client.LoadReplay(ctx)
			if err != nil {
				return fmt.Errorf("edit: %w", err)
			}
			if first, _ := replay.Bounds(); first > 0 {
				replay.Seek(first)
			}

			stack := undo.NewStack()
			tree := signaltree.New(doc, stack, replay, signaltree.Options{
				SparklineRange: config.GetInt("sparkline_range", signaltree.DefaultSparklineRange),
				Workers:        config.GetInt("sparkline_workers", 4),
			})
			defer tree.Close()
			tree.SetMessage(id)
			logging.Info("editing message", "message", id.String(), "signals", doc.SignalCount(id))

			m := state.New(doc, tree, replay, state.Options{
				Theme:          colors.ThemeByName(config.Get("theme", "dark")),
				SparklineWidth: config.GetInt("sparkline_width", 24),
				Playing:        play,
				Save: func(ctx context.Context) error {
					return client.SaveDocument(ctx, doc)
				},
			})
			if err := run(m); err != nil {
				return fmt.Errorf("edit: run tui: %w", err)
			}
			if !stack.IsClean() {
				colors.Warning("quit with unsaved changes")
			}
			return nil
		},
	}

	editCmd.Flags().BoolVar(&play, "play", false, "Start replaying immediately")
	return editCmd
}

func init() {
	cmd.RootCmd.AddCommand(NewEditCmd(dbClient, runProgram))
}
