package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cristianoliveira/cansig/cmd"
	"github.com/cristianoliveira/cansig/internal/dbc"
	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type listClient interface {
	LoadDocument(ctx context.Context, name string) (*dbc.Document, error)
}

const listCommandLong = `List the stored messages and their signals.

USAGE:
    cansig list [OPTIONS]

OPTIONS:
    --message <id>   Only list the message with this id (source:hexaddress)
    --filter <text>  Only list signals whose name contains text
    --format <fmt>   Output format: text (default), json, yaml
    -h, --help       Show this help`

// NewListCmd creates the list command with explicit dependencies.
func NewListCmd(client listClient) *cobra.Command {
	if client == nil {
		panic("NewListCmd: client dependency cannot be nil")
	}

	var message string
	var filter string
	var format string

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List messages and signals",
		Long:  listCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := client.LoadDocument(cmd.Context(), "cansig")
			if err != nil {
				return fmt.Errorf("list: %w", err)
			}
			ids := doc.IDs()
			if message != "" {
				id, err := dbc.ParseMessageID(message)
				if err != nil {
					return fmt.Errorf("list: %w", err)
				}
				if _, ok := doc.Message(id); !ok {
					return fmt.Errorf("list: message %s: %w", id, dbc.ErrMessageNotFound)
				}
				ids = []dbc.MessageID{id}
			}
			switch format {
			case "", "text":
				PrintList(cmd.OutOrStdout(), doc, ids, filter)
				return nil
			case "json", "yaml":
				return encodeList(cmd.OutOrStdout(), format, listEntries(doc, ids, filter))
			}
			return fmt.Errorf("list: unknown format %q", format)
		},
	}

	listCmd.Flags().StringVar(&message, "message", "", "Only list this message")
	listCmd.Flags().StringVar(&filter, "filter", "", "Only list signals whose name contains text")
	listCmd.Flags().StringVar(&format, "format", "text", "Output format: text, json, yaml")
	return listCmd
}

type messageEntry struct {
	ID      string        `json:"id" yaml:"id"`
	Name    string        `json:"name" yaml:"name"`
	Size    uint32        `json:"size" yaml:"size"`
	Comment string        `json:"comment,omitempty" yaml:"comment,omitempty"`
	Signals []signalEntry `json:"signals" yaml:"signals"`
}

type signalEntry struct {
	Name              string            `json:"name" yaml:"name"`
	StartBit          int               `json:"start_bit" yaml:"start_bit"`
	Size              int               `json:"size" yaml:"size"`
	LittleEndian      bool              `json:"little_endian" yaml:"little_endian"`
	Signed            bool              `json:"signed" yaml:"signed"`
	Factor            float64           `json:"factor" yaml:"factor"`
	Offset            float64           `json:"offset" yaml:"offset"`
	Min               float64           `json:"min" yaml:"min"`
	Max               float64           `json:"max" yaml:"max"`
	Unit              string            `json:"unit,omitempty" yaml:"unit,omitempty"`
	Comment           string            `json:"comment,omitempty" yaml:"comment,omitempty"`
	ValueDescriptions map[string]string `json:"value_descriptions,omitempty" yaml:"value_descriptions,omitempty"`
}

func listEntries(doc *dbc.Document, ids []dbc.MessageID, filter string) []messageEntry {
	entries := make([]messageEntry, 0, len(ids))
	for _, id := range ids {
		msg, ok := doc.Message(id)
		if !ok {
			continue
		}
		entry := messageEntry{ID: id.String(), Name: msg.Name, Size: msg.Size, Comment: msg.Comment, Signals: []signalEntry{}}
		for _, sig := range msg.SortedSignals() {
			if !matchesFilter(sig.Name, filter) {
				continue
			}
			se := signalEntry{
				Name: sig.Name, StartBit: sig.StartBit, Size: sig.Size,
				LittleEndian: sig.IsLittleEndian, Signed: sig.IsSigned,
				Factor: sig.Factor, Offset: sig.Offset, Min: sig.Min, Max: sig.Max,
				Unit: sig.Unit, Comment: sig.Comment,
			}
			if len(sig.ValueDescriptions) > 0 {
				se.ValueDescriptions = make(map[string]string, len(sig.ValueDescriptions))
				for _, vd := range sig.ValueDescriptions {
					se.ValueDescriptions[dbc.FormatDouble(vd.Value)] = vd.Description
				}
			}
			entry.Signals = append(entry.Signals, se)
		}
		entries = append(entries, entry)
	}
	return entries
}

func encodeList(w io.Writer, format string, entries []messageEntry) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return fmt.Errorf("list: encode yaml: %w", err)
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("list: encode json: %w", err)
	}
	return nil
}

func matchesFilter(name, filter string) bool {
	return filter == "" || strings.Contains(strings.ToLower(name), strings.ToLower(filter))
}

// PrintList writes each message followed by its signals in start bit
// order.
func PrintList(w io.Writer, doc *dbc.Document, ids []dbc.MessageID, filter string) {
	if len(ids) == 0 {
		fmt.Fprintln(w, "No messages found")
		return
	}
	for _, id := range ids {
		msg, ok := doc.Message(id)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s %s (%d bytes)\n", id, msg.Name, msg.Size)
		for _, sig := range msg.SortedSignals() {
			if !matchesFilter(sig.Name, filter) {
				continue
			}
			fmt.Fprintf(w, "    %s\n", formatSignal(sig))
		}
	}
}

func formatSignal(sig dbc.Signal) string {
	endian, signed := "be", "unsigned"
	if sig.IsLittleEndian {
		endian = "le"
	}
	if sig.IsSigned {
		signed = "signed"
	}
	line := fmt.Sprintf("%-24s bits %d..%d %s %s factor=%s offset=%s [%s, %s]",
		sig.Name, sig.LSB, sig.MSB, endian, signed,
		dbc.FormatDouble(sig.Factor), dbc.FormatDouble(sig.Offset),
		dbc.FormatDouble(sig.Min), dbc.FormatDouble(sig.Max))
	if sig.Unit != "" {
		line += " " + sig.Unit
	}
	return line
}

func init() {
	cmd.RootCmd.AddCommand(NewListCmd(dbClient))
}
