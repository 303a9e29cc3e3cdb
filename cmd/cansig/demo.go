package main

import (
	"context"
	"fmt"
	"math"

	"github.com/cristianoliveira/cansig/cmd"
	"github.com/cristianoliveira/cansig/internal/colors"
	"github.com/cristianoliveira/cansig/internal/dbc"
	"github.com/cristianoliveira/cansig/internal/stream"
	"github.com/spf13/cobra"
)

type demoClient interface {
	SaveDocument(ctx context.Context, doc *dbc.Document) error
	AppendEvents(ctx context.Context, id dbc.MessageID, events []stream.Event) error
}

var (
	demoEngineID  = dbc.MessageID{Address: 0x1F0}
	demoGearboxID = dbc.MessageID{Address: 0x200}
	// Recorded but not defined, to try adding signals from scratch.
	demoUnknownID = dbc.MessageID{Source: 1, Address: 0x3A0}
)

// NewDemoCmd creates the demo command with explicit dependencies.
func NewDemoCmd(client demoClient) *cobra.Command {
	if client == nil {
		panic("NewDemoCmd: client dependency cannot be nil")
	}

	var duration float64
	var rate int

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Write a demo database with recorded traffic",
		Long: `Write a demo document and synthetic CAN traffic to the database.

USAGE:
    cansig demo [OPTIONS]

OPTIONS:
    --duration <sec>  Length of the recording (default 60)
    --rate <hz>       Payloads per second and message (default 10)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if duration <= 0 || rate <= 0 {
				return fmt.Errorf("demo: duration and rate must be positive")
			}
			ctx := cmd.Context()
			doc := demoDocument()
			if err := client.SaveDocument(ctx, doc); err != nil {
				return fmt.Errorf("demo: %w", err)
			}
			events := demoEvents(doc, duration, rate)
			for _, id := range []dbc.MessageID{demoEngineID, demoGearboxID, demoUnknownID} {
				if err := client.AppendEvents(ctx, id, events[id]); err != nil {
					return fmt.Errorf("demo: %w", err)
				}
			}
			colors.Success(fmt.Sprintf("wrote %d messages and %d payloads per message", len(doc.IDs()), len(events[demoEngineID])))
			return nil
		},
	}

	demoCmd.Flags().Float64Var(&duration, "duration", 60, "Length of the recording in seconds")
	demoCmd.Flags().IntVar(&rate, "rate", 10, "Payloads per second and message")
	return demoCmd
}

func demoSignal(name string, start, size int, littleEndian bool, factor, offset float64, unit string) dbc.Signal {
	sig := dbc.Signal{Name: name, IsLittleEndian: littleEndian, Factor: factor, Offset: offset, Unit: unit}
	dbc.UpdateSizeParamsFromRange(&sig, start, size)
	sig.Min = offset
	sig.Max = dbc.MaxRawValue(size)*factor + offset
	sig.UpdatePrecision()
	return sig
}

func demoDocument() *dbc.Document {
	gear := demoSignal("GEAR", 0, 4, true, 1, 0, "")
	gear.ValueDescriptions = []dbc.ValueDescription{
		{Value: 0, Description: "P"}, {Value: 1, Description: "R"},
		{Value: 2, Description: "N"}, {Value: 3, Description: "D"},
	}
	coolant := demoSignal("COOLANT_TEMP", 16, 8, true, 1, -40, "C")
	coolant.Comment = "engine coolant temperature"

	doc := dbc.NewDocument("demo")
	doc.Reset(map[dbc.MessageID]dbc.Message{
		demoEngineID: {Name: "ENGINE", Size: 8, Signals: []dbc.Signal{
			demoSignal("RPM", 0, 16, true, 0.25, 0, "rpm"),
			coolant,
			demoSignal("THROTTLE", 24, 8, true, 0.4, 0, "%"),
		}},
		demoGearboxID: {Name: "GEARBOX", Size: 4, Signals: []dbc.Signal{
			gear,
			demoSignal("SPEED", 8, 16, false, 0.01, 0, "km/h"),
		}},
	})
	return doc
}

// demoEvents synthesizes smooth periodic values for every demo signal
// and a counter payload for the undefined message.
func demoEvents(doc *dbc.Document, duration float64, rate int) map[dbc.MessageID][]stream.Event {
	n := int(duration * float64(rate))
	out := make(map[dbc.MessageID][]stream.Event)
	engine, _ := doc.Message(demoEngineID)
	gearbox, _ := doc.Message(demoGearboxID)

	for i := 0; i < n; i++ {
		ts := float64(i) / float64(rate)
		phase := 2 * math.Pi * ts / 20

		data := make([]byte, engine.Size)
		for _, sig := range engine.Signals {
			var v float64
			switch sig.Name {
			case "RPM":
				v = 2500 + 1700*math.Sin(phase)
			case "COOLANT_TEMP":
				v = 60 + 30*(1-math.Exp(-ts/30))
			case "THROTTLE":
				v = 50 + 45*math.Sin(phase*3)
			}
			dbc.EncodeValue(data, sig, v)
		}
		out[demoEngineID] = append(out[demoEngineID], stream.Event{Timestamp: ts, Data: data})

		data = make([]byte, gearbox.Size)
		for _, sig := range gearbox.Signals {
			var v float64
			switch sig.Name {
			case "GEAR":
				v = float64(int(ts/5) % 4)
			case "SPEED":
				v = 60 + 55*math.Sin(phase)
			}
			dbc.EncodeValue(data, sig, v)
		}
		out[demoGearboxID] = append(out[demoGearboxID], stream.Event{Timestamp: ts, Data: data})

		out[demoUnknownID] = append(out[demoUnknownID], stream.Event{Timestamp: ts, Data: []byte{byte(i), byte(i >> 8), 0x55, 0xAA}})
	}
	return out
}

func init() {
	cmd.RootCmd.AddCommand(NewDemoCmd(dbClient))
}
