// Command protoschema writes a JSON schema describing every realtime message.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Bold014/typeio-backend/protocol"
	"github.com/invopop/jsonschema"
)

func main() {
	var outPath string
	flag.StringVar(&outPath, "out", "", "path to write the JSON schema (stdout when empty)")
	flag.Parse()

	data, err := json.MarshalIndent(buildSchema(), "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal schema: %v\n", err)
		os.Exit(1)
	}

	if outPath == "" {
		fmt.Println(string(data))
		return
	}
	if err := writeSchema(outPath, data); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write schema: %v\n", err)
		os.Exit(1)
	}
}

// messages lists every frame payload by its event name.
func messages() []protocol.Message {
	return []protocol.Message{
		protocol.Typing{},
		protocol.SentenceComplete{},
		protocol.Joined{},
		protocol.Countdown{},
		protocol.Start{},
		protocol.SentenceAssigned{},
		protocol.ScoreboardUpdate{},
		protocol.HPUpdate{},
		protocol.FloorUpdate{},
		protocol.TierUp{},
		protocol.MomentumUpdate{},
		protocol.AttackReceived{},
		protocol.AttackSent{},
		protocol.Knockout{},
		protocol.Eliminated{},
		protocol.RunEnd{},
	}
}

func buildSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: true,
		DoNotReference:            true,
	}

	root := &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "Ascend realtime messages",
		Description: "Payloads carried in the data field of {type, data} frames, keyed by type",
		Definitions: jsonschema.Definitions{},
	}
	for _, msg := range messages() {
		schema := reflector.Reflect(msg)
		schema.Version = ""
		root.Definitions[msg.MessageType()] = schema
	}
	return root
}

func writeSchema(outPath string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}

	tmpPath := outPath + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}
	return nil
}
