package bolt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/saeedesfandi/streamparse/multilang"
)

// protocolInput builds an inbound stream: each message followed by the
// sentinel line.
func protocolInput(msgs ...string) string {
	var b strings.Builder
	for _, m := range msgs {
		b.WriteString(m)
		b.WriteString("\nend\n")
	}
	return b.String()
}

// decodeOutput splits the worker's raw output back into JSON documents.
func decodeOutput(t *testing.T, raw string) []map[string]any {
	t.Helper()

	var out []map[string]any
	var buf strings.Builder
	for _, line := range strings.Split(raw, "\n") {
		if line == "end" {
			var msg map[string]any
			require.NoError(t, json.Unmarshal([]byte(buf.String()), &msg), "frame: %q", buf.String())
			out = append(out, msg)
			buf.Reset()
			continue
		}
		buf.WriteString(line)
	}
	return out
}

// commandsOf filters decoded output down to frames with the given
// command, dropping the pid handshake reply and anything else.
func commandsOf(msgs []map[string]any, command string) []map[string]any {
	var out []map[string]any
	for _, m := range msgs {
		if m["command"] == command {
			out = append(out, m)
		}
	}
	return out
}

// newTestCollector wires a collector to an in-memory transport.
func newTestCollector(cfg Config, inflight *inflightSet) (*Collector, *bytes.Buffer) {
	var out bytes.Buffer
	conn := multilang.NewConn(strings.NewReader(""), &out)
	if inflight == nil {
		inflight = &inflightSet{}
	}
	return newCollector(conn, cfg, inflight, nil), &out
}

const testHandshake = `{"conf":{},"context":{}}`

func tupleJSON(id, value string) string {
	data, _ := json.Marshal(map[string]any{
		"id": id, "comp": "spout", "stream": "default", "task": 1,
		"tuple": []any{value},
	})
	return string(data)
}
