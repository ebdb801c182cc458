package multilang

// Command values for outbound messages
const (
	CommandEmit = "emit"
	CommandAck  = "ack"
	CommandFail = "fail"
	CommandLog  = "log"
)

// Handshake is the initial configuration exchange, consumed exactly once
// per worker process lifetime before the run loop starts.
type Handshake struct {
	Conf    map[string]any `json:"conf"`
	Context map[string]any `json:"context"`
	PidDir  string         `json:"pidDir"`
}

// EmitMessage carries one outbound tuple. Anchors is always serialized,
// even when empty; Stream and Task are omitted when unset.
type EmitMessage struct {
	Command string   `json:"command"`
	Values  []any    `json:"tuple"`
	Anchors []string `json:"anchors"`
	Stream  string   `json:"stream,omitempty"`
	Task    *int64   `json:"task,omitempty"`
}

// NewEmit builds an emit message. A nil anchors slice is normalized to an
// empty one so the wire form always carries an anchors list.
func NewEmit(values []any, anchors []string) EmitMessage {
	if anchors == nil {
		anchors = []string{}
	}
	return EmitMessage{Command: CommandEmit, Values: values, Anchors: anchors}
}

// ControlMessage is an ack or fail for a single tuple id.
type ControlMessage struct {
	Command string `json:"command"`
	ID      string `json:"id"`
}

// NewAck builds an ack message for a tuple id.
func NewAck(id string) ControlMessage {
	return ControlMessage{Command: CommandAck, ID: id}
}

// NewFail builds a fail message for a tuple id.
func NewFail(id string) ControlMessage {
	return ControlMessage{Command: CommandFail, ID: id}
}

// LogMessage reports a line of worker output to the orchestrator. Fatal
// errors are reported through this channel before the process exits.
type LogMessage struct {
	Command string `json:"command"`
	Message string `json:"msg"`
}

// NewLog builds a log message.
func NewLog(msg string) LogMessage {
	return LogMessage{Command: CommandLog, Message: msg}
}

// pidMessage is the handshake reply carrying the worker's pid.
type pidMessage struct {
	Pid int `json:"pid"`
}
