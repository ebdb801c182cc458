package multilang

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/saeedesfandi/streamparse/errors"
)

// sentinel terminates every protocol frame, inbound and outbound.
const sentinel = "end"

// Conn is a framed JSON connection to the orchestrator. Reads are served
// by a background goroutine feeding a channel so that a blocked read can
// be abandoned through context cancellation; writes are serialized with a
// mutex because the batching engine's consumer goroutine and the fatal
// error path both write.
type Conn struct {
	r *bufio.Reader

	wmu sync.Mutex
	w   *bufio.Writer

	readOnce  sync.Once
	frames    chan json.RawMessage
	readErr   chan error
	done      chan struct{}
	closeOnce sync.Once
}

// NewConn wraps a byte stream pair in a protocol connection. For a real
// worker the pair is the process's stdin and stdout.
func NewConn(r io.Reader, w io.Writer) *Conn {
	return &Conn{
		r:       bufio.NewReader(r),
		w:       bufio.NewWriter(w),
		frames:  make(chan json.RawMessage),
		readErr: make(chan error, 1),
		done:    make(chan struct{}),
	}
}

// Close releases the background reader. Safe to call more than once.
func (c *Conn) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// readFrame blocks until a full frame (JSON document plus sentinel line)
// has been read. A clean EOF between frames surfaces as ErrClosed; EOF in
// the middle of a frame is a malformed frame.
func (c *Conn) readFrame() (json.RawMessage, error) {
	var buf bytes.Buffer
	for {
		line, err := c.r.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, errors.WrapTransport(err, "Conn", "readFrame", "read line")
		}
		atEOF := err == io.EOF

		// The sentinel still terminates a frame when the final newline is
		// missing at stream end.
		line = strings.TrimRight(line, "\r\n")
		if line == sentinel {
			if buf.Len() == 0 {
				if atEOF {
					return nil, errors.ErrClosed
				}
				// Stray sentinel between frames; skip it.
				continue
			}
			frame := make(json.RawMessage, buf.Len())
			copy(frame, buf.Bytes())
			return frame, nil
		}

		if atEOF {
			if buf.Len() == 0 && strings.TrimSpace(line) == "" {
				return nil, errors.ErrClosed
			}
			return nil, errors.WrapTransport(errors.ErrBadFrame,
				"Conn", "readFrame", "stream ended mid-frame")
		}

		buf.WriteString(line)
		buf.WriteByte('\n')
	}
}

func (c *Conn) readLoop() {
	for {
		frame, err := c.readFrame()
		if err != nil {
			select {
			case c.readErr <- err:
			case <-c.done:
			}
			return
		}
		select {
		case c.frames <- frame:
		case <-c.done:
			return
		}
	}
}

// ReadMessage returns the next inbound frame. The first call starts the
// background reader; cancelling ctx abandons the wait without tearing the
// connection down.
func (c *Conn) ReadMessage(ctx context.Context) (json.RawMessage, error) {
	c.readOnce.Do(func() { go c.readLoop() })

	select {
	case frame := <-c.frames:
		return frame, nil
	case err := <-c.readErr:
		return nil, err
	case <-c.done:
		return nil, errors.ErrClosed
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// ReadHandshake consumes the initial configuration exchange. It must be
// the first inbound frame.
func (c *Conn) ReadHandshake(ctx context.Context) (*Handshake, error) {
	frame, err := c.ReadMessage(ctx)
	if err != nil {
		return nil, errors.WrapTransport(err, "Conn", "ReadHandshake", "read frame")
	}

	var hs Handshake
	if err := json.Unmarshal(frame, &hs); err != nil {
		return nil, errors.WrapTransport(err, "Conn", "ReadHandshake", "decode handshake")
	}
	if hs.Conf == nil && hs.Context == nil {
		return nil, errors.WrapTransport(errors.ErrMissingHandshake,
			"Conn", "ReadHandshake", "validate handshake")
	}
	return &hs, nil
}

// AcknowledgeHandshake reports the worker pid back to the orchestrator
// and, when the handshake named a pid directory, drops an empty file
// named after the pid there so the orchestrator can reap the process.
func (c *Conn) AcknowledgeHandshake(hs *Handshake, pid int) error {
	if hs.PidDir != "" {
		path := filepath.Join(hs.PidDir, strconv.Itoa(pid))
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return errors.WrapTransport(err, "Conn", "AcknowledgeHandshake", "write pid file")
		}
	}
	return c.WriteMessage(pidMessage{Pid: pid})
}

// ReadTuple returns the next inbound tuple.
func (c *Conn) ReadTuple(ctx context.Context) (Tuple, error) {
	frame, err := c.ReadMessage(ctx)
	if err != nil {
		return Tuple{}, err
	}

	var tup Tuple
	if err := json.Unmarshal(frame, &tup); err != nil {
		return Tuple{}, errors.WrapTransport(err, "Conn", "ReadTuple", "decode tuple")
	}
	return tup, nil
}

// WriteMessage encodes msg as one frame and flushes it.
func (c *Conn) WriteMessage(msg any) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	if err := c.writeFrameLocked(msg); err != nil {
		return err
	}
	if err := c.w.Flush(); err != nil {
		return errors.WrapTransport(err, "Conn", "WriteMessage", "flush frame")
	}
	return nil
}

// WriteBatch encodes every message as its own frame and flushes them as a
// single buffered block. This is the efficiency path behind EmitMany.
func (c *Conn) WriteBatch(msgs []any) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()

	for _, msg := range msgs {
		if err := c.writeFrameLocked(msg); err != nil {
			return err
		}
	}
	if err := c.w.Flush(); err != nil {
		return errors.WrapTransport(err, "Conn", "WriteBatch", "flush frames")
	}
	return nil
}

func (c *Conn) writeFrameLocked(msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return errors.WrapInvalidArgument(err, "Conn", "WriteMessage", "encode message")
	}
	if _, err := c.w.Write(data); err != nil {
		return errors.WrapTransport(err, "Conn", "WriteMessage", "write frame")
	}
	if _, err := fmt.Fprintf(c.w, "\n%s\n", sentinel); err != nil {
		return errors.WrapTransport(err, "Conn", "WriteMessage", "write sentinel")
	}
	return nil
}
