package transport

import (
	"encoding/binary"
	"io"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"github.com/spatialgrid/broker/spatial"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	sizeLengthPrefix = 4
	// maxFrameSize bounds a single frame's payload; a length prefix
	// beyond this is treated as a protocol violation rather than an
	// attempt to allocate an unbounded buffer.
	maxFrameSize = 1 << 20
)

// ReadMessage reads one length-prefixed frame from r and decodes its
// payload into a Message.
func ReadMessage[E spatial.Entity](r io.Reader) (*Message[E], error) {
	var lenBuf [sizeLengthPrefix]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, errors.Wrap(err, "transport: reading frame length")
	}

	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > maxFrameSize {
		return nil, errors.Errorf("transport: frame length %d exceeds %d byte limit", n, maxFrameSize)
	}

	payload := make([]byte, n)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, errors.Wrap(err, "transport: reading frame payload")
	}

	msg := &Message[E]{}
	if err := json.Unmarshal(payload, msg); err != nil {
		return nil, errors.Wrap(err, "transport: decoding frame payload")
	}
	return msg, nil
}

// WriteMessage encodes msg and writes it to w as one length-prefixed
// frame: a 4-byte big-endian length field followed by the payload.
func WriteMessage[E spatial.Entity](w io.Writer, msg *Message[E]) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "transport: encoding frame payload")
	}
	if len(payload) > maxFrameSize {
		return errors.Errorf("transport: encoded frame of %d bytes exceeds %d byte limit", len(payload), maxFrameSize)
	}

	var lenBuf [sizeLengthPrefix]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))

	if _, err := w.Write(lenBuf[:]); err != nil {
		return errors.Wrap(err, "transport: writing frame length")
	}
	if _, err := w.Write(payload); err != nil {
		return errors.Wrap(err, "transport: writing frame payload")
	}
	return nil
}
