package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"io"

	"github.com/acmsl/licdata/core"
	"github.com/acmsl/licdata/shell"
)

// EventTypeRequestFailed names the envelope written when a request line produced no outcome.
const EventTypeRequestFailed = "RequestFailed"

const maxLineBytes = 1 << 20

// ErrRequestLineTooLong is reported for request lines above the 1 MiB limit.
var ErrRequestLineTooLong = errors.New("request line exceeds 1 MiB")

// Dispatcher turns one request event into one outcome event.
type Dispatcher interface {
	Handle(ctx context.Context, request core.RequestEvent) (core.OutcomeEvent, error)
}

// RequestFailed is the payload of a RequestFailed envelope.
type RequestFailed struct {
	RequestType core.EventTypeString `json:"requestType,omitempty"`
	EventID     core.EventIDString   `json:"eventId,omitempty"`
	Error       string               `json:"error"`
}

// Bus reads JSON-lines request envelopes and writes one envelope per line in response.
type Bus struct {
	dispatcher Dispatcher
	stamper    shell.Stamper
	logger     shell.Logger
}

// NewBus creates a Bus. Requests without an event id or timestamp are stamped on arrival by stamper.
func NewBus(dispatcher Dispatcher, stamper shell.Stamper, logger shell.Logger) Bus {
	return Bus{dispatcher: dispatcher, stamper: stamper, logger: logger}
}

// Serve handles r line by line until EOF or ctx is done. Failed requests do not stop it.
// Lines longer than maxLineBytes are skipped and answered with a RequestFailed line.
func (b Bus) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	reader := bufio.NewReaderSize(r, 64*1024)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, tooLong, err := readLine(reader)
		if errors.Is(err, io.EOF) {
			return nil
		}

		if err != nil {
			return err
		}

		var response []byte

		switch {
		case tooLong:
			response = b.failed("", "", ErrRequestLineTooLong)
		case len(bytes.TrimSpace(line)) == 0:
			continue
		default:
			response = b.HandleLine(ctx, bytes.TrimSpace(line))
		}

		if _, err = w.Write(append(response, '\n')); err != nil {
			return err
		}
	}
}

// readLine returns the next line without its line ending. The rest of a line longer than
// maxLineBytes is read and discarded, and tooLong is reported instead.
func readLine(reader *bufio.Reader) (line []byte, tooLong bool, err error) {
	for {
		chunk, isPrefix, readErr := reader.ReadLine()
		if readErr != nil {
			if errors.Is(readErr, io.EOF) && (len(line) > 0 || tooLong) {
				return line, tooLong, nil
			}

			return nil, false, readErr
		}

		if !tooLong {
			if len(line)+len(chunk) > maxLineBytes {
				tooLong = true
				line = nil
			} else {
				line = append(line, chunk...)
			}
		}

		if !isPrefix {
			return line, tooLong, nil
		}
	}
}

// HandleLine handles one request envelope and returns the response envelope.
func (b Bus) HandleLine(ctx context.Context, line []byte) []byte {
	envelope, err := shell.DecodeEnvelope(line)
	if err != nil {
		return b.failed("", "", err)
	}

	request, err := shell.RequestEventFrom(envelope, b.stamper.Stamp())
	if err != nil {
		return b.failed(envelope.EventType, "", err)
	}

	outcome, err := b.dispatcher.Handle(ctx, request)
	if err != nil {
		return b.failed(request.IsEventType(), request.HasEventID(), err)
	}

	response, err := shell.EnvelopeFrom(outcome)
	if err != nil {
		return b.failed(request.IsEventType(), request.HasEventID(), err)
	}

	encoded, err := response.Encode()
	if err != nil {
		return b.failed(request.IsEventType(), request.HasEventID(), err)
	}

	return encoded
}

func (b Bus) failed(requestType core.EventTypeString, eventID core.EventIDString, cause error) []byte {
	if b.logger != nil {
		b.logger.Error("request failed",
			shell.LogAttrRequestType, requestType,
			shell.LogAttrEventID, eventID,
			shell.LogAttrError, cause.Error(),
		)
	}

	envelope, err := shell.BuildEnvelope(EventTypeRequestFailed, RequestFailed{
		RequestType: requestType,
		EventID:     eventID,
		Error:       cause.Error(),
	})
	if err == nil {
		if encoded, encodeErr := envelope.Encode(); encodeErr == nil {
			return encoded
		}
	}

	return []byte(`{"eventType":"` + EventTypeRequestFailed + `","payload":{"error":"encoding failure report failed"}}`)
}
