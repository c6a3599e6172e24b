package langgraph

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/openai/openai-go/v3/packages/ssestream"
	"github.com/tidwall/gjson"
)

// Server-sent event names emitted by a run stream.
const (
	EventMetadata         = "metadata"
	EventValues           = "values"
	EventMessages         = "messages"
	EventMessagesPartial  = "messages/partial"
	EventMessagesComplete = "messages/complete"
	EventError            = "error"
	EventEnd              = "end"
)

// StreamPart is one decoded server-sent event.
type StreamPart struct {
	Event string
	Data  []byte
}

// RunStream iterates the events of a streaming run.
//
//	for stream.Next() {
//		part := stream.Part()
//	}
//	err := stream.Err()
type RunStream struct {
	dec   ssestream.Decoder
	part  StreamPart
	runID string
	err   error
}

// NewRunStream wraps an SSE response. The run id is taken from the
// Content-Location header when present and from the metadata event
// otherwise.
func NewRunStream(resp *http.Response) *RunStream {
	s := &RunStream{dec: ssestream.NewDecoder(resp)}
	if loc := resp.Header.Get("Content-Location"); loc != "" {
		if i := strings.LastIndex(loc, "/runs/"); i >= 0 {
			s.runID = strings.Trim(loc[i+len("/runs/"):], "/")
		}
	}
	return s
}

func (s *RunStream) Next() bool {
	if s.dec == nil || s.err != nil {
		return false
	}
	for s.dec.Next() {
		ev := s.dec.Event()
		data := bytes.TrimSpace(ev.Data)
		if ev.Type == "" && len(data) == 0 {
			continue
		}
		if ev.Type == EventMetadata {
			if id := gjson.GetBytes(data, "run_id").String(); id != "" {
				s.runID = id
			}
		}
		s.part = StreamPart{Event: ev.Type, Data: data}
		return true
	}
	s.err = s.dec.Err()
	return false
}

func (s *RunStream) Part() StreamPart { return s.part }

func (s *RunStream) RunID() string { return s.runID }

func (s *RunStream) Err() error { return s.err }

func (s *RunStream) Close() error {
	if s.dec == nil {
		return nil
	}
	return s.dec.Close()
}
