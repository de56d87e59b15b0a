package handler

import (
	"encoding/json"
	"net/http"
)

// streamWriter implements service.StreamSink over an HTTP response, one JSON
// object per line, flushed per increment so clients can render as output
// arrives. Headers are not committed until the first write, which leaves the
// status line available for pre-stream failures.
type streamWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher
	enc     *json.Encoder
	started bool
}

func newStreamWriter(w http.ResponseWriter) *streamWriter {
	flusher, _ := w.(http.Flusher)
	return &streamWriter{
		w:       w,
		flusher: flusher,
		enc:     json.NewEncoder(w),
	}
}

func (s *streamWriter) send(v any) error {
	if !s.started {
		s.w.Header().Set("Content-Type", "application/x-ndjson")
		s.started = true
	}
	if err := s.enc.Encode(v); err != nil {
		return err
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return nil
}

func (s *streamWriter) Chunk(text string) error {
	return s.send(map[string]string{"response": text})
}

func (s *streamWriter) Fault(message string) error {
	return s.send(map[string]string{"error": message})
}
