package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/argtbn/chatbot-api/internal/backend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStream_DecodesFragmentsWithRawFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "test-model", req["model"])
		assert.Equal(t, "2+2", req["prompt"])

		w.Write([]byte(`{"response":"Hel"}` + "\n"))
		w.Write([]byte(`{"response":"lo"}` + "\n"))
		w.Write([]byte("not json at all\n"))
		w.Write([]byte(`{"response":"","done":true}` + "\n"))
	}))
	defer srv.Close()

	b := New(srv.URL, "test-model", 5*time.Second)

	var chunks []backend.Chunk
	err := b.Stream(context.Background(), "2+2", func(c backend.Chunk) error {
		chunks = append(chunks, c)
		return nil
	})
	require.NoError(t, err)

	require.Len(t, chunks, 4)
	assert.Equal(t, backend.Chunk{Text: "Hel"}, chunks[0])
	assert.Equal(t, backend.Chunk{Text: "lo"}, chunks[1])
	assert.Equal(t, backend.Chunk{Text: "not json at all", Raw: true}, chunks[2])
	assert.Equal(t, backend.Chunk{Text: ""}, chunks[3])
}

func TestStream_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer srv.Close()

	b := New(srv.URL, "missing", 5*time.Second)
	err := b.Stream(context.Background(), "hi", func(backend.Chunk) error { return nil })
	assert.Error(t, err)
}

func TestStream_EmitErrorPropagatesUnchanged(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"response":"a"}` + "\n"))
		w.Write([]byte(`{"response":"b"}` + "\n"))
	}))
	defer srv.Close()

	sinkGone := errors.New("sink gone")
	b := New(srv.URL, "test-model", 5*time.Second)

	var seen int
	err := b.Stream(context.Background(), "hi", func(backend.Chunk) error {
		seen++
		return sinkGone
	})
	assert.ErrorIs(t, err, sinkGone)
	assert.Equal(t, 1, seen)
}

func TestGenerate_SingleShot(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, false, req["stream"])

		json.NewEncoder(w).Encode(map[string]any{"response": "42", "done": true})
	}))
	defer srv.Close()

	b := New(srv.URL, "test-model", 5*time.Second)
	reply, err := b.Generate(context.Background(), "meaning of life?")
	require.NoError(t, err)
	assert.Equal(t, "42", reply)
}

func TestStream_ConnectionRefused(t *testing.T) {
	b := New("http://127.0.0.1:1", "test-model", time.Second)
	err := b.Stream(context.Background(), "hi", func(backend.Chunk) error { return nil })
	assert.Error(t, err)
}
