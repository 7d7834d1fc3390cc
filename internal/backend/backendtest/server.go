// Package backendtest provides an in-process fake of the note-generation backend and
// its pre-signed storage target for tests.
package backendtest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path"
	"strings"
	"sync"
)

// Call records one request received by the fake.
type Call struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte
}

// String renders the call as "METHOD /path".
func (c Call) String() string {
	return c.Method + " " + c.Path
}

type response struct {
	status int
	body   string
}

// Server serves GET /presign, PUT /upload/{name}, POST /invoke and GET /notes/{name}.
// Unless overridden, presign points at the fake's own upload route and invoke returns
// a structured note whose location is served under /notes/.
type Server struct {
	*httptest.Server

	mu      sync.Mutex
	calls   []Call
	presign *response
	upload  *response
	invoke  *response
	uploads map[string][]byte
	gate    chan struct{}
	entered chan struct{}
}

// New starts a fake backend. Call Close when done.
func New() *Server {
	s := &Server{uploads: make(map[string][]byte)}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /presign", s.handlePresign)
	mux.HandleFunc("PUT /upload/{name...}", s.handleUpload)
	mux.HandleFunc("POST /invoke", s.handleInvoke)
	mux.HandleFunc("GET /notes/{name...}", s.handleNote)

	s.Server = httptest.NewServer(mux)
	return s
}

// SetPresign overrides the presign response.
func (s *Server) SetPresign(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.presign = &response{status, body}
}

// SetUpload overrides the upload target's response.
func (s *Server) SetUpload(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.upload = &response{status, body}
}

// SetInvoke overrides the invoke response.
func (s *Server) SetInvoke(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invoke = &response{status, body}
}

// HoldInvoke makes invoke requests block until the returned release func is called.
// The entered channel receives once per invoke request that reaches the hold.
func (s *Server) HoldInvoke() (entered <-chan struct{}, release func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gate = make(chan struct{})
	s.entered = make(chan struct{}, 8)
	var once sync.Once
	gate := s.gate
	return s.entered, func() { once.Do(func() { close(gate) }) }
}

// Calls returns every recorded request in arrival order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Sequence returns the recorded calls as "METHOD /path" strings.
func (s *Server) Sequence() []string {
	calls := s.Calls()
	seq := make([]string, len(calls))
	for i, c := range calls {
		seq[i] = c.String()
	}
	return seq
}

// Uploaded returns the bytes PUT for name, if any.
func (s *Server) Uploaded(name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.uploads[name]
	return data, ok
}

// UploadURL is the address the default presign response issues for name.
func (s *Server) UploadURL(name string) string {
	return s.URL + "/upload/" + url.PathEscape(name)
}

// NoteURL is the note location the default invoke response reports for name.
func (s *Server) NoteURL(name string) string {
	base := strings.TrimSuffix(name, path.Ext(name))
	return s.URL + "/notes/" + url.PathEscape(base) + ".txt"
}

func (s *Server) record(r *http.Request) []byte {
	body, _ := io.ReadAll(r.Body)
	s.mu.Lock()
	s.calls = append(s.calls, Call{
		Method: r.Method,
		Path:   r.URL.Path,
		Query:  r.URL.Query(),
		Header: r.Header.Clone(),
		Body:   body,
	})
	s.mu.Unlock()
	return body
}

func (s *Server) handlePresign(w http.ResponseWriter, r *http.Request) {
	s.record(r)

	s.mu.Lock()
	override := s.presign
	s.mu.Unlock()

	if override != nil {
		write(w, override.status, override.body)
		return
	}

	name := r.URL.Query().Get("fileName")
	writeJSON(w, http.StatusOK, map[string]string{"url": s.UploadURL(name)})
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	body := s.record(r)

	s.mu.Lock()
	override := s.upload
	if override == nil || override.status < 300 {
		s.uploads[r.PathValue("name")] = body
	}
	s.mu.Unlock()

	if override != nil {
		write(w, override.status, override.body)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleInvoke(w http.ResponseWriter, r *http.Request) {
	body := s.record(r)

	s.mu.Lock()
	override := s.invoke
	gate, entered := s.gate, s.entered
	s.mu.Unlock()

	if gate != nil {
		entered <- struct{}{}
		<-gate
	}

	if override != nil {
		write(w, override.status, override.body)
		return
	}

	var req struct {
		AudioFile string `json:"audioFile"`
	}
	if err := json.Unmarshal(body, &req); err != nil || req.AudioFile == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "audioFile required"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"transcript":   "Patient reports intermittent headaches for two weeks.",
		"soapNote":     "S: Headaches x2 weeks.\nO: Vitals stable.\nA: Tension headache.\nP: Hydration, follow-up.",
		"noteLocation": s.NoteURL(req.AudioFile),
	})
}

func (s *Server) handleNote(w http.ResponseWriter, r *http.Request) {
	s.record(r)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "SOAP note for %s\n", r.PathValue("name"))
}

func write(w http.ResponseWriter, status int, body string) {
	if strings.HasPrefix(strings.TrimSpace(body), "{") || strings.HasPrefix(strings.TrimSpace(body), `"`) {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
