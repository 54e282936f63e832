// Package registrartest provides an in-memory GoDaddy zone served over httptest.
package registrartest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/aqall/publisher/internal/config"
	"github.com/aqall/publisher/internal/registrar"
)

const (
	Domain = "aqall.dev"
	Key    = "test-key"
	Secret = "test-secret"
)

// Server is a fake GoDaddy records API for one zone.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	records  []registrar.Record
	failures []int
	requests map[string]int
}

// New starts a fake zone seeded with records. It is closed with t.Cleanup.
func New(t testing.TB, records ...registrar.Record) *Server {
	t.Helper()

	s := &Server{
		records:  append([]registrar.Record(nil), records...),
		requests: make(map[string]int),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/domains/{domain}/records", s.handleList)
	mux.HandleFunc("PATCH /v1/domains/{domain}/records", s.handleAdd)
	mux.HandleFunc("PUT /v1/domains/{domain}/records/{type}/{name}", s.handleReplace)
	mux.HandleFunc("DELETE /v1/domains/{domain}/records/{type}/{name}", s.handleDelete)

	s.Server = httptest.NewServer(s.guard(mux))
	t.Cleanup(s.Close)
	return s
}

// Config returns registrar settings pointing at the fake with fast retries.
func (s *Server) Config() config.RegistrarConfig {
	return config.RegistrarConfig{
		Provider:   config.ProviderGoDaddy,
		Domain:     Domain,
		APIKey:     Key,
		APISecret:  Secret,
		BaseURL:    s.URL + "/v1",
		Timeout:    2 * time.Second,
		MaxRetries: 3,
	}
}

// FailNext makes the next len(statuses) requests answer with those statuses.
func (s *Server) FailNext(statuses ...int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, statuses...)
}

// Requests returns how many requests hit method, failures included.
func (s *Server) Requests(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests[method]
}

// TotalRequests returns the number of requests received.
func (s *Server) TotalRequests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.requests {
		n += c
	}
	return n
}

// Records returns a copy of the zone.
func (s *Server) Records() []registrar.Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]registrar.Record(nil), s.records...)
}

// ARecords returns the A records named name.
func (s *Server) ARecords(name string) []registrar.Record {
	var out []registrar.Record
	for _, r := range s.Records() {
		if r.Type == registrar.RecordTypeA && r.Name == name {
			out = append(out, r)
		}
	}
	return out
}

func (s *Server) guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests[r.Method]++
		var status int
		if len(s.failures) > 0 {
			status = s.failures[0]
			s.failures = s.failures[1:]
		}
		s.mu.Unlock()

		if status != 0 {
			writeError(w, status, "INJECTED", "injected failure")
			return
		}
		if r.Header.Get("Authorization") != fmt.Sprintf("sso-key %s:%s", Key, Secret) {
			writeError(w, http.StatusUnauthorized, "UNABLE_TO_AUTHENTICATE", "Unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	if !s.checkDomain(w, r) {
		return
	}
	writeJSON(w, http.StatusOK, s.Records())
}

func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	if !s.checkDomain(w, r) {
		return
	}
	var in []registrar.Record
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "INVALID_BODY", err.Error())
		return
	}
	s.mu.Lock()
	s.records = append(s.records, in...)
	s.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleReplace(w http.ResponseWriter, r *http.Request) {
	if !s.checkDomain(w, r) {
		return
	}
	var in []struct {
		Data string `json:"data"`
		TTL  int    `json:"ttl"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "INVALID_BODY", err.Error())
		return
	}
	typ, name := r.PathValue("type"), r.PathValue("name")

	s.mu.Lock()
	kept := s.records[:0]
	for _, rec := range s.records {
		if rec.Type != typ || rec.Name != name {
			kept = append(kept, rec)
		}
	}
	for _, v := range in {
		kept = append(kept, registrar.Record{Type: typ, Name: name, Data: v.Data, TTL: v.TTL})
	}
	s.records = kept
	s.mu.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if !s.checkDomain(w, r) {
		return
	}
	typ, name := r.PathValue("type"), r.PathValue("name")

	s.mu.Lock()
	kept := s.records[:0]
	removed := 0
	for _, rec := range s.records {
		if rec.Type == typ && rec.Name == name {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	s.records = kept
	s.mu.Unlock()

	if removed == 0 {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "record not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) checkDomain(w http.ResponseWriter, r *http.Request) bool {
	if r.PathValue("domain") != Domain {
		writeError(w, http.StatusNotFound, "UNKNOWN_DOMAIN", "domain not found")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"code": code, "message": message})
}
