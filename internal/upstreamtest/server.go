// Package upstreamtest runs an in-memory stand-in for the upstream inventory API.
package upstreamtest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// Request is what the fake upstream saw.
type Request struct {
	Method        string
	Path          string
	Query         string
	Authorization string
	Body          []byte
}

type cannedResponse struct {
	status int
	body   string
}

type Server struct {
	*httptest.Server

	// Token, when set, is required as bearer credential on mutating calls.
	Token string

	mu       sync.Mutex
	nextID   map[string]int
	records  map[string]map[int]map[string]any
	requests []Request
	fail     int
	canned   map[string]cannedResponse
}

var resources = []string{"categorias", "productos"}

func New(t testing.TB) *Server {
	s := &Server{
		nextID:  map[string]int{},
		records: map[string]map[int]map[string]any{},
		canned:  map[string]cannedResponse{},
	}
	for _, r := range resources {
		s.nextID[r] = 1
		s.records[r] = map[int]map[string]any{}
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)
	return s
}

// Seed stores v under resource and returns the assigned id.
func (s *Server) Seed(resource string, v any) int {
	raw, _ := json.Marshal(v)
	obj := map[string]any{}
	_ = json.Unmarshal(raw, &obj)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insert(resource, obj)
}

// FailWith makes every following request answer status. Zero restores normal behaviour.
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	s.fail = status
	s.mu.Unlock()
}

// Respond overrides the answer for one method and path.
func (s *Server) Respond(method, path string, status int, body string) {
	s.mu.Lock()
	s.canned[method+" "+path] = cannedResponse{status: status, body: body}
	s.mu.Unlock()
}

func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

func (s *Server) RequestCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

func (s *Server) ResetRequests() {
	s.mu.Lock()
	s.requests = nil
	s.mu.Unlock()
}

func (s *Server) insert(resource string, obj map[string]any) int {
	id := s.nextID[resource]
	s.nextID[resource] = id + 1
	obj["id"] = id
	s.records[resource][id] = obj
	return id
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, Request{
		Method:        r.Method,
		Path:          r.URL.Path,
		Query:         r.URL.RawQuery,
		Authorization: r.Header.Get("Authorization"),
		Body:          body,
	})

	if s.fail != 0 {
		writeJSON(w, s.fail, map[string]string{"detail": "forced failure"})
		return
	}
	if c, ok := s.canned[r.Method+" "+r.URL.Path]; ok {
		w.WriteHeader(c.status)
		_, _ = io.WriteString(w, c.body)
		return
	}

	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}
	store, ok := s.records[parts[0]]
	if !ok || len(parts) > 2 {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "not found"})
		return
	}

	if r.Method != http.MethodGet && s.Token != "" && r.Header.Get("Authorization") != "Bearer "+s.Token {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "unauthorized"})
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			ids := make([]int, 0, len(store))
			for id := range store {
				ids = append(ids, id)
			}
			sort.Ints(ids)
			list := make([]map[string]any, 0, len(ids))
			for _, id := range ids {
				list = append(list, store[id])
			}
			writeJSON(w, http.StatusOK, list)
		case http.MethodPost:
			obj := map[string]any{}
			if err := json.Unmarshal(body, &obj); err != nil {
				writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
				return
			}
			s.insert(parts[0], obj)
			writeJSON(w, http.StatusCreated, obj)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
		return
	}

	id, err := strconv.Atoi(parts[1])
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "id must be numeric"})
		return
	}
	obj, found := store[id]
	if !found {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "not found"})
		return
	}

	switch r.Method {
	case http.MethodGet:
		writeJSON(w, http.StatusOK, obj)
	case http.MethodPut:
		updates := map[string]any{}
		if err := json.Unmarshal(body, &updates); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
			return
		}
		for k, v := range updates {
			if k != "id" {
				obj[k] = v
			}
		}
		writeJSON(w, http.StatusOK, obj)
	case http.MethodDelete:
		delete(store, id)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
