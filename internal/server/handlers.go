package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/mementoweb/robustlinks/pkg/archives"
	"github.com/mementoweb/robustlinks/pkg/datetime"
	"github.com/mementoweb/robustlinks/pkg/memento"
	"github.com/mementoweb/robustlinks/pkg/storage"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.DB.GetStats(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(stats)
}

func (s *Server) handleLinks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := storage.ListOptions{
		DocumentFilter: q.Get("document"),
		OnlyProblems:   q.Get("only_problems") == "true",
	}

	entries, err := s.DB.ListEntries(r.Context(), opts)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(entries)
}

func (s *Server) handleChanges(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	changes, err := s.DB.ListRecentChanges(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(changes)
}

type mementoResponse struct {
	OriginalURL string `json:"original_url"`
	Service     string `json:"service"`
	Datetime    string `json:"datetime,omitempty"`
	MementoURL  string `json:"memento_url"`
}

// handleMemento constructs a memento URI for the given original URL. It only
// builds the URI from the service template; it never contacts the archive.
func (s *Server) handleMemento(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	service, err := archives.Lookup(q.Get("service"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp := mementoResponse{
		OriginalURL: q.Get("url"),
		Service:     service.Name,
	}

	if raw := q.Get("datetime"); raw != "" {
		at, err := datetime.Parse(raw)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp.Datetime = datetime.FormatArchive(at)
		resp.MementoURL, err = memento.Build(resp.OriginalURL, service.Template, service.TimeGateBase, &at)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	} else {
		resp.MementoURL, err = memento.Build(resp.OriginalURL, service.Template, service.TimeGateBase, nil)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	json.NewEncoder(w).Encode(resp)
}
