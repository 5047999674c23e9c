// Package pokeapitest serves PokeAPI shaped payloads for tests.
package pokeapitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// Entry describes one Pokemon the fake server knows about. Names use the
// raw PokeAPI spelling (lowercase, hyphenated).
type Entry struct {
	Name      string
	ID        int
	Types     []string
	Stats     map[string]int
	Height    int
	Weight    int
	Abilities []string
}

// Pikachu and Charizard carry their real base stats.
var (
	Pikachu = Entry{
		Name: "pikachu", ID: 25, Types: []string{"electric"},
		Stats: map[string]int{
			"hp": 35, "attack": 55, "defense": 40,
			"special-attack": 50, "special-defense": 50, "speed": 90,
		},
		Height: 4, Weight: 60, Abilities: []string{"static", "lightning-rod"},
	}
	Charizard = Entry{
		Name: "charizard", ID: 6, Types: []string{"fire", "flying"},
		Stats: map[string]int{
			"hp": 78, "attack": 84, "defense": 78,
			"special-attack": 109, "special-defense": 85, "speed": 100,
		},
		Height: 17, Weight: 905, Abilities: []string{"blaze", "solar-power"},
	}
)

// Server is a fake PokeAPI. Unknown names yield 404.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	requests []string
}

func NewServer(entries ...Entry) *Server {
	byName := make(map[string]Entry, len(entries))
	for _, e := range entries {
		byName[e.Name] = e
	}

	s := &Server{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/pokemon/")
		s.mu.Lock()
		s.requests = append(s.requests, name)
		s.mu.Unlock()

		entry, ok := byName[name]
		if !ok {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload(entry))
	}))
	return s
}

// Requests returns the names requested so far, in order.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

func payload(e Entry) map[string]interface{} {
	types := make([]map[string]interface{}, 0, len(e.Types))
	for i, t := range e.Types {
		types = append(types, map[string]interface{}{
			"slot": i + 1,
			"type": map[string]interface{}{"name": t},
		})
	}
	stats := make([]map[string]interface{}, 0, len(e.Stats))
	for name, v := range e.Stats {
		stats = append(stats, map[string]interface{}{
			"base_stat": v,
			"stat":      map[string]interface{}{"name": name},
		})
	}
	abilities := make([]map[string]interface{}, 0, len(e.Abilities))
	for _, a := range e.Abilities {
		abilities = append(abilities, map[string]interface{}{
			"ability": map[string]interface{}{"name": a},
		})
	}
	return map[string]interface{}{
		"id":        e.ID,
		"name":      e.Name,
		"height":    e.Height,
		"weight":    e.Weight,
		"types":     types,
		"stats":     stats,
		"abilities": abilities,
	}
}
