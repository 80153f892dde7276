// Package testutil serves a fake E-ITS portal for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

type Measure struct {
	Code      string
	Title     string
	Body      string
	GroupCode string
}

type Module struct {
	ID       string
	Code     string
	Title    string
	Purpose  string
	Measures []Measure
}

type Category struct {
	Code    string
	Modules []Module
}

// Edition is the content of one framework year. Version defaults to the year.
type Edition struct {
	Version    string
	ValidFrom  string
	ValidTo    string
	Categories []Category
}

type Risk struct {
	Code        string
	Title       string
	Description string
}

type Portal struct {
	Server   *httptest.Server
	Editions map[int]Edition
	Risks    []Risk
	// Fail maps a request path to the status code it should fail with.
	Fail map[string]int

	mutex    sync.Mutex
	requests []string
}

// NewPortal starts a fake portal, the server is closed when the test ends.
func NewPortal(t testing.TB, editions map[int]Edition) *Portal {
	p := &Portal{
		Editions: editions,
		Fail:     map[string]int{},
	}
	p.Server = httptest.NewServer(http.HandlerFunc(p.serve))
	t.Cleanup(p.Server.Close)
	return p
}

func (p *Portal) URL() string {
	return p.Server.URL
}

// Requests lists every requested path in order.
func (p *Portal) Requests() []string {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return append([]string(nil), p.requests...)
}

func (p *Portal) serve(w http.ResponseWriter, r *http.Request) {
	p.mutex.Lock()
	p.requests = append(p.requests, r.URL.Path)
	status, fail := p.Fail[r.URL.Path]
	p.mutex.Unlock()

	if fail {
		w.WriteHeader(status)
		return
	}

	body, ok := p.route(r.URL.Path)
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("content-type", "application/json")
	w.Write(body)
}

func (p *Portal) route(path string) ([]byte, bool) {
	if path == "/api/2/materials" {
		return p.materials(), true
	}

	var year int
	var moduleId string
	if n, _ := fmt.Sscanf(path, "/api/2/catalog/%d/%s", &year, &moduleId); n == 2 {
		return p.module(year, moduleId)
	}
	if n, _ := fmt.Sscanf(path, "/api/2/catalog/%d", &year); n == 1 && !strings.Contains(strings.TrimPrefix(path, "/api/2/catalog/"), "/") {
		return p.catalog(year)
	}
	return nil, false
}

func mustMarshal(v any) []byte {
	out, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return out
}

func measureDetails(m Module) []map[string]any {
	var groups []map[string]any
	index := map[string]int{}
	for _, measure := range m.Measures {
		groupCode := measure.GroupCode
		if groupCode == "" {
			groupCode = "3.2"
		}
		i, ok := index[groupCode]
		if !ok {
			i = len(groups)
			index[groupCode] = i
			groups = append(groups, map[string]any{
				"groupCode": groupCode,
				"measures":  []map[string]any{},
			})
		}
		groups[i]["measures"] = append(groups[i]["measures"].([]map[string]any), map[string]any{
			"measureId":     measure.Code,
			"measureCode":   measure.Code,
			"measureTitle":  measure.Title,
			"body":          measure.Body,
			"assignees":     []string{},
			"securityCodes": []string{},
		})
	}
	return groups
}

func (p *Portal) catalog(year int) ([]byte, bool) {
	edition, ok := p.Editions[year]
	if !ok {
		return nil, false
	}
	groups := []map[string]any{}
	for _, c := range edition.Categories {
		modules := []map[string]any{}
		for _, m := range c.Modules {
			modules = append(modules, map[string]any{
				"moduleId":    m.ID,
				"moduleCode":  m.Code,
				"moduleTitle": m.Title,
			})
		}
		groups = append(groups, map[string]any{
			"groupCode":  c.Code,
			"groupTitle": c.Code,
			"modules":    modules,
		})
	}
	version := edition.Version
	if version == "" {
		version = fmt.Sprint(year)
	}
	return mustMarshal(map[string]any{
		"version":      version,
		"validFrom":    edition.ValidFrom,
		"validTo":      edition.ValidTo,
		"moduleGroups": groups,
	}), true
}

func (p *Portal) module(year int, id string) ([]byte, bool) {
	edition, ok := p.Editions[year]
	if !ok {
		return nil, false
	}
	for _, c := range edition.Categories {
		for _, m := range c.Modules {
			if m.ID != id {
				continue
			}
			return mustMarshal(map[string]any{
				"moduleId":    m.ID,
				"moduleCode":  m.Code,
				"moduleTitle": m.Title,
				"description": []map[string]any{
					{"title": "Eesmärk", "content": m.Purpose},
				},
				"measureDetails": measureDetails(m),
			}), true
		}
	}
	return nil, false
}

func (p *Portal) materials() []byte {
	var content strings.Builder
	for _, r := range p.Risks {
		fmt.Fprintf(&content, "<h2>%s\t%s</h2><p>%s</p>", r.Code, r.Title, r.Description)
	}
	return mustMarshal([]map[string]any{
		{
			"title": "Materjalid",
			"child_objects": []map[string]any{
				{"title": "Alusohtude kataloog", "content": content.String()},
			},
		},
	})
}
