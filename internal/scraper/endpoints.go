package scraper

import (
	"fmt"
	"strings"
)

// Endpoints builds the portal's API urls.
type Endpoints struct {
	BaseUrl string
}

func NewEndpoints(baseUrl string) Endpoints {
	if baseUrl == "" {
		baseUrl = DefaultBaseUrl
	}
	return Endpoints{BaseUrl: strings.TrimRight(baseUrl, "/")}
}

// Catalog lists every module group and module of an edition.
func (e Endpoints) Catalog(year int) string {
	return fmt.Sprintf("%s/api/2/catalog/%d", e.BaseUrl, year)
}

// Module is the full content of a single module.
func (e Endpoints) Module(year int, moduleId string) string {
	return fmt.Sprintf("%s/api/2/catalog/%d/%s", e.BaseUrl, year, moduleId)
}

// Materials holds the supporting materials, including the basic risk catalogue.
func (e Endpoints) Materials() string {
	return fmt.Sprintf("%s/api/2/materials", e.BaseUrl)
}

// DiffCatalog is the portal's own measure diff between two editions.
func (e Endpoints) DiffCatalog(oldYear, newYear int) string {
	return fmt.Sprintf("%s/api/2/catalog/measures-diff/%d/%d", e.BaseUrl, oldYear, newYear)
}
