package scraper

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jusmonitor/process-tracker/internal/config"
	"github.com/jusmonitor/process-tracker/pkg/logger"
)

// Factory builds a fresh Scraper for one scrape unit of work.
type Factory func() Scraper

// Registry maps court acronyms to scraper factories. It is constructed
// once at startup and injected into the scraping service; lookups for
// unregistered courts fail closed.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry builds a registry with every built-in adapter registered.
func NewRegistry(cfg *config.Config, log *logger.Logger) *Registry {
	r := &Registry{factories: make(map[string]Factory)}

	r.Register("TJSP", func() Scraper {
		return NewTJSPScraper(NewClient(cfg), log)
	})

	return r
}

// Register adds a factory under the given acronym, replacing any previous
// registration. Acronyms are case-insensitive.
func (r *Registry) Register(acronym string, factory Factory) {
	r.factories[strings.ToUpper(acronym)] = factory
}

// Create returns a fresh scraper for the court, or ErrUnsupportedCourt
// when no adapter is registered for the acronym.
func (r *Registry) Create(acronym string) (Scraper, error) {
	factory, ok := r.factories[strings.ToUpper(acronym)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCourt, acronym)
	}
	return factory(), nil
}

// AvailableCourts lists the registered acronyms in sorted order.
func (r *Registry) AvailableCourts() []string {
	courts := make([]string, 0, len(r.factories))
	for acronym := range r.factories {
		courts = append(courts, acronym)
	}
	sort.Strings(courts)
	return courts
}
