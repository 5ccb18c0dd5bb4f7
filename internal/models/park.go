package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ParkID identifies a park in the remote API. The API has served it both as a
// JSON string and as a number, so both are accepted.
type ParkID string

// UnmarshalJSON accepts "12" and 12.
func (id *ParkID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ParkID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("park_id must be a string or number: %w", err)
	}
	*id = ParkID(n.String())
	return nil
}

func (id ParkID) String() string {
	return string(id)
}

// CatalogEntry is a single row of the park list endpoint
type CatalogEntry struct {
	Name string `json:"name"`
	ID   ParkID `json:"park_id"`
}

// Catalog is the full list of parks served by the API
type Catalog []CatalogEntry

// IDs returns one identifier per park name, keeping the order in which names
// first appear. When a name is listed more than once the later identifier
// wins, so each park's files are written once. Empty and repeated identifiers
// are skipped.
func (c Catalog) IDs() []string {
	byName := make(map[string]int, len(c))
	ids := make([]string, 0, len(c))
	for _, entry := range c {
		id := entry.ID.String()
		if i, ok := byName[entry.Name]; ok {
			ids[i] = id
			continue
		}
		byName[entry.Name] = len(ids)
		ids = append(ids, id)
	}

	seen := make(map[string]struct{}, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Location is the park coordinate used for the map
type Location struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

// ParkDetail is the full record for one park.
// Information preserves the category order of the source document.
type ParkDetail struct {
	ID          ParkID                                 `json:"park_id,omitempty"`
	Name        string                                 `json:"name" validate:"required"`
	Images      []string                               `json:"park_images"`
	Highlights  []string                               `json:"highlights"`
	Information *orderedmap.OrderedMap[string, string] `json:"park_information"`
	Address     string                                 `json:"address"`
	URL         string                                 `json:"url"`
	Location    Location                               `json:"location"`
}

// Categories returns information categories in source order
func (p *ParkDetail) Categories() []InfoSection {
	if p.Information == nil {
		return nil
	}
	sections := make([]InfoSection, 0, p.Information.Len())
	for pair := p.Information.Oldest(); pair != nil; pair = pair.Next() {
		sections = append(sections, InfoSection{Category: pair.Key, Body: pair.Value})
	}
	return sections
}

// InfoSection is one category of park information
type InfoSection struct {
	Category string
	Body     string
}

// CachedCatalog is the persisted form of the last fetched catalog
type CachedCatalog struct {
	Key       string `badgerhold:"key"`
	Entries   Catalog
	FetchedAt time.Time
}

// CachedPark is the persisted form of a fetched detail record.
// The raw JSON is stored so the ordered information map survives the round trip.
type CachedPark struct {
	ID        string `badgerhold:"key"`
	Name      string `badgerhold:"index"`
	Raw       []byte
	FetchedAt time.Time
}
