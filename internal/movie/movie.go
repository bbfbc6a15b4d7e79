// Package movie holds the canonical, site-agnostic record a generator
// populates from a scraped page. One record per generator instance; the
// record owns its nested collections exclusively.
package movie

import "strings"

// Actor is one cast entry. Name is the only required field.
type Actor struct {
	Name  string
	Role  string
	Thumb string
}

// Rating is one scored rating (0..10 scale) with a vote count.
type Rating struct {
	Name  string
	Value float64
	Votes int
}

// UniqueID is a site-assigned identifier keyed by type ("imdb", "tmdb",
// or a site key). At most one entry carries the default flag.
type UniqueID struct {
	Type    string
	Value   string
	Default bool
}

// Record is the subject of one run: created empty at generator
// construction, populated during scraping, optionally edited during
// correction, and frozen once serialization begins.
type Record struct {
	Title         string
	OriginalTitle string
	SortTitle     string
	ProductID     string
	Year          string // "" or exactly 4 digits
	Plot          string
	Outline       string
	Runtime       string // minute count as string, default "0"
	Premiered     string // "" or YYYY-MM-DD
	Director      string
	Studio        string
	MPAA          string
	CustomRating  string

	Genres    []string
	Actors    []Actor
	Ratings   []Rating
	UniqueIDs []UniqueID
}

// New returns an empty record with the zero defaults applied.
func New() *Record {
	return &Record{Runtime: "0"}
}

// AddActor appends a cast entry in scrape order.
func (r *Record) AddActor(name, role, thumb string) {
	r.Actors = append(r.Actors, Actor{Name: name, Role: role, Thumb: thumb})
}

// AddRating appends a rating in scrape order.
func (r *Record) AddRating(name string, value float64, votes int) {
	r.Ratings = append(r.Ratings, Rating{Name: name, Value: value, Votes: votes})
}

// AddGenre appends a genre, collapsing duplicates while preserving the
// order of first appearance.
func (r *Record) AddGenre(genre string) {
	genre = strings.TrimSpace(genre)
	if genre == "" {
		return
	}
	for _, g := range r.Genres {
		if g == genre {
			return
		}
	}
	r.Genres = append(r.Genres, genre)
}

// AddUniqueID inserts or replaces the entry for idType. Flagging one entry
// as default clears the flag on every other entry, so at most one default
// exists at any time.
func (r *Record) AddUniqueID(idType, value string, isDefault bool) {
	if isDefault {
		for i := range r.UniqueIDs {
			r.UniqueIDs[i].Default = false
		}
	}
	for i := range r.UniqueIDs {
		if r.UniqueIDs[i].Type == idType {
			r.UniqueIDs[i].Value = value
			r.UniqueIDs[i].Default = isDefault
			return
		}
	}
	r.UniqueIDs = append(r.UniqueIDs, UniqueID{Type: idType, Value: value, Default: isDefault})
}

// RemoveUniqueID drops the entry for idType, if present.
func (r *Record) RemoveUniqueID(idType string) {
	for i := range r.UniqueIDs {
		if r.UniqueIDs[i].Type == idType {
			r.UniqueIDs = append(r.UniqueIDs[:i], r.UniqueIDs[i+1:]...)
			return
		}
	}
}

// DefaultUniqueID returns the entry flagged default, if any.
func (r *Record) DefaultUniqueID() (UniqueID, bool) {
	for _, id := range r.UniqueIDs {
		if id.Default {
			return id, true
		}
	}
	return UniqueID{}, false
}

// ApplyDefaults fills derivable fields: original/sort title fall back to
// the title, the year falls back to the premiered date's year, and an empty
// runtime becomes "0".
func (r *Record) ApplyDefaults() {
	r.Title = strings.TrimSpace(r.Title)
	if r.OriginalTitle == "" {
		r.OriginalTitle = r.Title
	}
	if r.SortTitle == "" {
		r.SortTitle = r.Title
	}
	if r.Year == "" && len(r.Premiered) >= 4 {
		r.Year = r.Premiered[:4]
	}
	if r.Runtime == "" {
		r.Runtime = "0"
	}
}
