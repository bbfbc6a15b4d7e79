// Package nfo serializes a movie record into the metadata file media
// library software reads next to the video file.
package nfo

import (
	"encoding/xml"
	"time"

	"nfogen/internal/movie"
)

// Header matches what common scrapers emit, so downstream parsers treat the
// output as a known artifact.
const Header = `<?xml version="1.0" encoding="UTF-8" standalone="yes" ?>` + "\n"

// LockedFields is emitted as-is; the empty set means no fields are locked
// against library-side edits.
const LockedFields = ""

// cdata renders free text as a raw CDATA block so plot summaries are never
// entity-escaped.
type cdata struct {
	Text string `xml:",cdata"`
}

type uniqueIDXML struct {
	Type    string `xml:"type,attr"`
	Default bool   `xml:"default,attr"`
	Value   string `xml:",chardata"`
}

type actorXML struct {
	Name  string `xml:"name"`
	Role  string `xml:"role,omitempty"`
	Type  string `xml:"type"`
	Thumb string `xml:"thumb,omitempty"`
}

type ratingXML struct {
	Name  string  `xml:"name,attr"`
	Value float64 `xml:"value"`
	Votes int     `xml:"votes"`
}

// movieXML fixes the element order of the output file. Field order here is
// the contract; do not reorder.
type movieXML struct {
	XMLName       xml.Name      `xml:"movie"`
	Title         string        `xml:"title"`
	OriginalTitle string        `xml:"originaltitle"`
	SortTitle     string        `xml:"sorttitle"`
	UniqueIDs     []uniqueIDXML `xml:"uniqueid"`
	Plot          cdata         `xml:"plot"`
	Outline       cdata         `xml:"outline"`
	Runtime       string        `xml:"runtime"`
	Premiered     string        `xml:"premiered,omitempty"`
	Year          string        `xml:"year,omitempty"`
	MPAA          string        `xml:"mpaa,omitempty"`
	CustomRating  string        `xml:"customrating,omitempty"`
	Genres        []string      `xml:"genre"`
	Studio        string        `xml:"studio"`
	Director      string        `xml:"director"`
	Actors        []actorXML    `xml:"actor"`
	Ratings       []ratingXML   `xml:"rating"`
	LockData      bool          `xml:"lockdata"`
	LockedFields  string        `xml:"lockedfields"`
	DateAdded     string        `xml:"dateadded"`
}

// Encode renders rec in the fixed element order. The record must already
// have passed validation; Encode does not re-check it.
func Encode(rec *movie.Record, now time.Time) ([]byte, error) {
	m := movieXML{
		Title:         rec.Title,
		OriginalTitle: rec.OriginalTitle,
		SortTitle:     rec.SortTitle,
		Plot:          cdata{Text: rec.Plot},
		Outline:       cdata{Text: rec.Outline},
		Runtime:       rec.Runtime,
		Premiered:     rec.Premiered,
		Year:          rec.Year,
		MPAA:          rec.MPAA,
		CustomRating:  rec.CustomRating,
		Genres:        rec.Genres,
		Studio:        rec.Studio,
		Director:      rec.Director,
		LockData:      false,
		LockedFields:  LockedFields,
		DateAdded:     now.Format("2006-01-02 15:04:05"),
	}

	for _, id := range rec.UniqueIDs {
		if id.Value == "" {
			continue
		}
		m.UniqueIDs = append(m.UniqueIDs, uniqueIDXML{Type: id.Type, Default: id.Default, Value: id.Value})
	}
	for _, a := range rec.Actors {
		m.Actors = append(m.Actors, actorXML{Name: a.Name, Role: a.Role, Type: "Actor", Thumb: a.Thumb})
	}
	for _, r := range rec.Ratings {
		m.Ratings = append(m.Ratings, ratingXML{Name: r.Name, Value: r.Value, Votes: r.Votes})
	}

	b, err := xml.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, err
	}
	return append([]byte(Header), append(b, '\n')...), nil
}

// decode mirrors movieXML with plain chardata fields, since Unmarshal
// treats CDATA sections as character data.
type decodeXML struct {
	XMLName       xml.Name      `xml:"movie"`
	Title         string        `xml:"title"`
	OriginalTitle string        `xml:"originaltitle"`
	SortTitle     string        `xml:"sorttitle"`
	UniqueIDs     []uniqueIDXML `xml:"uniqueid"`
	Plot          string        `xml:"plot"`
	Outline       string        `xml:"outline"`
	Runtime       string        `xml:"runtime"`
	Premiered     string        `xml:"premiered"`
	Year          string        `xml:"year"`
	MPAA          string        `xml:"mpaa"`
	CustomRating  string        `xml:"customrating"`
	Genres        []string      `xml:"genre"`
	Studio        string        `xml:"studio"`
	Director      string        `xml:"director"`
	Actors        []actorXML    `xml:"actor"`
	Ratings       []ratingXML   `xml:"rating"`
}

// Parse reads an NFO file back into a record. The product id is recovered
// from the default unique id.
func Parse(data []byte) (*movie.Record, error) {
	var d decodeXML
	if err := xml.Unmarshal(data, &d); err != nil {
		return nil, err
	}

	rec := movie.New()
	rec.Title = d.Title
	rec.OriginalTitle = d.OriginalTitle
	rec.SortTitle = d.SortTitle
	rec.Plot = d.Plot
	rec.Outline = d.Outline
	rec.Runtime = d.Runtime
	rec.Premiered = d.Premiered
	rec.Year = d.Year
	rec.MPAA = d.MPAA
	rec.CustomRating = d.CustomRating
	rec.Studio = d.Studio
	rec.Director = d.Director
	for _, g := range d.Genres {
		rec.AddGenre(g)
	}
	for _, a := range d.Actors {
		rec.AddActor(a.Name, a.Role, a.Thumb)
	}
	for _, r := range d.Ratings {
		rec.AddRating(r.Name, r.Value, r.Votes)
	}
	for _, id := range d.UniqueIDs {
		rec.AddUniqueID(id.Type, id.Value, id.Default)
		if id.Default {
			rec.ProductID = id.Value
		}
	}
	return rec, nil
}
