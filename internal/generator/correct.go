package generator

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"nfogen/internal/correct"
	"nfogen/internal/movie"
	"nfogen/internal/nfoerr"
)

// correctionSession walks the operator through the populated record: every
// scalar field is confirmed or overridden, and the actor/rating/genre/
// unique-id collections support append and remove. Cancelling anywhere
// aborts the run. After a pass the record is re-validated; on remaining
// violations the operator may retry or give up.
func (g *Generator) correctionSession() error {
	if g.sealed {
		return errors.New("record is sealed once serialization has begun")
	}
	for {
		if err := g.editScalars(); err != nil {
			return abortIfCancelled(err)
		}
		if err := g.editActors(); err != nil {
			return abortIfCancelled(err)
		}
		if err := g.editGenres(); err != nil {
			return abortIfCancelled(err)
		}
		if err := g.editRatings(); err != nil {
			return abortIfCancelled(err)
		}
		if err := g.editUniqueIDs(); err != nil {
			return abortIfCancelled(err)
		}

		if g.cfg.General.AutoCorrection {
			g.record.ApplyDefaults()
		}

		violations := movie.Validate(g.record)
		if len(violations) == 0 {
			return nil
		}

		g.corr.Show("Still invalid:")
		for _, v := range violations {
			g.corr.Show("  - " + v)
		}
		again, err := g.corr.Confirm("Correct again?")
		if err != nil {
			return abortIfCancelled(err)
		}
		if !again {
			return nfoerr.ErrAborted
		}
	}
}

func (g *Generator) editScalars() error {
	rec := g.record
	oldTitle := rec.Title

	fields := []struct {
		label string
		get   func() string
		set   func(string)
	}{
		{"Title", func() string { return rec.Title }, func(v string) { rec.Title = v }},
		{"Original title", func() string { return rec.OriginalTitle }, func(v string) { rec.OriginalTitle = v }},
		{"Sort title", func() string { return rec.SortTitle }, func(v string) { rec.SortTitle = v }},
		{"Product ID", func() string { return rec.ProductID }, func(v string) { rec.ProductID = v }},
		{"Year", func() string { return rec.Year }, func(v string) { rec.Year = v }},
		{"Plot", func() string { return rec.Plot }, func(v string) { rec.Plot = v }},
		{"Outline", func() string { return rec.Outline }, func(v string) { rec.Outline = v }},
		{"Runtime (minutes)", func() string { return rec.Runtime }, func(v string) { rec.Runtime = v }},
		{"Premiered (YYYY-MM-DD)", func() string { return rec.Premiered }, func(v string) { rec.Premiered = v }},
		{"Director", func() string { return rec.Director }, func(v string) { rec.Director = v }},
		{"Studio", func() string { return rec.Studio }, func(v string) { rec.Studio = v }},
		{"MPAA", func() string { return rec.MPAA }, func(v string) { rec.MPAA = v }},
		{"Custom rating", func() string { return rec.CustomRating }, func(v string) { rec.CustomRating = v }},
	}

	for _, f := range fields {
		value, err := g.corr.Edit(f.label, f.get())
		if err != nil {
			return err
		}
		f.set(strings.TrimSpace(value))
	}

	// A changed title drags the derived titles along when they still
	// mirrored the old one.
	if rec.Title != oldTitle {
		if rec.OriginalTitle == oldTitle {
			rec.OriginalTitle = rec.Title
		}
		if rec.SortTitle == oldTitle {
			rec.SortTitle = rec.Title
		}
	}
	return nil
}

func (g *Generator) editActors() error {
	rec := g.record
	for {
		g.corr.Show(fmt.Sprintf("Actors (%d):", len(rec.Actors)))
		for i, a := range rec.Actors {
			g.corr.Show(fmt.Sprintf("  %d. %s as %s", i+1, a.Name, a.Role))
		}
		idx, err := g.corr.Choose("Actors", []string{"done", "add", "remove"})
		if err != nil {
			return err
		}
		switch idx {
		case 0:
			return nil
		case 1:
			name, err := g.corr.Edit("Actor name", "")
			if err != nil {
				return err
			}
			if strings.TrimSpace(name) == "" {
				continue
			}
			role, err := g.corr.Edit("Role", "")
			if err != nil {
				return err
			}
			thumb, err := g.corr.Edit("Thumb URL", "")
			if err != nil {
				return err
			}
			rec.AddActor(strings.TrimSpace(name), strings.TrimSpace(role), strings.TrimSpace(thumb))
		case 2:
			if len(rec.Actors) == 0 {
				continue
			}
			names := make([]string, len(rec.Actors))
			for i, a := range rec.Actors {
				names[i] = a.Name
			}
			at, err := g.corr.Choose("Remove which actor?", names)
			if err != nil {
				return err
			}
			rec.Actors = append(rec.Actors[:at], rec.Actors[at+1:]...)
		}
	}
}

func (g *Generator) editGenres() error {
	rec := g.record
	for {
		g.corr.Show("Genres: " + strings.Join(rec.Genres, ", "))
		idx, err := g.corr.Choose("Genres", []string{"done", "add", "remove"})
		if err != nil {
			return err
		}
		switch idx {
		case 0:
			return nil
		case 1:
			genre, err := g.corr.Edit("Genre", "")
			if err != nil {
				return err
			}
			rec.AddGenre(genre)
		case 2:
			if len(rec.Genres) == 0 {
				continue
			}
			at, err := g.corr.Choose("Remove which genre?", rec.Genres)
			if err != nil {
				return err
			}
			rec.Genres = append(rec.Genres[:at], rec.Genres[at+1:]...)
		}
	}
}

func (g *Generator) editRatings() error {
	rec := g.record
	for {
		g.corr.Show(fmt.Sprintf("Ratings (%d):", len(rec.Ratings)))
		for _, r := range rec.Ratings {
			g.corr.Show(fmt.Sprintf("  %s: %.1f (%d votes)", r.Name, r.Value, r.Votes))
		}
		idx, err := g.corr.Choose("Ratings", []string{"done", "add", "remove"})
		if err != nil {
			return err
		}
		switch idx {
		case 0:
			return nil
		case 1:
			name, err := g.corr.Edit("Rating name", "default")
			if err != nil {
				return err
			}
			raw, err := g.corr.Edit("Value (0-10)", "")
			if err != nil {
				return err
			}
			value, perr := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if perr != nil {
				g.corr.Show("Not a number: " + raw)
				continue
			}
			raw, err = g.corr.Edit("Votes", "0")
			if err != nil {
				return err
			}
			votes, perr := strconv.Atoi(strings.TrimSpace(raw))
			if perr != nil {
				g.corr.Show("Not a number: " + raw)
				continue
			}
			rec.AddRating(strings.TrimSpace(name), value, votes)
		case 2:
			if len(rec.Ratings) == 0 {
				continue
			}
			names := make([]string, len(rec.Ratings))
			for i, r := range rec.Ratings {
				names[i] = r.Name
			}
			at, err := g.corr.Choose("Remove which rating?", names)
			if err != nil {
				return err
			}
			rec.Ratings = append(rec.Ratings[:at], rec.Ratings[at+1:]...)
		}
	}
}

func (g *Generator) editUniqueIDs() error {
	rec := g.record
	for {
		for _, id := range rec.UniqueIDs {
			marker := ""
			if id.Default {
				marker = " (default)"
			}
			g.corr.Show(fmt.Sprintf("  %s = %s%s", id.Type, id.Value, marker))
		}
		idx, err := g.corr.Choose("Unique IDs", []string{"done", "add", "remove"})
		if err != nil {
			return err
		}
		switch idx {
		case 0:
			return nil
		case 1:
			idType, err := g.corr.Edit("ID type (imdb, tmdb, ...)", "")
			if err != nil {
				return err
			}
			if strings.TrimSpace(idType) == "" {
				continue
			}
			value, err := g.corr.Edit("ID value", "")
			if err != nil {
				return err
			}
			isDefault, err := g.corr.Confirm("Flag as default?")
			if err != nil {
				return err
			}
			rec.AddUniqueID(strings.ToLower(strings.TrimSpace(idType)), strings.TrimSpace(value), isDefault)
		case 2:
			if len(rec.UniqueIDs) == 0 {
				continue
			}
			types := make([]string, len(rec.UniqueIDs))
			for i, id := range rec.UniqueIDs {
				types[i] = id.Type
			}
			at, err := g.corr.Choose("Remove which ID?", types)
			if err != nil {
				return err
			}
			rec.RemoveUniqueID(types[at])
		}
	}
}

func abortIfCancelled(err error) error {
	if errors.Is(err, correct.ErrCancelled) {
		return nfoerr.ErrAborted
	}
	return err
}
