package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/watchlogapp/watchlog/internal/domain"
	"github.com/watchlogapp/watchlog/internal/metadata"
	"github.com/watchlogapp/watchlog/internal/service"
	"github.com/watchlogapp/watchlog/internal/store"
)

// AddCmd resolves a typed title: shows the existing entry, imports a chosen
// metadata candidate, or records a local-only entry.
type AddCmd struct {
	Title []string `arg:"" help:"Title to add (multiple words allowed)"`
	Type  string   `help:"Media type for local entries (movie, show, youtube)" default:"movie"`
	Local bool     `help:"Skip metadata lookup and add a local-only entry"`
	Pick  int      `help:"Pick candidate N from a previous search instead of prompting" default:"0"`
	Notes string   `help:"Free-form notes for local entries"`
}

func (c *AddCmd) Run(app *App) error {
	ctx := context.Background()
	typed := strings.Join(c.Title, " ")

	if c.Local {
		title, err := app.Reconcile.AddLocal(ctx, typed, domain.MediaType(c.Type), c.Notes)
		if err != nil {
			return err
		}
		fmt.Printf("added %s (%s)\n", title.Title, title.ID)
		return nil
	}

	outcome := app.Reconcile.Start(ctx, typed)
	switch outcome.Status {
	case service.StatusExists:
		fmt.Println("already in your list:")
		printTitle(outcome.Title)
		return nil
	case service.StatusError:
		return fmt.Errorf("%s", outcome.Message)
	case service.StatusAdded:
		printTitle(outcome.Title)
		return nil
	case service.StatusNeedsChoice:
		// handled below
	}

	if len(outcome.Candidates) == 0 {
		fmt.Println("no metadata results; use --local to add it anyway")
		return nil
	}

	if c.Pick <= 0 {
		printCandidates(outcome.Candidates)
		fmt.Println("\nre-run with --pick N to confirm, or --local to add as typed")
		return nil
	}
	if c.Pick > len(outcome.Candidates) {
		return fmt.Errorf("pick %d out of range, only %d candidates", c.Pick, len(outcome.Candidates))
	}

	confirmed := app.Reconcile.Confirm(ctx, outcome.Candidates[c.Pick-1])
	switch confirmed.Status {
	case service.StatusAdded:
		fmt.Println("added:")
		printTitle(confirmed.Title)
	case service.StatusExists:
		fmt.Println("already in your list:")
		printTitle(confirmed.Title)
	case service.StatusError:
		return fmt.Errorf("%s", confirmed.Message)
	case service.StatusNeedsChoice:
		return fmt.Errorf("unexpected outcome %q from confirm", confirmed.Status)
	}
	return nil
}

// ListCmd lists titles, optionally filtered.
type ListCmd struct {
	Unseen bool   `help:"Only unseen titles"`
	Type   string `help:"Filter by media type (movie, show, youtube)"`
	Genre  string `help:"Filter by genre name"`
	Tag    string `help:"Filter by tag name"`
	Limit  int    `help:"Maximum titles to show" default:"200"`
}

func (c *ListCmd) Run(app *App) error {
	ctx := context.Background()
	titles, err := app.Catalog.ListTitles(ctx, store.ListFilter{
		UnseenOnly: c.Unseen,
		Type:       domain.MediaType(c.Type),
		Genre:      c.Genre,
		Tag:        c.Tag,
	}, c.Limit)
	if err != nil {
		return err
	}
	if len(titles) == 0 {
		fmt.Println("no titles")
		return nil
	}
	printTitleTable(titles)
	return nil
}

// RandomCmd picks one title at random, honoring the same filters as list.
type RandomCmd struct {
	Unseen bool   `help:"Only unseen titles"`
	Type   string `help:"Filter by media type (movie, show, youtube)"`
	Genre  string `help:"Filter by genre name"`
	Tag    string `help:"Filter by tag name"`
}

func (c *RandomCmd) Run(app *App) error {
	title, err := app.Catalog.RandomTitle(context.Background(), store.ListFilter{
		UnseenOnly: c.Unseen,
		Type:       domain.MediaType(c.Type),
		Genre:      c.Genre,
		Tag:        c.Tag,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			fmt.Println("nothing matches those filters")
			return nil
		}
		return err
	}
	printTitle(title)
	return nil
}

// SeenCmd marks a title seen or unseen.
type SeenCmd struct {
	ID     string `arg:"" help:"Title id"`
	Unseen bool   `help:"Mark unseen instead of seen"`
}

func (c *SeenCmd) Run(app *App) error {
	title, err := app.Catalog.SetSeen(context.Background(), c.ID, !c.Unseen)
	if err != nil {
		return err
	}
	state := "seen"
	if c.Unseen {
		state = "unseen"
	}
	fmt.Printf("%s marked %s\n", title.Title, state)
	return nil
}

// DeleteCmd removes a title and its genre and tag associations.
type DeleteCmd struct {
	ID string `arg:"" help:"Title id"`
}

func (c *DeleteCmd) Run(app *App) error {
	if err := app.Catalog.DeleteTitle(context.Background(), c.ID); err != nil {
		return err
	}
	fmt.Println("deleted")
	return nil
}

// SuggestCmd shows loose-match suggestions for partially typed text.
type SuggestCmd struct {
	Text  []string `arg:"" help:"Partially typed title"`
	Limit int      `help:"Maximum suggestions" default:"8"`
}

func (c *SuggestCmd) Run(app *App) error {
	titles, err := app.Catalog.Suggestions(context.Background(), strings.Join(c.Text, " "), c.Limit)
	if err != nil {
		return err
	}
	if len(titles) == 0 {
		fmt.Println("no suggestions")
		return nil
	}
	printTitleTable(titles)
	return nil
}

// GenresCmd lists genres with how many titles carry each.
type GenresCmd struct{}

func (c *GenresCmd) Run(app *App) error {
	genres, err := app.Catalog.ListGenres(context.Background())
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	for _, g := range genres {
		fmt.Fprintf(w, "%s\t%d\n", g.Name, g.TitleCount)
	}
	return w.Flush()
}

func printCandidates(cands []metadata.Candidate) {
	for i, c := range cands {
		year := "????"
		if c.Year != nil {
			year = fmt.Sprintf("%d", *c.Year)
		}
		overview := c.Overview
		if len(overview) > 80 {
			overview = overview[:77] + "..."
		}
		fmt.Printf("%2d. [%s] %s (%s)\n", i+1, c.MediaType, c.Title, year)
		if overview != "" {
			fmt.Printf("    %s\n", overview)
		}
	}
}

func printTitle(t *domain.Title) {
	fmt.Printf("%s  %s", t.ID, t.Title)
	if t.Year != nil {
		fmt.Printf(" (%d)", *t.Year)
	}
	fmt.Printf("  [%s]", t.Type)
	if t.Seen {
		fmt.Print("  seen")
	}
	fmt.Println()
	if t.RuntimeMinutes != nil {
		fmt.Printf("  runtime: %d min\n", *t.RuntimeMinutes)
	}
	if len(t.Genres) > 0 {
		fmt.Printf("  genres: %s\n", strings.Join(t.Genres, ", "))
	}
	if t.Notes != "" {
		fmt.Printf("  notes: %s\n", t.Notes)
	}
}

func printTitleTable(titles []*domain.Title) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tTYPE\tYEAR\tSEEN\tGENRES")
	for _, t := range titles {
		year := ""
		if t.Year != nil {
			year = fmt.Sprintf("%d", *t.Year)
		}
		seen := ""
		if t.Seen {
			seen = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.Title, t.Type, year, seen, strings.Join(t.Genres, ", "))
	}
	w.Flush()
}
