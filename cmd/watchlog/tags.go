package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

// TagCmd groups the tag management subcommands.
type TagCmd struct {
	List   TagListCmd   `cmd:"" help:"List tags"`
	Create TagCreateCmd `cmd:"" help:"Create a tag"`
	Update TagUpdateCmd `cmd:"" help:"Rename or recolor a tag"`
	Delete TagDeleteCmd `cmd:"" help:"Delete a tag"`
	Set    TagSetCmd    `cmd:"" help:"Replace a title's full tag set"`
	Show   TagShowCmd   `cmd:"" help:"Show the tags on a title"`
}

type TagListCmd struct{}

func (c *TagListCmd) Run(app *App) error {
	tags, err := app.Catalog.ListTags(context.Background())
	if err != nil {
		return err
	}
	if len(tags) == 0 {
		fmt.Println("no tags")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCOLOR")
	for _, t := range tags {
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.ID, t.Name, t.Color)
	}
	return w.Flush()
}

type TagCreateCmd struct {
	Name  string `arg:"" help:"Tag name"`
	Color string `help:"Hex color, e.g. #e0b040" default:"#808080"`
}

func (c *TagCreateCmd) Run(app *App) error {
	tag, err := app.Catalog.CreateTag(context.Background(), c.Name, c.Color)
	if err != nil {
		return err
	}
	fmt.Printf("created %s (%s)\n", tag.Name, tag.ID)
	return nil
}

type TagUpdateCmd struct {
	ID    string `arg:"" help:"Tag id"`
	Name  string `help:"New name" required:""`
	Color string `help:"New hex color" required:""`
}

func (c *TagUpdateCmd) Run(app *App) error {
	if err := app.Catalog.UpdateTag(context.Background(), c.ID, c.Name, c.Color); err != nil {
		return err
	}
	fmt.Println("updated")
	return nil
}

type TagDeleteCmd struct {
	ID string `arg:"" help:"Tag id"`
}

func (c *TagDeleteCmd) Run(app *App) error {
	if err := app.Catalog.DeleteTag(context.Background(), c.ID); err != nil {
		return err
	}
	fmt.Println("deleted")
	return nil
}

type TagSetCmd struct {
	TitleID string   `arg:"" help:"Title id"`
	TagIDs  []string `arg:"" optional:"" help:"Tag ids (empty clears all tags)"`
}

func (c *TagSetCmd) Run(app *App) error {
	if err := app.Catalog.SetTitleTags(context.Background(), c.TitleID, c.TagIDs); err != nil {
		return err
	}
	fmt.Printf("title now has %d tags\n", len(c.TagIDs))
	return nil
}

type TagShowCmd struct {
	TitleID string `arg:"" help:"Title id"`
}

func (c *TagShowCmd) Run(app *App) error {
	refs, err := app.Catalog.GetTagsForTitle(context.Background(), c.TitleID)
	if err != nil {
		return err
	}
	if len(refs) == 0 {
		fmt.Println("no tags")
		return nil
	}
	names := make([]string, 0, len(refs))
	for _, r := range refs {
		names = append(names, r.Name)
	}
	fmt.Println(strings.Join(names, ", "))
	return nil
}
