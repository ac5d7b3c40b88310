package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"gopkg.in/yaml.v3"

	"DigitalWhiteboard/internal/scene"
	"DigitalWhiteboard/internal/session"
)

type dumpDoc struct {
	File   string         `yaml:"file"`
	Items  int            `yaml:"items"`
	Counts map[string]int `yaml:"counts"`
	Log    []dumpItem     `yaml:"log"`
}

type dumpItem struct {
	Index  int      `yaml:"index"`
	Kind   string   `yaml:"kind"`
	X      *float64 `yaml:"x,omitempty"`
	Y      *float64 `yaml:"y,omitempty"`
	Color  string   `yaml:"color,omitempty"`
	Width  float64  `yaml:"width,omitempty"`
	Text   string   `yaml:"text,omitempty"`
	Source string   `yaml:"source,omitempty"`
	Bytes  int      `yaml:"bytes,omitempty"`
}

func toDumpItem(i int, it scene.Item) dumpItem {
	d := dumpItem{Index: i, Kind: it.Kind.String()}
	if it.Kind != scene.KindAudio {
		x, y := it.X, it.Y
		d.X, d.Y = &x, &y
	}
	switch it.Kind {
	case scene.KindStroke:
		c := it.Color
		d.Color = fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
		d.Width = it.Width
	case scene.KindText:
		d.Text = it.Text
	case scene.KindImage:
		d.Source = it.Source
		d.Bytes = len(it.Data)
	case scene.KindAudio, scene.KindVideo:
		d.Source = it.Source
	}
	return d
}

func buildDump(name string, items []scene.Item) dumpDoc {
	doc := dumpDoc{
		File:   name,
		Items:  len(items),
		Counts: make(map[string]int),
		Log:    make([]dumpItem, 0, len(items)),
	}
	for i, it := range items {
		doc.Counts[it.Kind.String()]++
		doc.Log = append(doc.Log, toDumpItem(i, it))
	}
	return doc
}

func runDump(args []string, w io.Writer, logger *slog.Logger) error {
	if len(args) != 1 {
		return errors.New("expected exactly one session file")
	}
	items, err := session.Load(args[0])
	if err != nil {
		return err
	}
	logger.Debug("session decoded", "path", args[0], "items", len(items))

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(buildDump(args[0], items)); err != nil {
		return err
	}
	return enc.Close()
}
