package main

import (
	"github.com/golang/geo/r3"

	"go.viam.com/canopy/anchor"
	"go.viam.com/canopy/config"
	"go.viam.com/canopy/growth"
	"go.viam.com/canopy/palette"
	"go.viam.com/canopy/pipeline"
	"go.viam.com/canopy/spatialmath"
)

// document is the JSON form of a run consumed by downstream modelling tools.
type document struct {
	Config  config.Config   `json:"config"`
	Panels  []panelDoc      `json:"panels"`
	Anchors []anchor.Anchor `json:"anchors"`
	Trees   []treeDoc       `json:"trees"`
	Stats   pipeline.Stats  `json:"stats"`
}

type panelDoc struct {
	I       int           `json:"i"`
	J       int           `json:"j"`
	Corners [4]r3.Vector  `json:"corners"`
	K       float64       `json:"k"`
	T       float64       `json:"t"`
	Opening *[4]r3.Vector `json:"opening,omitempty"`
	Color   string        `json:"color"`
}

type treeDoc struct {
	Base     r3.Vector           `json:"base"`
	Segments []segmentDoc        `json:"segments"`
	Pipes    []*spatialmath.Mesh `json:"pipes,omitempty"`
	Pruned   int                 `json:"pruned"`
	Skipped  int                 `json:"skipped"`
}

type segmentDoc struct {
	growth.Segment
	Color string `json:"color"`
}

func newDocument(res *pipeline.Result, pipes bool) document {
	doc := document{
		Config:  res.Config,
		Panels:  make([]panelDoc, 0, len(res.Panels.Panels)),
		Anchors: res.Anchors,
		Trees:   make([]treeDoc, 0, len(res.Trees)),
		Stats:   res.Stats,
	}
	for _, p := range res.Panels.Panels {
		doc.Panels = append(doc.Panels, panelDoc{
			I:       p.I,
			J:       p.J,
			Corners: p.Corners,
			K:       p.K,
			T:       p.T,
			Opening: p.Opening,
			Color:   palette.Hex(p.Color),
		})
	}
	for _, t := range res.Trees {
		td := treeDoc{
			Base:     t.Base,
			Segments: make([]segmentDoc, 0, len(t.Segments)),
			Pruned:   t.Pruned,
			Skipped:  t.Skipped,
		}
		for _, s := range t.Segments {
			td.Segments = append(td.Segments, segmentDoc{Segment: s, Color: palette.Hex(s.Color())})
		}
		if pipes {
			td.Pipes = t.Pipes(res.Config.Growth.PipeSides)
		}
		doc.Trees = append(doc.Trees, td)
	}
	return doc
}
