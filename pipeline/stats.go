package pipeline

import (
	"time"

	"github.com/benbjohnson/clock"
	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"
)

// Stage names a step of a run.
type Stage string

// The stages of a run, in order.
const (
	StageHeightfield Stage = "heightfield"
	StageSurface     Stage = "surface"
	StageSample      Stage = "sample"
	StagePanels      Stage = "panels"
	StageTrees       Stage = "trees"
)

// StageTiming is how long one stage took.
type StageTiming struct {
	Stage    Stage         `json:"stage"`
	Duration time.Duration `json:"duration_ns"`
}

// Stats summarizes a run.
type Stats struct {
	CurvatureMin    float64       `json:"curvature_min"`
	CurvatureMax    float64       `json:"curvature_max"`
	CurvatureMean   float64       `json:"curvature_mean"`
	CurvatureMedian float64       `json:"curvature_median"`
	Panels          int           `json:"panels"`
	OpenPanels      int           `json:"open_panels"`
	Anchors         int           `json:"anchors"`
	Segments        int           `json:"segments"`
	Pruned          int           `json:"pruned"`
	Skipped         int           `json:"skipped"`
	Stages          []StageTiming `json:"stages"`
}

// stageTimer measures consecutive stages.
type stageTimer struct {
	clock  clock.Clock
	last   time.Time
	stages []StageTiming
}

func newStageTimer(clk clock.Clock) *stageTimer {
	return &stageTimer{clock: clk, last: clk.Now()}
}

func (t *stageTimer) done(stage Stage) {
	now := t.clock.Now()
	t.add(stage, now.Sub(t.last))
	t.last = now
}

func (t *stageTimer) add(stage Stage, d time.Duration) {
	t.stages = append(t.stages, StageTiming{Stage: stage, Duration: d})
}

func computeStats(res *Result, stages []StageTiming) (Stats, error) {
	// panel curvatures are the quantity openings are driven by
	ks := make(stats.Float64Data, 0, len(res.Panels.Panels))
	for _, p := range res.Panels.Panels {
		ks = append(ks, p.K)
	}
	mean, err := ks.Mean()
	if err != nil {
		return Stats{}, errors.Wrap(err, "cannot compute curvature mean")
	}
	median, err := ks.Median()
	if err != nil {
		return Stats{}, errors.Wrap(err, "cannot compute curvature median")
	}
	s := Stats{
		CurvatureMin:    res.Panels.Kmin,
		CurvatureMax:    res.Panels.Kmax,
		CurvatureMean:   mean,
		CurvatureMedian: median,
		Panels:          len(res.Panels.Panels),
		OpenPanels:      res.Panels.OpenCount(),
		Anchors:         len(res.Anchors),
		Stages:          stages,
	}
	for _, t := range res.Trees {
		s.Segments += len(t.Segments)
		s.Pruned += t.Pruned
		s.Skipped += t.Skipped
	}
	return s, nil
}
