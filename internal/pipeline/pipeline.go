// Package pipeline composes the per-worker-day analysis: normalize,
// resolve, classify, build segments, aggregate. One call is one unit of
// work; the function is synchronous and side-effect free, so callers fan
// out across units with whatever concurrency they like.
package pipeline

import (
	"fmt"
	"time"

	"github.com/shiftsense/shiftsense/internal/aggregate"
	"github.com/shiftsense/shiftsense/internal/classify"
	"github.com/shiftsense/shiftsense/internal/common"
	"github.com/shiftsense/shiftsense/internal/location"
	"github.com/shiftsense/shiftsense/internal/model"
	"github.com/shiftsense/shiftsense/internal/normalize"
	"github.com/shiftsense/shiftsense/internal/segment"
)

// Unit is one (employee, day) analysis input, fully materialized.
type Unit struct {
	Day        time.Time
	EmployeeID string
	Events     []model.RawEvent
	Claim      *model.ClaimRecord
}

// Result is the derived output for one unit.
type Result struct {
	Summary  model.WorkTimeSummary
	Segments []model.ActivitySegment
	Events   []model.ClassifiedEvent
}

// Analyzer runs the pipeline. The resolver (and the location index behind
// it) is shared read-only across units.
type Analyzer struct {
	resolver    *location.Resolver
	classifyCfg classify.Config
	segmentCfg  segment.Config
}

// NewAnalyzer creates an analyzer with the study's default rule thresholds.
func NewAnalyzer(resolver *location.Resolver) *Analyzer {
	return &Analyzer{
		resolver:    resolver,
		classifyCfg: classify.DefaultConfig(),
		segmentCfg:  segment.DefaultConfig(),
	}
}

// NewAnalyzerWithConfig creates an analyzer with explicit thresholds.
func NewAnalyzerWithConfig(resolver *location.Resolver, ccfg classify.Config, scfg segment.Config) *Analyzer {
	return &Analyzer{resolver: resolver, classifyCfg: ccfg, segmentCfg: scfg}
}

// Analyze runs the full pipeline for one unit. Per-event anomalies degrade
// confidence rather than failing; only a structurally invalid unit (missing
// employee id) returns an error. An empty day yields an empty result.
func (a *Analyzer) Analyze(unit Unit) (Result, error) {
	if unit.EmployeeID == "" {
		return Result{}, fmt.Errorf("analyze unit for %s: %w", unit.Day.Format("2006-01-02"), common.ErrMissingEmployee)
	}

	window := segment.DayWindow(unit.Day, unit.Claim.NightShift(), a.segmentCfg)

	normalized := normalize.Normalize(unit.Events, a.resolver)
	normalized = segment.FilterWindow(normalized, window)

	classified := classify.Classify(normalized, a.classifyCfg)
	excursions := classify.Excursions(classified, a.classifyCfg)

	segments := segment.Build(classified, excursions, window, a.segmentCfg)

	summary := aggregate.Summarize(unit.EmployeeID, unit.Day, segments, unit.Claim)
	aggregate.AttachQuality(&summary, classified)

	return Result{Summary: summary, Segments: segments, Events: classified}, nil
}
