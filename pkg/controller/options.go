package controller

import (
	"log/slog"
	"time"

	"github.com/rmax-ai/skillgraph/pkg/force"
	"github.com/rmax-ai/skillgraph/pkg/layout"
)

// Options tunes the controller. Zero fields take their default.
type Options struct {
	Logger *slog.Logger
	Now    func() time.Time
	Seed   int64 // explode jitter; 0 seeds from the clock

	Width, Height float64
	Layout        layout.Config

	SettleDelay    time.Duration // layout -> fit
	ResizeFitDelay time.Duration
	FitDuration    time.Duration
	FitZoomDelay   time.Duration // centre first, then zoom
	FitPadding     float64
	MaxFitZoom     float64

	ZoomFactor   float64
	ZoomDuration time.Duration
	MinZoom      float64
	MaxZoom      float64

	RotationStep       float64 // radians per frame
	RotationForceScale float64

	ExplodeChargeScale float64
	ExplodeDuration    time.Duration

	DragDistanceMax  float64
	DragRestoreDelay time.Duration
}

func (o Options) withDefaults() Options {
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Width <= 0 || o.Height <= 0 {
		o.Width, o.Height = layout.DefaultWidth, layout.DefaultHeight
	}
	if o.SettleDelay <= 0 {
		o.SettleDelay = 500 * time.Millisecond
	}
	if o.ResizeFitDelay <= 0 {
		o.ResizeFitDelay = 100 * time.Millisecond
	}
	if o.FitDuration <= 0 {
		o.FitDuration = 800 * time.Millisecond
	}
	if o.FitZoomDelay <= 0 {
		o.FitZoomDelay = 50 * time.Millisecond
	}
	if o.FitPadding <= 0 {
		o.FitPadding = 40
	}
	if o.MaxFitZoom <= 0 {
		o.MaxFitZoom = 2
	}
	if o.ZoomFactor <= 1 {
		o.ZoomFactor = 1.5
	}
	if o.ZoomDuration <= 0 {
		o.ZoomDuration = 400 * time.Millisecond
	}
	if o.MinZoom <= 0 {
		o.MinZoom = force.MinZoom
	}
	if o.MaxZoom <= 0 {
		o.MaxZoom = force.MaxZoom
	}
	if o.RotationStep <= 0 {
		o.RotationStep = 0.015
	}
	if o.RotationForceScale <= 0 {
		o.RotationForceScale = 0.5
	}
	if o.ExplodeChargeScale <= 0 {
		o.ExplodeChargeScale = 1.5
	}
	if o.ExplodeDuration <= 0 {
		o.ExplodeDuration = 3 * time.Second
	}
	if o.DragDistanceMax <= 0 {
		o.DragDistanceMax = 1500
	}
	if o.DragRestoreDelay <= 0 {
		o.DragRestoreDelay = time.Second
	}
	return o
}
