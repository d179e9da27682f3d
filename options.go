// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphview

// SoftwareOption configures a SoftwareRenderer during creation.
//
// Example:
//
//	// Default: GOMAXPROCS workers, dark background, DefaultStyle
//	r := graphview.NewSoftwareRenderer(800, 600)
//
//	// Single-threaded on white
//	r := graphview.NewSoftwareRenderer(800, 600,
//		graphview.WithWorkers(1),
//		graphview.WithBackground(graphview.RGB(1, 1, 1)))
type SoftwareOption func(*softwareOptions)

// softwareOptions holds optional configuration for SoftwareRenderer.
type softwareOptions struct {
	workers    int
	background RGBA
	style      Style
}

// DefaultBackground is the dark-slate clear color both renderers start
// with.
var DefaultBackground = RGBA{R: 20.0 / 256, G: 20.0 / 256, B: 28.0 / 256, A: 1}

// defaultSoftwareOptions returns the default renderer options.
func defaultSoftwareOptions() softwareOptions {
	return softwareOptions{
		workers:    0, // GOMAXPROCS
		background: DefaultBackground,
		style:      DefaultStyle(),
	}
}

// WithWorkers sets the number of goroutines shading nodes.
// Zero or negative uses GOMAXPROCS.
func WithWorkers(n int) SoftwareOption {
	return func(o *softwareOptions) {
		o.workers = n
	}
}

// WithBackground sets the clear color.
func WithBackground(c RGBA) SoftwareOption {
	return func(o *softwareOptions) {
		o.background = c
	}
}

// WithSoftwareStyle sets the shading constants. They must match the
// Style a GPU renderer uses for the two outputs to agree.
func WithSoftwareStyle(s Style) SoftwareOption {
	return func(o *softwareOptions) {
		o.style = s
	}
}
