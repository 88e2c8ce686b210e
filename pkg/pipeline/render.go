package pipeline

import (
	"fmt"

	"github.com/calloway/intertext/pkg/graph"
	"github.com/calloway/intertext/pkg/layout"
	"github.com/calloway/intertext/pkg/render/dot"
	"github.com/calloway/intertext/pkg/render/html"
)

// Render generates output artifacts in the requested formats.
// The DOT source is generated at most once and shared by the svg/png/dot
// formats.
func Render(l layout.Layout, g *graph.Graph, opts Options) (map[string][]byte, error) {
	opts.SetRenderDefaults()

	artifacts := make(map[string][]byte)
	var dotSrc string

	needDOT := func() string {
		if dotSrc == "" {
			dotSrc = dot.ToDOT(g, dot.Options{Detailed: true})
		}
		return dotSrc
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatHTML:
			data = html.Render(l, g, htmlOptions(opts)...)
		case FormatSVG:
			data, err = dot.RenderSVG(needDOT())
		case FormatPNG:
			data, err = dot.RenderPNG(needDOT())
		case FormatDOT:
			data = []byte(needDOT())
		case FormatJSON:
			data, err = layout.Marshal(l)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func htmlOptions(opts Options) []html.Option {
	var result []html.Option
	if opts.Title != "" {
		result = append(result, html.WithTitle(opts.Title))
	}
	if opts.Subtitle != "" {
		result = append(result, html.WithSubtitle(opts.Subtitle))
	}
	if len(opts.Palette) > 0 {
		result = append(result, html.WithPalette(opts.Palette))
	}
	return result
}
