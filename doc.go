// Package glyphatlas provides a glyph-rasterization cache for GPU text
// pipelines: characters are rasterized once into shared texture pages
// and renderers sample them by region instead of re-rasterizing every
// frame.
//
// # Overview
//
// The Atlas coordinator owns a small fixed list of texture pages (see
// the page package), routes each glyph request to one of them, resolves
// the request's foreground color against the active color table (see
// the theme package), and pre-warms the printable ASCII range for every
// palette color the first time a rasterizer is seen. Warm-up runs on a
// low-priority idle queue (see the idle package) so the interactive
// render path never stalls on a rasterization burst.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/glyphatlas"
//	    "github.com/gogpu/glyphatlas/glyph"
//	    "github.com/gogpu/glyphatlas/raster"
//	)
//
//	r, _ := raster.NewXImage(fontData, 16)
//
//	atlas, _ := glyphatlas.New(glyphatlas.Config{
//	    MaxTextureSize: 2048, // hardware limit from the GPU
//	    ScaleFactor:    1,    // display device pixel ratio
//	})
//	defer atlas.Close()
//
//	rec, _ := atlas.GetGlyph(r, "A", glyph.Metadata(0).WithFGIndex(7))
//	// rec.PageIndex and rec.Region locate the glyph's pixels inside
//	// atlas.Pages()[rec.PageIndex].
//
// # Rasterizer backends
//
// Two rasterizers ship with the module: raster.XImage draws through
// golang.org/x/image/font, and raster.Shaped runs HarfBuzz shaping via
// go-text/typesetting for ligatures, complex scripts, and right-to-left
// sequences. Any type implementing raster.Rasterizer works; the
// coordinator only relies on the stable identity its ID method returns.
//
// # Logging
//
// glyphatlas is silent by default. Call SetLogger to enable structured
// logging through log/slog.
package glyphatlas
