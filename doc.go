// Package easel is the interactive raster-editing core of a layer-based
// image editor, built on [Ebitengine].
//
// Easel provides the layer paint pipeline: pointer input becomes pixel
// mutations on per-layer buffers through brush, eraser, fill, clone, and
// eyedropper tools, honoring polygonal selections and per-layer rotation,
// scale, and mirroring. Every paint action flows through a debounced
// snapshot commit into a linear undo/redo history.
//
// # Quick start
//
// Build a [Document] of layers, wrap it in a [Session], and drive it with
// an [Editor] (an [ebiten.Game]):
//
//	doc := easel.NewDocument(800, 600)
//	layer := easel.NewLayer("background", easel.LayerGraphic, 800, 600)
//	doc.AddLayer(layer)
//
//	ses := easel.NewSession(doc)
//	ses.ActivateLayer(layer.ID)
//	ses.ActivateTool(easel.ToolBrush, easel.PaintOptions{
//		Size:  12,
//		Color: easel.Color{R: 0.1, G: 0.1, B: 0.9, A: 1},
//	})
//
//	ebiten.RunGame(easel.NewEditor(ses))
//
// For headless use (scripting, tests), skip the Editor and call the
// Session's event methods directly: [Session.HandlePress],
// [Session.HandleMove], [Session.HandleRelease], and [Session.Update] once
// per simulated frame.
//
// # Frame-driven model
//
// Easel is single-threaded by construction: pointer events buffer stroke
// samples, and one [Session.Update] per display frame consumes them,
// rasterizes at most one stroke segment per layer, ticks the frame
// scheduler, and runs coalesced effect recomputes. Tests drive the same
// loop deterministically, one frame at a time.
//
// # Rendering tiers
//
// While the pointer is down, strokes render into a reduced-resolution
// preview overlay; the permanent layer buffer is written once, at full
// resolution, when the stroke ends. Layer filters composite through a
// per-layer [EffectCache] with synchronous invalidation and per-frame
// coalesced recomputation.
//
// [Ebitengine]: https://ebitengine.org
package easel
