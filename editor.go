package easel

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

// Editor is the interactive shell around a Session: an ebiten.Game that
// polls mouse and touch input, translates it into canvas-space pointer
// events, advances the session one frame per Update, and composites the
// document in Draw. All session mutation happens on the game loop goroutine.
type Editor struct {
	ses *Session

	// Background is the color the canvas is cleared to each frame.
	Background Color

	pointerDown bool
	touchDown   bool
	touchID     ebiten.TouchID
	lastPos     Vec2

	injectQueue []syntheticPointerEvent
	testRunner  *TestRunner

	screenW, screenH int
}

// NewEditor wraps a session in an interactive shell.
func NewEditor(ses *Session) *Editor {
	if ses == nil {
		panic("easel: nil session")
	}
	return &Editor{
		ses:        ses,
		Background: Color{R: 1, G: 1, B: 1, A: 1},
	}
}

// Session returns the wrapped session.
func (e *Editor) Session() *Session { return e.ses }

// Update implements ebiten.Game. Injected events take priority over real
// input so scripted runs are not perturbed by the host mouse.
func (e *Editor) Update() error {
	if e.testRunner != nil {
		e.testRunner.Step(e)
	}
	if !e.consumeInjected() {
		e.pollMouse()
		e.pollTouch()
	}
	e.ses.Update()
	return nil
}

// pollMouse synthesizes press/move/release events from the mouse state.
func (e *Editor) pollMouse() {
	if e.touchDown {
		return
	}
	mx, my := ebiten.CursorPosition()
	pos := e.ses.Viewport().ScreenToCanvas(Vec2{float64(mx), float64(my)})
	down := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)

	switch {
	case down && !e.pointerDown:
		e.pointerDown = true
		e.lastPos = pos
		e.ses.HandlePress(pos, EventPointer)
	case down && pos != e.lastPos:
		e.lastPos = pos
		e.ses.HandleMove(pos, EventPointer)
	case !down && e.pointerDown:
		e.pointerDown = false
		e.ses.HandleRelease(pos, EventPointer)
	case pos != e.lastPos:
		// Hover tracking keeps tool outlines following the cursor.
		e.lastPos = pos
		e.ses.HandleMove(pos, EventPointer)
	}
}

// pollTouch synthesizes pointer events from the first active touch.
func (e *Editor) pollTouch() {
	ids := ebiten.AppendTouchIDs(nil)

	if e.touchDown {
		for _, id := range ids {
			if id != e.touchID {
				continue
			}
			tx, ty := ebiten.TouchPosition(id)
			pos := e.ses.Viewport().ScreenToCanvas(Vec2{float64(tx), float64(ty)})
			if pos != e.lastPos {
				e.lastPos = pos
				e.ses.HandleMove(pos, EventTouch)
			}
			return
		}
		// The tracked touch ended.
		e.touchDown = false
		e.ses.HandleRelease(e.lastPos, EventTouch)
		return
	}

	if len(ids) == 0 || e.pointerDown {
		return
	}
	e.touchDown = true
	e.touchID = ids[0]
	tx, ty := ebiten.TouchPosition(ids[0])
	pos := e.ses.Viewport().ScreenToCanvas(Vec2{float64(tx), float64(ty)})
	e.lastPos = pos
	e.ses.HandlePress(pos, EventTouch)
}

// Draw implements ebiten.Game: composites every visible layer in z-order
// with its transform, mask, and cached effect output, plus the live preview
// overlay of any in-progress stroke.
func (e *Editor) Draw(screen *ebiten.Image) {
	screen.Fill(e.Background.premulRGBA())

	v := e.ses.Viewport()
	doc := e.ses.Document()

	for _, layer := range doc.Layers() {
		if !layer.Visible || layer.IsDisposed() {
			continue
		}
		e.drawLayer(screen, layer, v)
	}

	if sp := e.ses.ActiveSprite(); sp != nil {
		e.drawPreview(screen, sp, v)
	}
}

// drawLayer composites one layer onto the screen.
func (e *Editor) drawLayer(screen *ebiten.Image, layer *Layer, v *Viewport) {
	img := e.ses.Effects().Render(layer, true)
	if img == nil {
		img = layer.Source
	}

	var scratch *ebiten.Image
	if layer.Mask != nil {
		// Masking needs an intermediate: destination-in against the screen
		// would also clip layers already composited below this one.
		b := img.Bounds()
		scratch = e.ses.pool.Acquire(b.Dx(), b.Dy())
		scratch.DrawImage(img, nil)
		var mop ebiten.DrawImageOptions
		mop.GeoM.Translate(layer.MaskX, layer.MaskY)
		mop.Blend = BlendMask.EbitenBlend()
		scratch.DrawImage(layer.Mask, &mop)
		img = scratch
	}

	tf := layer.Transform()
	var op ebiten.DrawImageOptions
	applyMirror(&op.GeoM, tf)
	f := tf.scaleFactor()
	op.GeoM.Translate(-tf.Width/2, -tf.Height/2)
	op.GeoM.Scale(f, f)
	op.GeoM.Rotate(tf.Rotation)
	op.GeoM.Translate(tf.Width/2, tf.Height/2)
	op.GeoM.Translate(tf.Left, tf.Top)

	applyView(&op.GeoM, v)
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, &op)

	if scratch != nil {
		e.ses.pool.Release(scratch)
	}
}

// drawPreview overlays the live stroke preview, scaled back up from the
// reduced preview resolution.
func (e *Editor) drawPreview(screen *ebiten.Image, sp *Sprite, v *Viewport) {
	img, scale := sp.Preview()
	if img == nil {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(1/scale, 1/scale)
	applyView(&op.GeoM, v)
	op.ColorScale.ScaleAlpha(float32(sp.brush.Options.opacity()))
	if sp.tool == ToolEraser {
		op.Blend = BlendErase.EbitenBlend()
	}
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, &op)
}

// applyView appends the canvas-to-screen viewport transform.
func applyView(g *ebiten.GeoM, v *Viewport) {
	g.Translate(-v.X, -v.Y)
	g.Scale(v.Zoom, v.Zoom)
	g.Translate(v.ScreenW/2, v.ScreenH/2)
}

// Layout implements ebiten.Game.
func (e *Editor) Layout(outsideWidth, outsideHeight int) (int, int) {
	e.screenW, e.screenH = outsideWidth, outsideHeight
	e.ses.Viewport().SetScreenSize(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

// ExportPNG flattens the document at full resolution and writes it to path
// as a PNG file.
func (e *Editor) ExportPNG(path string) error {
	doc := e.ses.Document()
	flat := ebiten.NewImage(doc.Width, doc.Height)
	defer flat.Deallocate()

	ident := NewViewport(doc.Width, doc.Height)
	for _, layer := range doc.Layers() {
		if !layer.Visible || layer.IsDisposed() {
			continue
		}
		e.drawLayer(flat, layer, ident)
	}

	// Unlike history snapshots, an exported file is for other programs:
	// convert the premultiplied readback to straight alpha.
	pixels := make([]byte, 4*doc.Width*doc.Height)
	flat.ReadPixels(pixels)
	out := image.NewNRGBA(image.Rect(0, 0, doc.Width, doc.Height))
	for i := 0; i < len(pixels); i += 4 {
		r, g, b, a := pixels[i], pixels[i+1], pixels[i+2], pixels[i+3]
		if a > 0 && a < 255 {
			r = uint8(min(int(r)*255/int(a), 255))
			g = uint8(min(int(g)*255/int(a), 255))
			b = uint8(min(int(b)*255/int(a), 255))
		}
		out.Pix[i] = r
		out.Pix[i+1] = g
		out.Pix[i+2] = b
		out.Pix[i+3] = a
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if err := png.Encode(f, out); err != nil {
		f.Close()
		return fmt.Errorf("export: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}
