package easel

import "testing"

func TestRegistrySingleLiveSpritePerLayer(t *testing.T) {
	ses, layer, _, _ := newTestSession(t)
	a := ses.Sprites().Create(ses, layer)
	b := ses.Sprites().Create(ses, layer)
	if a != b {
		t.Fatal("second create should return the existing sprite")
	}
	if ses.Sprites().Len() != 1 {
		t.Errorf("len = %d, want 1", ses.Sprites().Len())
	}
}

func TestRegistryRecreateAfterDispose(t *testing.T) {
	ses, layer, _, _ := newTestSession(t)
	a := ses.Sprites().Create(ses, layer)
	a.Dispose()
	if ses.Sprites().Get(layer.ID) != nil {
		t.Fatal("disposed sprite still registered")
	}
	b := ses.Sprites().Create(ses, layer)
	if b == a {
		t.Error("expected a fresh sprite after dispose")
	}
	if b.IsDisposed() {
		t.Error("fresh sprite should not be disposed")
	}
}

func TestRegistryEach(t *testing.T) {
	ses, _, _, _ := newTestSession(t)
	second := NewLayer("second", LayerGraphic, 32, 32)
	ses.Document().AddLayer(second)
	ses.ActivateLayer(second.ID)

	seen := 0
	ses.Sprites().Each(func(*Sprite) { seen++ })
	if seen != 2 {
		t.Errorf("visited %d sprites, want 2", seen)
	}
}

func TestRegistryCreateNilLayerPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on nil layer")
		}
	}()
	NewRegistry().Create(nil, nil)
}
