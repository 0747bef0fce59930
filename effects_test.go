package easel

import "testing"

func effectsFixture(t *testing.T) (*Document, *Layer, *EffectCache) {
	t.Helper()
	doc := NewDocument(64, 64)
	layer := NewLayer("fx", LayerGraphic, 64, 64)
	layer.Filter = FilterParams{Enabled: true, Opacity: 0.5}
	doc.AddLayer(layer)
	return doc, layer, NewEffectCache()
}

func TestEffectCacheInvalidateIsSynchronous(t *testing.T) {
	doc, layer, cache := effectsFixture(t)
	cache.Request(layer.ID)
	cache.Process(doc)
	if cache.Dirty(layer.ID) {
		t.Fatal("clean after process expected")
	}
	cache.Invalidate(layer.ID, PropFilter)
	if !cache.Dirty(layer.ID) {
		t.Fatal("invalidate must mark dirty immediately")
	}
}

func TestEffectCacheRequestsCoalesce(t *testing.T) {
	_, layer, cache := effectsFixture(t)
	cache.Request(layer.ID)
	cache.Request(layer.ID)
	cache.Request(layer.ID)
	if len(cache.queue) != 1 {
		t.Errorf("queue len = %d, want 1", len(cache.queue))
	}
	if !cache.InFlight(layer.ID) {
		t.Error("in-flight flag should be set")
	}
}

func TestEffectCacheProcessClearsInFlight(t *testing.T) {
	doc, layer, cache := effectsFixture(t)
	cache.Invalidate(layer.ID, PropFilter)
	cache.Request(layer.ID)
	cache.Process(doc)
	if cache.InFlight(layer.ID) {
		t.Error("in-flight flag should clear after process")
	}
	if cache.Dirty(layer.ID) {
		t.Error("output should be clean after process")
	}
	// A later frame can request again.
	cache.Invalidate(layer.ID, PropFilter)
	cache.Request(layer.ID)
	if !cache.InFlight(layer.ID) {
		t.Error("new request after process should register")
	}
}

func TestEffectCacheSkipsRemovedLayer(t *testing.T) {
	doc, layer, cache := effectsFixture(t)
	cache.Request(layer.ID)
	doc.RemoveLayer(layer)
	cache.Process(doc)
	if cache.InFlight(layer.ID) {
		t.Error("in-flight flag should clear for removed layers")
	}
}

func TestEffectCacheRenderWithoutFilterReturnsSource(t *testing.T) {
	_, layer, cache := effectsFixture(t)
	layer.Filter.Enabled = false
	if got := cache.Render(layer, true); got != layer.Source {
		t.Error("unfiltered layer should render its source directly")
	}
}

func TestEffectCacheRenderUsesCacheWhenClean(t *testing.T) {
	doc, layer, cache := effectsFixture(t)
	cache.Request(layer.ID)
	cache.Process(doc)

	first := cache.Render(layer, true)
	second := cache.Render(layer, true)
	if first == nil || first != second {
		t.Error("clean cached output should be returned as-is")
	}
}

func TestEffectCacheRemoveDropsEntry(t *testing.T) {
	doc, layer, cache := effectsFixture(t)
	cache.Request(layer.ID)
	cache.Process(doc)
	cache.Remove(layer.ID)
	if !cache.Dirty(layer.ID) {
		t.Error("removed entry should read as dirty")
	}
}
