package observability

import (
	"context"
	"sync"
	"testing"
	"time"
)

type recordingHooks struct {
	NoopPipelineHooks
	NoopCacheHooks

	mu     sync.Mutex
	events []string
}

func (r *recordingHooks) OnMaterializeStart(_ context.Context, scene string, _, _ int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "materialize:"+scene)
}

func (r *recordingHooks) OnCacheHit(_ context.Context, keyType string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, "hit:"+keyType)
}

func TestDefaultsAreNoops(t *testing.T) {
	Reset()
	ctx := context.Background()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T, want NoopPipelineHooks", Pipeline())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T, want NoopCacheHooks", Cache())
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("HTTP() = %T, want NoopHTTPHooks", HTTP())
	}

	Pipeline().OnMaterializeComplete(ctx, "cosine", 18, time.Millisecond, nil)
	Cache().OnCacheSet(ctx, "png", 1024)
	HTTP().OnResponse(ctx, "POST", "/v1/materialize", 200, time.Millisecond)
	HTTP().OnError(ctx, "POST", "/v1/render/gif", nil)
}

func TestRegisteredHooksReceiveEvents(t *testing.T) {
	t.Cleanup(Reset)
	rec := &recordingHooks{}
	SetPipelineHooks(rec)
	SetCacheHooks(rec)
	ctx := context.Background()

	Pipeline().OnMaterializeStart(ctx, "breathing", 0, 32)
	Cache().OnCacheHit(ctx, "frame")
	Cache().OnCacheMiss(ctx, "svg")

	want := []string{"materialize:breathing", "hit:frame"}
	if len(rec.events) != len(want) {
		t.Fatalf("events = %v, want %v", rec.events, want)
	}
	for i := range want {
		if rec.events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, rec.events[i], want[i])
		}
	}
}

func TestSetNilIgnored(t *testing.T) {
	t.Cleanup(Reset)
	rec := &recordingHooks{}
	SetPipelineHooks(rec)
	SetPipelineHooks(nil)
	SetHTTPHooks(nil)

	if Pipeline() != PipelineHooks(rec) {
		t.Error("SetPipelineHooks(nil) replaced the registered hooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("SetHTTPHooks(nil) should keep the default")
	}
}

func TestConcurrentAccess(t *testing.T) {
	t.Cleanup(Reset)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				SetCacheHooks(&recordingHooks{})
				return
			}
			Cache().OnCacheMiss(ctx, "frame")
		}()
	}
	wg.Wait()
}
