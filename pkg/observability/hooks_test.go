package observability

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnSimulateStart(ctx, "page-load")
	p.OnSimulateComplete(ctx, "page-load", 8, time.Millisecond, nil)
	p.OnLayoutStart(ctx, "lanes", 8)
	p.OnLayoutComplete(ctx, "lanes", time.Millisecond, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Millisecond, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "trace")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)

	s := NoopServerHooks{}
	s.OnRequest(ctx, "GET", "/api/models")
	s.OnResponse(ctx, "GET", "/api/models", 200, time.Millisecond)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	assert.IsType(t, NoopPipelineHooks{}, Pipeline())
	assert.IsType(t, NoopCacheHooks{}, Cache())
	assert.IsType(t, NoopServerHooks{}, Server())

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	assert.Same(t, customPipeline, Pipeline())
	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	assert.Same(t, customCache, Cache())
	customServer := &testServerHooks{}
	SetServerHooks(customServer)
	assert.Same(t, customServer, Server())

	Reset()
	assert.IsType(t, NoopPipelineHooks{}, Pipeline(), "after Reset")
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)
	assert.Same(t, custom, Pipeline(), "nil hooks ignored")
}

func TestLogHooks(t *testing.T) {
	Reset()
	defer Reset()

	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}))
	h.Register()

	ctx := context.Background()
	Pipeline().OnSimulateComplete(ctx, "fan-out", 5, time.Millisecond, nil)
	Pipeline().OnLayoutComplete(ctx, "lanes", time.Millisecond, errors.New("boom"))
	Cache().OnCacheHit(ctx, "artifact")
	Server().OnResponse(ctx, "GET", "/", 200, time.Millisecond)

	out := buf.String()
	for _, want := range []string{"simulate done", "model=fan-out", "layout failed", "err=boom", "cache hit", "status=200"} {
		assert.Contains(t, out, want)
	}
}

func TestLogHooksQuietAtInfo(t *testing.T) {
	var buf bytes.Buffer
	h := NewLogHooks(log.NewWithOptions(&buf, log.Options{Level: log.InfoLevel}))
	h.OnCacheMiss(context.Background(), "trace")
	assert.Empty(t, buf.String())
}

type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testServerHooks struct{ NoopServerHooks }
