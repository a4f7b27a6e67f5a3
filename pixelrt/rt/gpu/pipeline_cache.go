package gpu

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gogpu/naga"
)

var (
	ErrUnknownPipeline = errors.New("gpu: unknown cached pipeline")
	ErrPipelinePending = errors.New("gpu: pipeline not ready")
	ErrPipelineFailed  = errors.New("gpu: pipeline failed")
)

type PipelineState int

const (
	PipelineStatePending PipelineState = iota
	PipelineStateReady
	PipelineStateFailed
)

func (s PipelineState) String() string {
	switch s {
	case PipelineStatePending:
		return "pending"
	case PipelineStateReady:
		return "ready"
	case PipelineStateFailed:
		return "failed"
	}
	return fmt.Sprintf("PipelineState(%d)", int(s))
}

type CachedPipelineId int

// PipelineBuildFunc creates the device pipeline once the WGSL has been
// validated. It always runs on the render thread.
type PipelineBuildFunc func(source string) (*wgpu.RenderPipeline, error)

// ValidateFunc checks WGSL source off the render thread.
type ValidateFunc func(source string) error

// NagaValidate compiles the WGSL to SPIR-V and discards the output.
func NagaValidate(source string) error {
	_, err := naga.Compile(source)
	return err
}

// TaskRunner executes shader validation in the background. Stop ends its
// workers; no task may be submitted afterwards.
type TaskRunner interface {
	Submit(id int, do func() (any, error))
	Stop()
}

type poolRunner struct {
	pool worker.DynamicWorkerPool
}

// NewPoolRunner backs a TaskRunner with a dynamic worker pool. The pool's stop
// signals are not addressed to a particular worker, so only a single-worker
// pool is guaranteed to shut down completely on Stop.
func NewPoolRunner(workers int, idle time.Duration) TaskRunner {
	return &poolRunner{pool: worker.NewDynamicWorkerPool(workers, 64, idle)}
}

func (r *poolRunner) Submit(id int, do func() (any, error)) {
	r.pool.SubmitTask(worker.Task{ID: id, Do: do})
}

func (r *poolRunner) Stop() {
	r.pool.Stop()
}

type cachedPipeline struct {
	label  string
	source string
	build  PipelineBuildFunc

	validated bool
	reported  bool
	state     PipelineState
	pipeline  *wgpu.RenderPipeline
	err       error
}

// PipelineCache compiles render pipelines asynchronously. Queue returns
// immediately; the pipeline becomes available a few frames later once Process
// has seen the validated shader. Lookups never block.
type PipelineCache struct {
	mu       sync.Mutex
	entries  []*cachedPipeline
	runner   TaskRunner
	validate ValidateFunc
	logger   Logger
}

type PipelineCacheOption func(*PipelineCache)

func WithRunner(r TaskRunner) PipelineCacheOption {
	return func(c *PipelineCache) { c.runner = r }
}

func WithValidator(v ValidateFunc) PipelineCacheOption {
	return func(c *PipelineCache) { c.validate = v }
}

func WithLogger(l Logger) PipelineCacheOption {
	return func(c *PipelineCache) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewPipelineCache(opts ...PipelineCacheOption) *PipelineCache {
	c := &PipelineCache{validate: NagaValidate, logger: nopLogger{}}
	for _, opt := range opts {
		opt(c)
	}
	if c.runner == nil {
		c.runner = NewPoolRunner(1, time.Second)
	}
	return c
}

// Queue registers a pipeline and starts validating its shader.
func (c *PipelineCache) Queue(label, source string, build PipelineBuildFunc) CachedPipelineId {
	c.mu.Lock()
	id := CachedPipelineId(len(c.entries))
	entry := &cachedPipeline{label: label, source: source, build: build}
	c.entries = append(c.entries, entry)
	runner := c.runner
	if runner == nil {
		entry.state = PipelineStateFailed
		entry.err = fmt.Errorf("%w: %s queued after release", ErrPipelineFailed, label)
	}
	c.mu.Unlock()
	if runner == nil {
		return id
	}

	runner.Submit(int(id), func() (any, error) {
		err := c.validate(source)
		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			entry.state = PipelineStateFailed
			entry.err = fmt.Errorf("%w: validate %s: %w", ErrPipelineFailed, label, err)
			return nil, entry.err
		}
		entry.validated = true
		return nil, nil
	})
	c.logger.Debugf("pipeline %s queued as %d", label, id)
	return id
}

// Process builds every validated pipeline and reports shaders the validator
// rejected. Call it once per frame from the render thread.
func (c *PipelineCache) Process() {
	c.mu.Lock()
	var ready []*cachedPipeline
	for _, e := range c.entries {
		switch {
		case e.state == PipelineStatePending && e.validated:
			ready = append(ready, e)
		case e.state == PipelineStateFailed && !e.reported:
			e.reported = true
			c.logger.Errorf("pipeline %s: %v", e.label, e.err)
		}
	}
	c.mu.Unlock()

	for _, e := range ready {
		p, err := e.build(e.source)
		c.mu.Lock()
		if err != nil {
			e.state = PipelineStateFailed
			e.err = fmt.Errorf("%w: build %s: %w", ErrPipelineFailed, e.label, err)
			e.reported = true
			c.logger.Errorf("pipeline %s: %v", e.label, e.err)
		} else {
			e.state = PipelineStateReady
			e.pipeline = p
			c.logger.Debugf("pipeline %s ready", e.label)
		}
		c.mu.Unlock()
	}
}

func (c *PipelineCache) State(id CachedPipelineId) PipelineState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if int(id) < 0 || int(id) >= len(c.entries) {
		return PipelineStateFailed
	}
	return c.entries[id].state
}

// Get returns the pipeline when it is ready.
func (c *PipelineCache) Get(id CachedPipelineId) (*wgpu.RenderPipeline, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if int(id) < 0 || int(id) >= len(c.entries) {
		return nil, false
	}
	e := c.entries[id]
	if e.state != PipelineStateReady {
		return nil, false
	}
	return e.pipeline, true
}

// Err reports why a pipeline is unavailable.
func (c *PipelineCache) Err(id CachedPipelineId) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if int(id) < 0 || int(id) >= len(c.entries) {
		return ErrUnknownPipeline
	}
	e := c.entries[id]
	switch e.state {
	case PipelineStateFailed:
		return e.err
	case PipelineStatePending:
		return ErrPipelinePending
	}
	return nil
}

// Release frees every built pipeline and stops the validation workers.
func (c *PipelineCache) Release() {
	c.mu.Lock()
	for _, e := range c.entries {
		if e.pipeline != nil {
			e.pipeline.Release()
			e.pipeline = nil
		}
	}
	runner := c.runner
	c.runner = nil
	c.mu.Unlock()

	if runner != nil {
		runner.Stop()
	}
}
