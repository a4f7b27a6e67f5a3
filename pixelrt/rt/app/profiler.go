package app

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Profiler keeps the CPU time of the last frame per scope plus a few
// counters, printed in debug builds of the renderer.
type Profiler struct {
	Scopes map[string]time.Duration
	Counts map[string]uint64
	Order  []string

	starts map[string]time.Time
}

func NewProfiler() *Profiler {
	return &Profiler{
		Scopes: make(map[string]time.Duration),
		Counts: make(map[string]uint64),
		starts: make(map[string]time.Time),
	}
}

func (p *Profiler) BeginScope(name string) {
	if _, seen := p.Scopes[name]; !seen {
		p.Order = append(p.Order, name)
		p.Scopes[name] = 0
	}
	p.starts[name] = time.Now()
}

func (p *Profiler) EndScope(name string) {
	if start, ok := p.starts[name]; ok {
		p.Scopes[name] = time.Since(start)
		delete(p.starts, name)
	}
}

func (p *Profiler) SetCount(name string, n uint64) {
	p.Counts[name] = n
}

func (p *Profiler) String() string {
	var sb strings.Builder
	sb.WriteString("timings:")
	for _, name := range p.Order {
		fmt.Fprintf(&sb, " %s=%.2fms", name, float64(p.Scopes[name].Microseconds())/1000.0)
	}
	keys := make([]string, 0, len(p.Counts))
	for k := range p.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > 0 {
		sb.WriteString(" counts:")
	}
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%d", k, p.Counts[k])
	}
	return sb.String()
}
