// Copyright © 2018 The ELPS authors

package profiler

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/tanndlin/tanscript/lang"
)

// errWriter wraps an io.Writer and captures the first write error,
// short-circuiting subsequent writes after a failure.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

// callgrindProfiler builds Callgrind files, which can be opened in
// KCacheGrind or QCacheGrind.  Costs are wall time in nanoseconds and bytes
// allocated.
type callgrindProfiler struct {
	profiler
	mu       sync.Mutex
	out      *bufio.Writer
	closer   io.Closer
	ew       *errWriter
	start    time.Time
	refs     map[string]int
	current  *callRef
	finished bool
}

var _ lang.Profiler = &callgrindProfiler{}

// NewCallgrindProfiler returns a profiler writing a Callgrind profile to w.
// The output may instead be sent to a file with SetFile before the profiler
// is enabled.
func NewCallgrindProfiler(runtime *lang.Runtime, w io.Writer, opts ...Option) *callgrindProfiler {
	p := &callgrindProfiler{}
	p.runtime = runtime
	if w != nil {
		p.out = bufio.NewWriter(w)
	}
	p.applyConfigs(opts...)
	return p
}

// callRef is one active or finished call.
type callRef struct {
	prev        *callRef
	name        string
	file        string
	line        int
	start       time.Time
	duration    time.Duration
	startMemory uint64
	memory      uint64
	children    []*callRef
}

// SetFile directs output to the named file, which is created or truncated.
func (p *callgrindProfiler) SetFile(filename string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.enabled {
		return errors.New("profiler already enabled")
	}
	f, err := os.Create(filename) //#nosec G304
	if err != nil {
		return err
	}
	p.out = bufio.NewWriter(f)
	p.closer = f
	return nil
}

func (p *callgrindProfiler) Enable() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.out == nil {
		return errors.New("no output set in profiler")
	}
	if err := p.profiler.Enable(); err != nil {
		return err
	}
	p.ew = &errWriter{w: p.out}
	p.ew.printf("version: 1\ncreator: tanscript (Go %s)\n", runtime.Version())
	p.ew.printf("cmd: Eval\npart: 1\npositions: line\n\n")
	p.ew.printf("events: Time_(ns) Memory_(bytes)\n\n")
	p.start = time.Now()
	p.refs = make(map[string]int)
	p.current = nil
	p.push("ENTRYPOINT", "-", 0)
	p.runtime.Profiler = p
	return p.ew.err
}

func (p *callgrindProfiler) Start(frame *lang.CallFrame) func() {
	if p.skipTrace(frame) {
		return func() {}
	}
	name, _ := p.prettyFunName(frame)
	var file string
	var line int
	if frame.Def != nil && frame.Def.Source != nil {
		file, line = frame.Def.Source.File, frame.Def.Source.Line
	}
	p.mu.Lock()
	p.push(name, file, line)
	p.mu.Unlock()
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if p.finished {
			return
		}
		p.writeRef(p.pop())
	}
}

// Complete writes the entrypoint cost and a summary and closes the output.
// Calls still active are not reported.
func (p *callgrindProfiler) Complete() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.enabled {
		return errors.New("profiler not enabled")
	}
	for p.current.prev != nil {
		p.pop()
	}
	p.writeRef(p.pop())
	p.finished = true
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	p.ew.printf("summary: %d %d\n", time.Since(p.start).Nanoseconds(), ms.TotalAlloc)
	_ = p.profiler.Complete()
	err := p.ew.err
	if ferr := p.out.Flush(); err == nil {
		err = ferr
	}
	if p.closer != nil {
		if cerr := p.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

func (p *callgrindProfiler) push(name, file string, line int) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	ref := &callRef{
		prev:        p.current,
		name:        name,
		file:        file,
		line:        line,
		start:       time.Now(),
		startMemory: ms.TotalAlloc,
	}
	if p.current != nil {
		p.current.children = append(p.current.children, ref)
	}
	p.current = ref
}

func (p *callgrindProfiler) pop() *callRef {
	ref := p.current
	p.current = ref.prev
	ref.duration = time.Since(ref.start)
	if ref.duration == 0 {
		ref.duration = 1
	}
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	ref.memory = ms.TotalAlloc - ref.startMemory
	return ref
}

// writeRef writes the cost of ref and of the calls it made.
func (p *callgrindProfiler) writeRef(ref *callRef) {
	p.ew.printf("fl=%s\n", p.getRef(ref.file))
	p.ew.printf("fn=%s\n", p.getRef(ref.name))
	p.ew.printf("%d %d %d\n", ref.line, ref.duration.Nanoseconds(), ref.memory)
	for _, child := range ref.children {
		p.ew.printf("cfl=%s\n", p.getRef(child.file))
		p.ew.printf("cfn=%s\n", p.getRef(child.name))
		p.ew.printf("calls=1 %d\n", child.line)
		p.ew.printf("%d %d %d\n", ref.line, child.duration.Nanoseconds(), child.memory)
	}
	p.ew.printf("\n")
}

// getRef compresses repeated names, as allowed by the Callgrind format.
func (p *callgrindProfiler) getRef(name string) string {
	if ref, ok := p.refs[name]; ok {
		return fmt.Sprintf("(%d)", ref)
	}
	ref := len(p.refs) + 1
	p.refs[name] = ref
	return fmt.Sprintf("(%d) %s", ref, name)
}
