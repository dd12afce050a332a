package modem

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/vantage-iot/bearer-core/at"
	"github.com/vantage-iot/bearer-core/port"
)

// portWorker serializes all AT traffic for one port behind a single
// goroutine, so commands issued by different callers never interleave on
// the wire, and de-duplicates allow_cached queries with singleflight.
type portWorker struct {
	p        port.Port
	jobs     chan *commandJob
	done     chan struct{}
	group    singleflight.Group
	cacheTTL time.Duration

	cacheMu sync.Mutex
	cache   map[string]cachedResult

	scanMu    sync.Mutex
	scanner   *bufio.Scanner
	scannedOn io.ReadWriter
}

type commandJob struct {
	ctx     context.Context
	cmd     string
	timeout time.Duration
	raw     bool
	result  chan commandResult
}

type commandResult struct {
	value string
	err   error
}

type cachedResult struct {
	value   string
	err     error
	expires time.Time
}

func newPortWorker(p port.Port, cacheTTL time.Duration) *portWorker {
	w := &portWorker{
		p:        p,
		jobs:     make(chan *commandJob),
		done:     make(chan struct{}),
		cacheTTL: cacheTTL,
		cache:    make(map[string]cachedResult),
	}
	go w.loop()
	return w
}

func (w *portWorker) close() { close(w.done) }

func (w *portWorker) loop() {
	for {
		select {
		case <-w.done:
			return
		case job := <-w.jobs:
			val, err := w.exec(job.ctx, job.cmd, job.timeout, job.raw)
			job.result <- commandResult{value: val, err: err}
		}
	}
}

// run executes cmd, transparently caching the result of allow_cached
// queries for cacheTTL so repeated callers (e.g. several bearers sharing
// a modem, each running the init gate's +CRM=? check) don't each hit the
// wire.
func (w *portWorker) run(ctx context.Context, cmd string, timeout time.Duration, allowCached, raw bool) (string, error) {
	if !allowCached {
		return w.submit(ctx, cmd, timeout, raw)
	}

	key := w.p.GetDevice() + "|" + cmd
	w.cacheMu.Lock()
	if entry, ok := w.cache[key]; ok && time.Now().Before(entry.expires) {
		w.cacheMu.Unlock()
		return entry.value, entry.err
	}
	w.cacheMu.Unlock()

	v, err, _ := w.group.Do(key, func() (any, error) {
		value, err := w.submit(ctx, cmd, timeout, raw)
		w.cacheMu.Lock()
		w.cache[key] = cachedResult{value: value, err: err, expires: time.Now().Add(w.cacheTTL)}
		w.cacheMu.Unlock()
		return value, err
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (w *portWorker) submit(ctx context.Context, cmd string, timeout time.Duration, raw bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	job := &commandJob{ctx: ctx, cmd: cmd, timeout: timeout, raw: raw, result: make(chan commandResult, 1)}
	select {
	case w.jobs <- job:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	select {
	case r := <-job.result:
		return r.value, r.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (w *portWorker) ensureScanner() (*bufio.Scanner, error) {
	w.scanMu.Lock()
	defer w.scanMu.Unlock()

	rw := w.p.Transport()
	if rw == nil {
		return nil, fmt.Errorf("modem: port %s is not open", w.p.GetDevice())
	}
	if w.scanner == nil || w.scannedOn != rw {
		w.scanner = bufio.NewScanner(rw)
		w.scanner.Split(at.Splitter)
		w.scannedOn = rw
	}
	return w.scanner, nil
}

// exec writes cmd and accumulates data lines until a final result code
// arrives. Reads happen on a short-lived goroutine so
// a caller's context deadline or cancellation can interrupt a scanner.Scan()
// that would otherwise block on the underlying transport indefinitely.
func (w *portWorker) exec(ctx context.Context, cmd string, timeout time.Duration, raw bool) (string, error) {
	scanner, err := w.ensureScanner()
	if err != nil {
		return "", err
	}
	rw := w.p.Transport()
	if rw == nil {
		return "", fmt.Errorf("modem: port %s is not open", w.p.GetDevice())
	}

	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	deadline := time.Now().Add(timeout)

	wire := cmd
	if !raw {
		wire = strings.TrimSpace(cmd) + "\r"
	}
	if _, err := io.WriteString(rw, wire); err != nil {
		return "", fmt.Errorf("modem: write %q: %w", cmd, err)
	}

	var data []string
	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return strings.Join(data, "\n"), fmt.Errorf("modem: command %q timed out", cmd)
		}

		line, err := readLine(ctx, scanner, remaining)
		if err != nil {
			return strings.Join(data, "\n"), fmt.Errorf("modem: command %q: %w", cmd, err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		switch at.Classify(line) {
		case at.TypeFinal:
			if line == at.OK {
				return strings.Join(data, "\n"), nil
			}
			return strings.Join(data, "\n"), &CommandError{Command: cmd, Response: line}
		case at.TypeURC:
			continue
		default:
			data = append(data, line)
		}
	}
}

func readLine(ctx context.Context, scanner *bufio.Scanner, timeout time.Duration) (string, error) {
	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		if scanner.Scan() {
			ch <- result{line: scanner.Text()}
			return
		}
		err := scanner.Err()
		if err == nil {
			err = io.EOF
		}
		ch <- result{err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(timeout):
		return "", fmt.Errorf("timed out waiting for response")
	case r := <-ch:
		return r.line, r.err
	}
}
