package suite

import (
	"context"
	"sync"
)

// indexedRun pairs a run with the position of its suite so results
// can be returned in submission order.
type indexedRun struct {
	index int
	run   *SuiteResult
	err   error
}

// RunAll evaluates suites against doc with at most maxConcurrency
// suites in flight. Results keep the order of suites. Suites that
// had not started when ctx was cancelled are left out and the
// context error is returned alongside the completed runs.
func (e *Engine) RunAll(
	ctx context.Context,
	suites []Suite,
	doc any,
	maxConcurrency int,
) ([]*SuiteResult, error) {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}

	sem := make(chan struct{}, maxConcurrency)
	runsCh := make(chan indexedRun, len(suites))

	var wg sync.WaitGroup

	for i, s := range suites {
		wg.Add(1)
		go func(idx int, s Suite) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				runsCh <- indexedRun{index: idx, err: ctx.Err()}
				return
			}

			if err := ctx.Err(); err != nil {
				runsCh <- indexedRun{index: idx, err: err}
				return
			}
			runsCh <- indexedRun{index: idx, run: e.Run(s, doc)}
		}(i, s)
	}

	go func() {
		wg.Wait()
		close(runsCh)
	}()

	ordered := make([]*SuiteResult, len(suites))
	var firstErr error

	for ir := range runsCh {
		if ir.err != nil && firstErr == nil {
			firstErr = ir.err
		}
		ordered[ir.index] = ir.run
	}

	runs := make([]*SuiteResult, 0, len(suites))
	for _, r := range ordered {
		if r != nil {
			runs = append(runs, r)
		}
	}
	return runs, firstErr
}
