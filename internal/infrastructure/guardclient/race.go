package guardclient

import (
	"context"
	"sync"

	"idempotency-guard/internal/domain"
)

// Tally counts outcomes of concurrently submitted requests.
type Tally struct {
	Outcomes map[domain.OutcomeKind]int
	Errors   []error
}

// Race submits every payload under the same token at once. With a fresh token
// exactly one submission should be accepted.
func (c *Client) Race(ctx context.Context, token string, payloads [][]byte) Tally {
	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		start = make(chan struct{})
		tally = Tally{Outcomes: map[domain.OutcomeKind]int{}}
	)
	for _, p := range payloads {
		wg.Add(1)
		go func(p []byte) {
			defer wg.Done()
			<-start
			tok := token
			res, err := c.Submit(ctx, &tok, p)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				tally.Errors = append(tally.Errors, err)
				return
			}
			tally.Outcomes[res.Outcome]++
		}(p)
	}
	close(start)
	wg.Wait()
	return tally
}
