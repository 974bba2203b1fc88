package user

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/aanand-mishra/resource-api/internal/utils/response"
)

// DemoResult is one fan-out branch of GET /concurrent-demo. Took is the
// simulated latency in time units.
type DemoResult struct {
	Task string  `json:"task"`
	Took float64 `json:"took"`
}

// DemoResponse is the body of GET /concurrent-demo. Elapsed is wall time
// in seconds for the whole fan-out.
type DemoResponse struct {
	Results []DemoResult `json:"results"`
	Elapsed float64      `json:"elapsed"`
}

var demoTasks = []DemoResult{
	{Task: "A", Took: 0.2},
	{Task: "B", Took: 0.3},
	{Task: "C", Took: 0.1},
}

// ConcurrentDemo handles GET /concurrent-demo. The three simulated calls
// run at the same time, so the request takes as long as the slowest one.
func ConcurrentDemo(unit time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		results := make([]DemoResult, len(demoTasks))

		g, ctx := errgroup.WithContext(r.Context())
		for i, task := range demoTasks {
			g.Go(func() error {
				res, err := fakeIO(ctx, task.Task, task.Took, unit)
				if err != nil {
					return err
				}
				results[i] = res
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			response.WriteInternal(w, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, DemoResponse{
			Results: results,
			Elapsed: time.Since(start).Seconds(),
		})
	}
}

func fakeIO(ctx context.Context, label string, units float64, unit time.Duration) (DemoResult, error) {
	timer := time.NewTimer(time.Duration(units * float64(unit)))
	defer timer.Stop()

	select {
	case <-timer.C:
		return DemoResult{Task: label, Took: units}, nil
	case <-ctx.Done():
		return DemoResult{}, ctx.Err()
	}
}
