// Package probe checks that the services the sync talks to answer HTTP at
// all. It does not judge health: an auth error still means reachable.
package probe

import "context"

type Result struct {
	Reachable  bool
	StatusCode int // 0 on transport errors
	LatencyMS  float64
	Message    string
}

type Checker interface {
	Check(ctx context.Context, target string) Result
}
