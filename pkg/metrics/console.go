// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "arcade_console"

// Console holds the collectors recorded by the API client and controllers.
type Console struct {
	APIRequests     *prometheus.CounterVec
	APIDuration     *prometheus.HistogramVec
	CacheLookups    *prometheus.CounterVec
	DispatchResults *prometheus.CounterVec
}

// NewConsole creates the console collectors and registers them on reg.
// A nil reg leaves them unregistered.
func NewConsole(reg prometheus.Registerer) *Console {
	c := &Console{
		APIRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Backend API requests by operation and status code.",
		}, []string{"operation", "code"}),
		APIDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Backend API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Catalogue cache lookups by result.",
		}, []string{"result"}),
		DispatchResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "dispatch",
			Name:      "outcomes_total",
			Help:      "Controller task outcomes by kind and result (ok, error, stale).",
		}, []string{"kind", "result"}),
	}
	if reg != nil {
		reg.MustRegister(c.APIRequests, c.APIDuration, c.CacheLookups, c.DispatchResults)
	}
	return c
}

// ObserveRequest records one API call. Nil receivers are ignored.
func (c *Console) ObserveRequest(operation string, code int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.APIRequests.WithLabelValues(operation, strconv.Itoa(code)).Inc()
	c.APIDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// ObserveCache records a cache hit or miss.
func (c *Console) ObserveCache(hit bool) {
	if c == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.CacheLookups.WithLabelValues(result).Inc()
}

// ObserveOutcome records a dispatched task outcome.
func (c *Console) ObserveOutcome(kind string, err error, stale bool) {
	if c == nil {
		return
	}
	result := "ok"
	switch {
	case stale:
		result = "stale"
	case err != nil:
		result = "error"
	}
	c.DispatchResults.WithLabelValues(kind, result).Inc()
}
