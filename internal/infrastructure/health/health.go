// Package health probes the CRM's storage dependencies for `crm status`.
package health

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

const defaultTimeout = 3 * time.Second

const (
	StatusOK        = "ok"
	StatusUnhealthy = "unhealthy"
	StatusDisabled  = "disabled"
	StatusDegraded  = "degraded"
)

// Probe checks one dependency. A nil Probe marks the dependency disabled.
type Probe func(ctx context.Context) error

// DependencyStatus is the result of one probe.
type DependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Report aggregates every probe. Status is "degraded" if any enabled
// dependency is unhealthy.
type Report struct {
	Status       string                      `json:"status"`
	Dependencies map[string]DependencyStatus `json:"dependencies"`
}

// Healthy reports whether every enabled dependency answered.
func (r Report) Healthy() bool { return r.Status == StatusOK }

type namedProbe struct {
	name  string
	probe Probe
}

// Checker runs probes under a shared timeout.
type Checker struct {
	probes  []namedProbe
	timeout time.Duration
}

// NewChecker returns an empty Checker. A non-positive timeout uses the default.
func NewChecker(timeout time.Duration) *Checker {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Checker{timeout: timeout}
}

// Add registers a probe under name.
func (c *Checker) Add(name string, probe Probe) *Checker {
	c.probes = append(c.probes, namedProbe{name: name, probe: probe})
	return c
}

// Check runs every probe concurrently. A failing probe does not cancel the
// others.
func (c *Checker) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	results := make([]DependencyStatus, len(c.probes))
	var g errgroup.Group
	for i, p := range c.probes {
		if p.probe == nil {
			results[i] = DependencyStatus{Status: StatusDisabled}
			continue
		}
		g.Go(func() error {
			if err := p.probe(ctx); err != nil {
				results[i] = DependencyStatus{Status: StatusUnhealthy, Error: err.Error()}
				return nil
			}
			results[i] = DependencyStatus{Status: StatusOK}
			return nil
		})
	}
	_ = g.Wait()

	deps := make(map[string]DependencyStatus, len(c.probes))
	status := StatusOK
	for i, p := range c.probes {
		deps[p.name] = results[i]
		if results[i].Status == StatusUnhealthy {
			status = StatusDegraded
		}
	}
	return Report{Status: status, Dependencies: deps}
}

// MongoProbe pings the server and runs a ping command on the database.
func MongoProbe(db *mongo.Database) Probe {
	if db == nil {
		return nil
	}
	return func(ctx context.Context) error {
		if err := db.Client().Ping(ctx, nil); err != nil {
			return err
		}
		return db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
	}
}

// RedisProbe pings the server. A nil client means Redis is not configured.
func RedisProbe(client *redis.Client) Probe {
	if client == nil {
		return nil
	}
	return func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}
}
