// Package testcontainer starts throwaway Docker containers for adapter tests.
package testcontainer

import (
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

const maxWait = 2 * time.Minute

// NewPool connects to the local Docker daemon. The test is skipped in -short
// mode or when Docker cannot be reached.
func NewPool(t testing.TB) *dockertest.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("Could not construct docker pool: %v", err)
	}
	if err := pool.Client.Ping(); err != nil {
		t.Skipf("Could not connect to Docker: %v", err)
	}
	pool.MaxWait = maxWait
	return pool
}

// Run starts a container and purges it when the test finishes.
func Run(t testing.TB, pool *dockertest.Pool, opts *dockertest.RunOptions) *dockertest.Resource {
	t.Helper()

	resource, err := pool.RunWithOptions(opts, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("Could not start %s:%s: %v", opts.Repository, opts.Tag, err)
	}
	_ = resource.Expire(uint(maxWait.Seconds() * 3))

	t.Cleanup(func() {
		if err := pool.Purge(resource); err != nil {
			t.Logf("Could not purge %s: %v", opts.Repository, err)
		}
	})
	return resource
}
