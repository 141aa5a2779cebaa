//go:build integration

package sequence

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"

	"consultly/pkg/testutil/containers"
)

type AllocatorIntegrationSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	redis *containers.RedisContainer
}

func TestAllocatorIntegrationSuite(t *testing.T) {
	suite.Run(t, new(AllocatorIntegrationSuite))
}

func (s *AllocatorIntegrationSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.redis = containers.NewRedisContainer(s.T())
}

func (s *AllocatorIntegrationSuite) SetupTest() {
	ctx := context.Background()
	s.Require().NoError(s.pg.Truncate(ctx, "counters"))
	s.Require().NoError(s.redis.FlushAll(ctx))
}

func (s *AllocatorIntegrationSuite) TestConcurrentAllocationsAreDistinctAndConsecutive() {
	allocators := map[string]Allocator{
		"postgres": NewPostgres(s.pg.DB),
		"redis":    NewRedis(s.redis.Client),
	}
	for name, a := range allocators {
		s.Run(name, func() {
			ctx := context.Background()
			const n = 50

			results := make([]int64, n)
			var wg sync.WaitGroup
			for i := range n {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					v, err := a.Next(ctx, Consultant)
					s.NoError(err)
					results[i] = v
				}(i)
			}
			wg.Wait()

			sort.Slice(results, func(i, j int) bool { return results[i] < results[j] })
			for i, v := range results {
				s.Equal(int64(i+1), v)
			}

			next, err := a.Next(ctx, Consultant)
			s.Require().NoError(err)
			s.Equal(int64(n+1), next, "continues from the stored value")
		})
	}
}
