package circuit

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
)

type BreakerSuite struct {
	suite.Suite
}

func TestBreakerSuite(t *testing.T) {
	suite.Run(t, new(BreakerSuite))
}

func (s *BreakerSuite) fail(b *Breaker, n int) {
	for range n {
		b.RecordFailure()
	}
}

func (s *BreakerSuite) succeed(b *Breaker, n int) {
	for range n {
		b.RecordSuccess()
	}
}

func (s *BreakerSuite) TestDefaults() {
	b := New("revocation")
	s.Equal("revocation", b.Name())
	s.Equal(StateClosed, b.State())
	s.Equal("closed", b.State().String())

	s.fail(b, 4)
	s.False(b.IsOpen())
	s.fail(b, 1)
	s.True(b.IsOpen())
	s.Equal("open", b.State().String())

	s.succeed(b, 2)
	s.True(b.IsOpen())
	s.succeed(b, 1)
	s.False(b.IsOpen())
}

func (s *BreakerSuite) TestOpening() {
	s.Run("reports the transition exactly once", func() {
		b := New("redis", WithFailureThreshold(2))

		useFallback, change := b.RecordFailure()
		s.False(useFallback)
		s.False(change.Opened)

		useFallback, change = b.RecordFailure()
		s.True(useFallback)
		s.True(change.Opened)

		useFallback, change = b.RecordFailure()
		s.True(useFallback)
		s.False(change.Opened)
	})

	s.Run("a success in between restarts the count", func() {
		b := New("redis", WithFailureThreshold(3))
		s.fail(b, 2)
		s.succeed(b, 1)
		s.fail(b, 2)
		s.False(b.IsOpen())
		s.fail(b, 1)
		s.True(b.IsOpen())
	})

	s.Run("non-positive thresholds keep the defaults", func() {
		b := New("redis", WithFailureThreshold(0), WithSuccessThreshold(-1))
		s.fail(b, 4)
		s.False(b.IsOpen())
	})
}

func (s *BreakerSuite) TestClosing() {
	s.Run("primary results are withheld until the breaker closes", func() {
		b := New("redis", WithFailureThreshold(1), WithSuccessThreshold(2))
		s.fail(b, 1)

		usePrimary, change := b.RecordSuccess()
		s.False(usePrimary)
		s.False(change.Closed)

		usePrimary, change = b.RecordSuccess()
		s.True(usePrimary)
		s.True(change.Closed)
		s.Equal(StateClosed, b.State())
	})

	s.Run("a failure while open restarts the recovery count", func() {
		b := New("redis", WithFailureThreshold(1), WithSuccessThreshold(3))
		s.fail(b, 1)
		s.succeed(b, 2)
		s.fail(b, 1)
		s.succeed(b, 2)
		s.True(b.IsOpen())
		s.succeed(b, 1)
		s.False(b.IsOpen())
	})

	s.Run("closed breaker trusts the primary", func() {
		usePrimary, change := New("redis").RecordSuccess()
		s.True(usePrimary)
		s.False(change.Closed)
	})
}

func (s *BreakerSuite) TestReset() {
	b := New("redis", WithFailureThreshold(1), WithSuccessThreshold(5))
	s.fail(b, 1)
	s.succeed(b, 4)

	b.Reset()
	s.Equal(StateClosed, b.State())

	s.fail(b, 1)
	s.succeed(b, 4)
	s.True(b.IsOpen(), "recovery count must restart after reset")
}

func (s *BreakerSuite) TestConcurrentFailuresOpenOnce() {
	b := New("redis", WithFailureThreshold(10))
	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		opened int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, change := b.RecordFailure(); change.Opened {
				mu.Lock()
				opened++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	s.Equal(1, opened)
	s.True(b.IsOpen())
}
