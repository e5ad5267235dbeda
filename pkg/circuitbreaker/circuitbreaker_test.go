package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errStore = errors.New("store unavailable")

func failN(cb *CircuitBreaker, n int, err error) {
	for i := 0; i < n; i++ {
		_ = cb.Execute(func() error { return err })
	}
}

func TestCircuitBreaker_ClosedState(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{Interval: 10 * time.Second, Timeout: 30 * time.Second})

	for i := 0; i < 10; i++ {
		require.NoError(t, cb.Execute(func() error { return nil }))
	}

	assert.Equal(t, StateClosed, cb.State())
	assert.Equal(t, uint32(10), cb.Counts().TotalSuccesses)
}

func TestCircuitBreaker_OpensAfterDefaultThreshold(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{Timeout: 30 * time.Second})

	failN(cb, DefaultConsecutiveFailures-1, errStore)
	assert.Equal(t, StateClosed, cb.State())

	failN(cb, 1, errStore)
	assert.Equal(t, StateOpen, cb.State())

	called := false
	err := cb.Execute(func() error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrOpenState)
	assert.False(t, called, "熔断器打开时不应该调用实际函数")
}

func TestCircuitBreaker_IsSuccessful(t *testing.T) {
	errNotFound := errors.New("not found")

	cb := NewCircuitBreaker("test", Config{
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 2
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errNotFound)
		},
	})

	// 业务错误原样返回,但不计入失败
	for i := 0; i < 5; i++ {
		err := cb.Execute(func() error { return errNotFound })
		assert.ErrorIs(t, err, errNotFound)
	}
	assert.Equal(t, StateClosed, cb.State())
	assert.Zero(t, cb.Counts().TotalFailures)

	failN(cb, 2, errStore)
	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_HalfOpen(t *testing.T) {
	newCB := func() *CircuitBreaker {
		return NewCircuitBreaker("test", Config{
			MaxRequests: 1,
			Interval:    10 * time.Second,
			Timeout:     50 * time.Millisecond,
			ReadyToTrip: func(counts Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
		})
	}

	t.Run("探测成功后关闭", func(t *testing.T) {
		cb := newCB()
		failN(cb, 3, errStore)
		require.Equal(t, StateOpen, cb.State())

		time.Sleep(80 * time.Millisecond)
		assert.Equal(t, StateHalfOpen, cb.State())

		require.NoError(t, cb.Execute(func() error { return nil }))
		assert.Equal(t, StateClosed, cb.State())
	})

	t.Run("探测失败后重新打开", func(t *testing.T) {
		cb := newCB()
		failN(cb, 3, errStore)
		time.Sleep(80 * time.Millisecond)

		failN(cb, 1, errStore)
		assert.Equal(t, StateOpen, cb.State())
	})

	t.Run("半开状态限制并发探测数", func(t *testing.T) {
		cb := newCB()
		failN(cb, 3, errStore)
		time.Sleep(80 * time.Millisecond)

		inner := make(chan error, 1)
		err := cb.Execute(func() error {
			// 第一个探测尚未结束时第二个请求被拒绝
			inner <- cb.Execute(func() error { return nil })
			return nil
		})
		require.NoError(t, err)
		assert.ErrorIs(t, <-inner, ErrOpenState)
	})
}

func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	var changes []string

	cb := NewCircuitBreaker("book-store", Config{
		Interval: 10 * time.Second,
		Timeout:  50 * time.Millisecond,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})
	cb.SetStateChangeCallback(func(name string, from State, to State) {
		assert.Equal(t, "book-store", name)
		changes = append(changes, from.String()+"->"+to.String())
	})

	failN(cb, 3, errStore)
	time.Sleep(80 * time.Millisecond)
	require.NoError(t, cb.Execute(func() error { return nil }))

	assert.Equal(t, []string{"CLOSED->OPEN", "OPEN->HALF_OPEN", "HALF_OPEN->CLOSED"}, changes)
}

func TestCircuitBreaker_FailureRate(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{
		Interval: time.Hour,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts Counts) bool {
			return counts.Requests >= 10 && counts.FailureRate() > 0.5
		},
	})

	// 4次成功,6次失败(失败率60%)
	for i := 0; i < 10; i++ {
		index := i
		_ = cb.Execute(func() error {
			if index < 4 {
				return nil
			}
			return errStore
		})
	}

	assert.Equal(t, StateOpen, cb.State())
}

func TestCircuitBreaker_IntervalResetsCounts(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{
		Interval: 50 * time.Millisecond,
		Timeout:  30 * time.Second,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	})

	failN(cb, 2, errStore)
	time.Sleep(80 * time.Millisecond)
	failN(cb, 2, errStore)

	assert.Equal(t, StateClosed, cb.State(), "统计窗口过期后计数清零")
}

func TestCircuitBreaker_PanicCountsAsFailure(t *testing.T) {
	cb := NewCircuitBreaker("test", Config{
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts Counts) bool {
			return counts.ConsecutiveFailures >= 1
		},
	})

	assert.Panics(t, func() {
		_ = cb.Execute(func() error { panic("boom") })
	})
	assert.Equal(t, StateOpen, cb.State())
}

func BenchmarkCircuitBreaker(b *testing.B) {
	cb := NewCircuitBreaker("bench", Config{Interval: 10 * time.Second, Timeout: 30 * time.Second})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cb.Execute(func() error { return nil })
	}
}
