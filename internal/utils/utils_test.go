package utils_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/epicchainlabs/epicchain-go/internal/utils"
)

type flakyCounter struct {
	failures int
	count    uint32
	calls    int
}

func (f *flakyCounter) GetBlockCount(context.Context) (uint32, error) {
	f.calls++
	if f.calls <= f.failures {
		return 0, errors.New("connection refused")
	}
	return f.count, nil
}

func init() {
	utils.RetryBackoff = time.Millisecond
}

func TestGetLatestBlockHeightWithRetry(t *testing.T) {
	node := &flakyCounter{failures: 2, count: 101}
	height, err := utils.GetLatestBlockHeightWithRetry(context.Background(), node, 3)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), height)
	assert.Equal(t, 3, node.calls)
}

func TestGetLatestBlockHeightGivesUp(t *testing.T) {
	node := &flakyCounter{failures: 5, count: 1}
	_, err := utils.GetLatestBlockHeightWithRetry(context.Background(), node, 3)
	assert.ErrorContains(t, err, "getblockcount failed after 3 retries: connection refused")
	assert.Equal(t, 3, node.calls)

	_, err = utils.GetLatestBlockHeightWithRetry(context.Background(), &flakyCounter{}, 1)
	assert.ErrorContains(t, err, "node reports no blocks")
}

func TestRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := utils.Retry(ctx, "test", 10, func(context.Context) (int, error) {
		calls++
		cancel()
		return 0, errors.New("boom")
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestRetryBacksOffLinearly(t *testing.T) {
	old := utils.RetryBackoff
	utils.RetryBackoff = 20 * time.Millisecond
	defer func() { utils.RetryBackoff = old }()

	var calls []time.Time
	_, err := utils.Retry(context.Background(), "test", 3, func(context.Context) (int, error) {
		calls = append(calls, time.Now())
		return 0, errors.New("boom")
	})
	require.Error(t, err)
	require.Len(t, calls, 3)
	assert.GreaterOrEqual(t, calls[1].Sub(calls[0]), 20*time.Millisecond)
	assert.GreaterOrEqual(t, calls[2].Sub(calls[1]), 40*time.Millisecond)
}
