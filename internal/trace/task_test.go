package trace

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(seq int, end, et float64, st string) *Record {
	return &Record{Seq: seq, End: end, Elapsed: et, State: st}
}

func TestTask_AppendDerivesStartAndWait(t *testing.T) {
	task := NewTask(1, ":p0:b1", "workerA", 0)

	first := rec(1, 100, 1.0, "R")
	require.NoError(t, task.Append(first))
	assert.InDelta(t, 99.0, first.Start, 1e-9)
	assert.Zero(t, first.Wait, "first record never waits")

	second := rec(2, 250, 1.5, "Z")
	require.NoError(t, task.Append(second))
	assert.InDelta(t, 248.5, second.Start, 1e-9)
	assert.InDelta(t, 148.5, second.Wait, 1e-9)
}

func TestTask_AppendSequenceViolation(t *testing.T) {
	task := NewTask(7, ":p0", "box", 1)
	require.NoError(t, task.Append(rec(1, 1, 0.5, "R")))
	require.NoError(t, task.Append(rec(2, 2, 0.5, "R")))

	err := task.Append(rec(5, 3, 0.5, "R"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSequenceViolation))
	assert.Contains(t, err.Error(), "expected disp 3, got 5")
	assert.Len(t, task.Records, 2, "rejected record must not be appended")

	err = task.Append(rec(2, 3, 0.5, "R"))
	assert.ErrorIs(t, err, ErrSequenceViolation, "a repeated counter is a violation too")
}

func TestTask_DestructionLifetime(t *testing.T) {
	testCases := []struct {
		name        string
		records     []*Record
		destroyed   bool
		hasCreation bool
		createdAt   float64
		destroyedAt float64
	}{
		{
			name: "creation on destruction record",
			records: []*Record{
				rec(1, 10, 1, "R"),
				{Seq: 2, End: 20, Elapsed: 1, State: "Z", Creation: 5, HasCreation: true},
			},
			destroyed:   true,
			hasCreation: true,
			createdAt:   5,
			destroyedAt: 20,
		},
		{
			name: "creation seen on an earlier record",
			records: []*Record{
				{Seq: 1, End: 10, Elapsed: 1, State: "R", Creation: 3, HasCreation: true},
				rec(2, 30, 1, "Z"),
			},
			destroyed:   true,
			hasCreation: true,
			createdAt:   3,
			destroyedAt: 30,
		},
		{
			name:        "destroyed without any creation time",
			records:     []*Record{rec(1, 10, 1, "R"), rec(2, 40, 1, "Z")},
			destroyed:   true,
			destroyedAt: 40,
		},
		{
			name:    "never destroyed",
			records: []*Record{rec(1, 10, 1, "R")},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			task := NewTask(1, ":p0", "a", 0)
			for _, r := range tc.records {
				require.NoError(t, task.Append(r))
			}
			assert.Equal(t, tc.destroyed, task.Destroyed)
			assert.Equal(t, tc.hasCreation, task.HasCreation)
			assert.InDelta(t, tc.createdAt, task.CreatedAt, 1e-9)
			assert.InDelta(t, tc.destroyedAt, task.DestroyedAt, 1e-9)
		})
	}
}

func TestTask_Summarize(t *testing.T) {
	t.Run("unrealized task has no summary", func(t *testing.T) {
		task := NewTask(3, ":p0", "idle", 0)
		assert.False(t, task.Summarize())
		assert.Nil(t, task.Summary)
		assert.Zero(t, task.Total())
	})

	t.Run("single dispatch has zero mean wait", func(t *testing.T) {
		task := NewTask(3, ":p0", "once", 0)
		require.NoError(t, task.Append(rec(1, 5, 2, "R")))
		require.True(t, task.Summarize())
		assert.Equal(t, 1, task.Summary.Dispatches)
		assert.InDelta(t, 2.0, task.Summary.Mean, 1e-9)
		assert.Zero(t, task.Summary.MeanWait)
	})

	t.Run("totals and means are consistent", func(t *testing.T) {
		task := NewTask(4, ":p0", "many", 0)
		ends := []float64{10, 20, 35, 37}
		ets := []float64{1, 2, 3, 0.5}
		for i := range ends {
			require.NoError(t, task.Append(rec(i+1, ends[i], ets[i], "R")))
		}
		require.True(t, task.Summarize())

		var total, wait float64
		for _, r := range task.Records {
			total += r.Elapsed
			wait += r.Wait
		}
		s := task.Summary
		assert.Equal(t, 4, s.Dispatches)
		assert.InDelta(t, total, s.Total, 1e-9)
		assert.InDelta(t, total/4, s.Mean, 1e-9)
		assert.InDelta(t, wait, s.TotalWait, 1e-9)
		assert.InDelta(t, wait/3, s.MeanWait, 1e-9)
	})
}

func TestTask_String(t *testing.T) {
	task := NewTask(1, ":p0:b1", "workerA", 0)
	require.NoError(t, task.Append(rec(1, 100, 2.5, "R")))
	task.Summarize()
	assert.Equal(t, "Task 1 @0 (:p0:b1 workerA) 2.500000", task.String())
}

func TestError_Format(t *testing.T) {
	err := NewError(ErrMalformedRecord, "bad field %q", "x")
	assert.Equal(t, `malformed record: bad field "x"`, err.Error())
	assert.Equal(t, `malformed record: line 4: bad field "x"`, err.At("", 4).Error())
	assert.Equal(t, `malformed record: mon.log:4: bad field "x"`, err.At("mon.log", 4).Error())
	assert.ErrorIs(t, err.At("mon.log", 4), ErrMalformedRecord)
	assert.Zero(t, err.Line, "At must not modify the receiver")
}
