package numerator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRow struct {
	val int64
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*dest[0].(*int64) = r.val
	return nil
}

// fakeQuerier emulates the sys_sequences UPSERT against an in-memory map.
type fakeQuerier struct {
	sequences map[string]int64
	queries   int
	failNext  bool
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{sequences: make(map[string]int64)}
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.queries++
	if q.failNext {
		q.failNext = false
		return fakeRow{err: errors.New("connection refused")}
	}

	key := args[0].(string)
	switch {
	case len(args) == 1:
		q.sequences[key]++
	case strings.Contains(sql, "current_val + $2"):
		q.sequences[key] += args[1].(int64)
	default:
		q.sequences[key] = args[1].(int64)
	}
	return fakeRow{val: q.sequences[key]}
}

func period(year int) time.Time {
	return time.Date(year, time.March, 15, 0, 0, 0, 0, time.UTC)
}

func TestGetNextNumberStrict(t *testing.T) {
	q := newFakeQuerier()
	s := New(q)
	cfg := DefaultConfig("ST")

	first, err := s.GetNextNumber(context.Background(), cfg, nil, period(2026))
	require.NoError(t, err)
	assert.Equal(t, "ST-2026-00001", first)

	second, err := s.GetNextNumber(context.Background(), cfg, nil, period(2026))
	require.NoError(t, err)
	assert.Equal(t, "ST-2026-00002", second)

	// Strict hits the database once per number.
	assert.Equal(t, 2, q.queries)
}

func TestGetNextNumberYearReset(t *testing.T) {
	q := newFakeQuerier()
	s := New(q)
	cfg := DefaultConfig("ST")

	_, err := s.GetNextNumber(context.Background(), cfg, nil, period(2025))
	require.NoError(t, err)

	// A new year starts a fresh sequence.
	n, err := s.GetNextNumber(context.Background(), cfg, nil, period(2026))
	require.NoError(t, err)
	assert.Equal(t, "ST-2026-00001", n)
}

func TestGetNextNumberCachedReservesRange(t *testing.T) {
	q := newFakeQuerier()
	s := New(q)
	cfg := DefaultConfig("PR")
	opts := &Options{Strategy: StrategyCached, RangeSize: 3}

	for i := 1; i <= 3; i++ {
		n, err := s.GetNextNumber(context.Background(), cfg, opts, period(2026))
		require.NoError(t, err)
		assert.Equal(t, s.formatNumber(cfg, period(2026), int64(i)), n)
	}

	// First three numbers come from one reserved range.
	assert.Equal(t, 1, q.queries)

	n, err := s.GetNextNumber(context.Background(), cfg, opts, period(2026))
	require.NoError(t, err)
	assert.Equal(t, "PR-2026-00004", n)
	assert.Equal(t, 2, q.queries)
}

func TestGetNextNumberWithoutYear(t *testing.T) {
	q := newFakeQuerier()
	s := New(q)
	cfg := Config{Prefix: "BR", IncludeYear: false, PadWidth: 5, ResetPeriod: "never"}

	n, err := s.GetNextNumber(context.Background(), cfg, nil, period(2026))
	require.NoError(t, err)
	assert.Equal(t, "BR-00001", n)
}

func TestGetNextNumberMonthlyReset(t *testing.T) {
	q := newFakeQuerier()
	s := New(q)
	cfg := Config{Prefix: "ST", IncludeYear: true, PadWidth: 5, ResetPeriod: "month"}

	march := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	april := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)

	_, err := s.GetNextNumber(context.Background(), cfg, nil, march)
	require.NoError(t, err)

	n, err := s.GetNextNumber(context.Background(), cfg, nil, april)
	require.NoError(t, err)
	assert.Equal(t, "ST-2026-00001", n)
}

func TestGetNextNumberDatabaseError(t *testing.T) {
	q := newFakeQuerier()
	q.failNext = true
	s := New(q)

	_, err := s.GetNextNumber(context.Background(), DefaultConfig("ST"), nil, period(2026))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strict next")
}

func TestGetNextNumberNilService(t *testing.T) {
	var s *Service
	_, err := s.GetNextNumber(context.Background(), DefaultConfig("ST"), nil, period(2026))
	assert.Error(t, err)
}

func TestSetNextNumberInvalidatesCache(t *testing.T) {
	q := newFakeQuerier()
	s := New(q)
	cfg := DefaultConfig("PR")
	opts := &Options{Strategy: StrategyCached, RangeSize: 50}

	_, err := s.GetNextNumber(context.Background(), cfg, opts, period(2026))
	require.NoError(t, err)

	require.NoError(t, s.SetNextNumber(context.Background(), cfg, period(2026), 100))

	n, err := s.GetNextNumber(context.Background(), cfg, opts, period(2026))
	require.NoError(t, err)
	assert.Equal(t, "PR-2026-00101", n)
}

func TestBuildKey(t *testing.T) {
	s := New(newFakeQuerier())

	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"yearly", Config{Prefix: "ST", ResetPeriod: "year"}, "ST_2026"},
		{"monthly", Config{Prefix: "ST", ResetPeriod: "month"}, "ST_2026_03"},
		{"never", Config{Prefix: "BR", ResetPeriod: "never"}, "BR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.buildKey(tt.cfg, period(2026)))
		})
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"ST-2026-00042", 42},
		{"BR-00007", 7},
		{"garbage", -1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseNumber(tt.input), tt.input)
	}
}
