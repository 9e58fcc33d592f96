// Package timeseries provides an immutable, ordered date→value series used
// for historical index fixings. Series are append-only in the sense that a
// built series is never mutated; new observations produce a new series.
package timeseries

import (
	"fmt"
	"sort"
	"time"
)

// Point is a single dated observation.
type Point struct {
	Date  time.Time
	Value float64
}

// Series is an ordered set of dated observations. Immutable after Build.
type Series struct {
	points []Point // ascending by date, unique dates
}

// Builder accumulates observations for a Series.
type Builder struct {
	points []Point
}

// NewBuilder returns an empty series builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Put adds an observation. Duplicate dates are rejected at Build.
func (b *Builder) Put(date time.Time, value float64) *Builder {
	b.points = append(b.points, Point{Date: date, Value: value})
	return b
}

// Build sorts the observations and returns the immutable series.
func (b *Builder) Build() (*Series, error) {
	pts := make([]Point, len(b.points))
	copy(pts, b.points)
	sort.Slice(pts, func(i, j int) bool { return pts[i].Date.Before(pts[j].Date) })
	for i := 1; i < len(pts); i++ {
		if pts[i].Date.Equal(pts[i-1].Date) {
			return nil, fmt.Errorf("duplicate fixing date %s", pts[i].Date.Format("2006-01-02"))
		}
	}
	return &Series{points: pts}, nil
}

// Empty returns a series with no observations.
func Empty() *Series {
	return &Series{}
}

// Of builds a series from points, panicking on duplicates. Test helper.
func Of(points ...Point) *Series {
	b := NewBuilder()
	for _, p := range points {
		b.Put(p.Date, p.Value)
	}
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// Value returns the observation on the given date, if present.
func (s *Series) Value(date time.Time) (float64, bool) {
	i := sort.Search(len(s.points), func(i int) bool {
		return !s.points[i].Date.Before(date)
	})
	if i < len(s.points) && s.points[i].Date.Equal(date) {
		return s.points[i].Value, true
	}
	return 0, false
}

// Len returns the number of observations.
func (s *Series) Len() int {
	return len(s.points)
}

// Points returns a copy of the observations in ascending date order.
func (s *Series) Points() []Point {
	out := make([]Point, len(s.points))
	copy(out, s.points)
	return out
}

// WithPoint returns a new series with one additional observation.
// The receiver is not modified.
func (s *Series) WithPoint(date time.Time, value float64) (*Series, error) {
	b := NewBuilder()
	for _, p := range s.points {
		b.Put(p.Date, p.Value)
	}
	b.Put(date, value)
	return b.Build()
}
