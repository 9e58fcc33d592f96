package sensitivity

// Builder accumulates point sensitivities while a pricer walks a product.
// It preserves insertion order, which pricers rely on for the documented
// entry ordering of their results.
type Builder struct {
	points []Point
}

// NewBuilder returns a builder seeded with the given points.
func NewBuilder(points ...Point) *Builder {
	b := &Builder{points: make([]Point, 0, len(points))}
	b.points = append(b.points, points...)
	return b
}

// None returns an empty builder, used for purely historical observations.
func None() *Builder {
	return &Builder{}
}

// Add appends a point.
func (b *Builder) Add(p Point) *Builder {
	b.points = append(b.points, p)
	return b
}

// MultipliedBy scales every accumulated point in place.
func (b *Builder) MultipliedBy(f float64) *Builder {
	for i := range b.points {
		b.points[i].Value *= f
	}
	return b
}

// Combine appends another builder's points after this one's.
func (b *Builder) Combine(o *Builder) *Builder {
	b.points = append(b.points, o.points...)
	return b
}

// Build returns the accumulated points in insertion order.
func (b *Builder) Build() Points {
	return PointsOf(b.points...)
}
