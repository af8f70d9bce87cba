package objects

// DepletionMetadata holds the axis descriptions shared by every material
// parsed from one depletion file: isotope identities, isotope names, and
// the time/burnup axes. The reader owns the single instance; materials
// reference it and never copy or mutate it.
type DepletionMetadata struct {
	// ZAI are the isotope identity codes, in file order.
	ZAI []int
	// Names are the isotope names, same length and order as ZAI.
	Names []string
	// Days is the depletion time axis.
	Days []float64
	// Burnup is the companion burnup axis.
	Burnup []float64
}

// HasNames reports whether isotope names were loaded.
func (m *DepletionMetadata) HasNames() bool {
	return m != nil && len(m.Names) > 0
}
