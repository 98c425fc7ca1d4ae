package posture

// DefaultFilterCoef is the weight given to each new angle.
const DefaultFilterCoef = 0.2

// IIRFilter is a single-pole exponential moving average.
// The zero value is unusable until Coef is set; use NewIIRFilter.
type IIRFilter struct {
	Coef  float64
	value float64
	ready bool
}

// NewIIRFilter creates a filter with the given coefficient in (0, 1].
func NewIIRFilter(coef float64) *IIRFilter {
	return &IIRFilter{Coef: coef}
}

// Update folds x into the running average and returns the new value.
// The first update after a reset returns x unchanged.
func (f *IIRFilter) Update(x float64) float64 {
	if !f.ready {
		f.value = x
		f.ready = true
		return x
	}
	f.value = f.Coef*x + (1-f.Coef)*f.value
	return f.value
}

// Value returns the current average. It is meaningless until Ready.
func (f *IIRFilter) Value() float64 {
	return f.value
}

// Ready reports whether at least one value has been folded in.
func (f *IIRFilter) Ready() bool {
	return f.ready
}

// Reset discards the history.
func (f *IIRFilter) Reset() {
	f.value = 0
	f.ready = false
}
