package monitor

// DefaultHistorySize is the number of cycles kept for the CPU trend.
const DefaultHistorySize = 60

// History is a fixed-size ring buffer of per-cycle values. It is owned by
// the Model and only touched from Update, so it needs no locking.
type History struct {
	data  []float64
	head  int
	count int
}

// NewHistory creates a history holding at most size values.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{data: make([]float64, size)}
}

// Push appends a value, overwriting the oldest once full.
func (h *History) Push(v float64) {
	h.data[h.head] = v
	h.head = (h.head + 1) % len(h.data)
	if h.count < len(h.data) {
		h.count++
	}
}

// Last returns up to n values, oldest first.
func (h *History) Last(n int) []float64 {
	if n > h.count {
		n = h.count
	}
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	start := (h.head - n + len(h.data)) % len(h.data)
	for i := 0; i < n; i++ {
		out[i] = h.data[(start+i)%len(h.data)]
	}
	return out
}

// Len returns the number of stored values.
func (h *History) Len() int {
	return h.count
}
