package visits

import "sync"

// DefaultHistorySize is the default number of counter samples to retain.
const DefaultHistorySize = 120

// History keeps recent counter snapshots in ring buffers so the dashboard
// can draw a live sparkline next to the totals. It is safe for concurrent use.
type History struct {
	mu    sync.RWMutex
	size  int
	total *ringBuffer
	today *ringBuffer
}

// ringBuffer is a fixed-size circular buffer for float64 values.
type ringBuffer struct {
	data  []float64
	head  int
	count int
	size  int
}

// NewHistory creates a history with room for size samples.
func NewHistory(size int) *History {
	if size <= 0 {
		size = DefaultHistorySize
	}
	return &History{
		size:  size,
		total: newRingBuffer(size),
		today: newRingBuffer(size),
	}
}

// Push records one counter snapshot. A nil snapshot is ignored.
func (h *History) Push(s *CounterSnapshot) {
	if s == nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.total.push(float64(s.TotalVisits))
	h.today.push(float64(s.TodayVisits))
}

// Totals returns up to the last count total-visit samples, oldest first.
func (h *History) Totals(count int) []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.total.getLast(count)
}

// Today returns up to the last count today-visit samples, oldest first.
func (h *History) Today(count int) []float64 {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.today.getLast(count)
}

// Growth returns how much the total grew across the retained window.
func (h *History) Growth() int64 {
	h.mu.RLock()
	defer h.mu.RUnlock()

	all := h.total.getLast(h.total.count)
	if len(all) < 2 {
		return 0
	}
	return int64(all[len(all)-1] - all[0])
}

// Count returns the number of samples stored.
func (h *History) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.total.count
}

// Clear drops all samples.
func (h *History) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.total = newRingBuffer(h.size)
	h.today = newRingBuffer(h.size)
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		data: make([]float64, size),
		size: size,
	}
}

func (r *ringBuffer) push(value float64) {
	r.data[r.head] = value
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// getLast returns the last count values in chronological order (oldest first).
func (r *ringBuffer) getLast(count int) []float64 {
	if count <= 0 || r.count == 0 {
		return nil
	}

	if count > r.count {
		count = r.count
	}

	result := make([]float64, count)

	// head is the next write position, so the newest value sits at head-1.
	start := (r.head - count + r.size) % r.size

	for i := 0; i < count; i++ {
		result[i] = r.data[(start+i)%r.size]
	}

	return result
}
