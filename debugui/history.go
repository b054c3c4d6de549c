package debugui

// frameHistory is a fixed-size ring of frame times in milliseconds.
type frameHistory struct {
	samples []float32
	next    int
	filled  bool
}

func newFrameHistory(n int) *frameHistory {
	return &frameHistory{samples: make([]float32, max(n, 1))}
}

func (h *frameHistory) Add(ms float32) {
	h.samples[h.next] = ms
	h.next = (h.next + 1) % len(h.samples)
	if h.next == 0 {
		h.filled = true
	}
}

// Average returns the mean of the samples recorded so far.
func (h *frameHistory) Average() float32 {
	n := h.next
	if h.filled {
		n = len(h.samples)
	}
	if n == 0 {
		return 0
	}
	var sum float32
	for _, ms := range h.samples[:n] {
		sum += ms
	}
	return sum / float32(n)
}
