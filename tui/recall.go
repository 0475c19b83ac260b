package tui

// recall steps through the engine's command log from the input line.
// It reads the log on every step, so a /load swaps the history with the
// campaign. Runs of the same command count once.
type recall struct {
	back int // entries behind the end of the log; 0 means not recalling
}

func (r *recall) older(log []string) (string, bool) {
	if r.back > len(log) {
		r.back = 0
	}
	var cur string
	if r.back > 0 {
		cur = log[len(log)-r.back]
	}
	i := len(log) - r.back - 1
	for i >= 0 && log[i] == cur {
		i--
	}
	if i < 0 {
		return cur, r.back > 0
	}
	r.back = len(log) - i
	return log[i], true
}

func (r *recall) newer(log []string) (string, bool) {
	if r.back == 0 || r.back > len(log) {
		r.back = 0
		return "", false
	}
	cur := log[len(log)-r.back]
	i := len(log) - r.back + 1
	for i < len(log) && log[i] == cur {
		i++
	}
	if i >= len(log) {
		r.back = 0
		return "", false
	}
	r.back = len(log) - i
	return log[i], true
}

func (r *recall) reset() { r.back = 0 }
