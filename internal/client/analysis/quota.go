package analysis

// Limit is the number of analyses an account may run.
const Limit = 15

// Quota mirrors the server's analyses-used counter. It is a hint for the
// UI; the server enforces the limit.
type Quota struct {
	Used int
}

func (q Quota) Remaining() int {
	return max(0, Limit-q.Used)
}

func (q Quota) Exhausted() bool {
	return q.Remaining() == 0
}
