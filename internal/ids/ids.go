package ids

import (
	"strconv"
	"sync"
	"time"

	"github.com/segmentio/ksuid"
)

func New() string {
	return ksuid.New().String()
}

// Clock mints record IDs from the creation time in Unix milliseconds.
// IDs never repeat: a second call within the same millisecond (or after the
// wall clock stepped back) yields last+1.
type Clock struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewClock() *Clock {
	return &Clock{now: time.Now}
}

func NewClockAt(now func() time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	return c.now()
}

func (c *Clock) Next() (string, time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now()
	ms := t.UnixMilli()
	if ms <= c.last {
		ms = c.last + 1
	}
	c.last = ms
	return strconv.FormatInt(ms, 10), t
}
