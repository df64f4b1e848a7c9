package render

import "time"

// Limiter caps a loop to a fixed number of iterations per second by sleeping
// out the remainder of each frame. It is cooperative: a slow frame is not
// made up for later.
type Limiter struct {
	interval time.Duration
	next     time.Time
	now      func() time.Time
	sleep    func(time.Duration)
}

// NewLimiter creates a limiter for fps iterations per second. fps <= 0
// disables limiting.
func NewLimiter(fps int) *Limiter {
	var interval time.Duration
	if fps > 0 {
		interval = time.Second / time.Duration(fps)
	}
	return &Limiter{
		interval: interval,
		now:      time.Now,
		sleep:    time.Sleep,
	}
}

// Interval returns the target frame duration.
func (l *Limiter) Interval() time.Duration {
	return l.interval
}

// Wait blocks until the current frame's time slot has elapsed and returns
// how long it slept.
func (l *Limiter) Wait() time.Duration {
	if l.interval == 0 {
		return 0
	}
	now := l.now()
	if l.next.IsZero() || now.After(l.next) {
		// first frame, or we fell behind: restart the schedule from now
		l.next = now.Add(l.interval)
		return 0
	}
	d := l.next.Sub(now)
	l.sleep(d)
	l.next = l.next.Add(l.interval)
	return d
}
