package session

import "time"

func (s *Signed) SetClock(now func() time.Time) { s.now = now }
