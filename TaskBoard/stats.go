package TaskBoard

// ComputeStats counts a task set. A task is delayed only while it is still
// open, so Delayed overlaps Pending.
func ComputeStats(views []TaskView) Stats {
	var s Stats
	for _, v := range views {
		s.Total++
		switch {
		case v.Completed:
			s.Completed++
		case v.Open():
			s.Pending++
			if v.IsDelayed == 1 {
				s.Delayed++
			}
		default:
			s.Closed++
		}
		if v.Priority == 1 {
			s.Priority++
		}
	}
	return s
}

// CompletionRate is the completed share of Total as a percentage with one decimal
func (s Stats) CompletionRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(int(float64(s.Completed)*1000/float64(s.Total)+0.5)) / 10
}
