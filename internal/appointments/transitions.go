package appointments

// transitionMap lists, for each target status, the statuses it may be reached from.
var transitionMap = map[Status][]Status{
	StatusConfirmed: {StatusPending},
	StatusCompleted: {StatusConfirmed},
	StatusCancelled: {StatusPending, StatusConfirmed},
}

// ValidTransition reports whether an appointment may move from one status to another.
func ValidTransition(from, to Status) bool {
	allowed, ok := transitionMap[to]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == from {
			return true
		}
	}
	return false
}
