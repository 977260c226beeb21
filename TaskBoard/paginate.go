package TaskBoard

// Paginate resolves page and limit against the allowed page sizes. An
// unknown limit falls back to the first allowed size, and a page past the
// end clamps to the last page.
func Paginate(total, page, limit int, allowed []int) PageInfo {
	if !containsInt(allowed, limit) {
		if len(allowed) > 0 {
			limit = allowed[0]
		} else if limit < 1 {
			limit = 25
		}
	}

	totalPages := 0
	if total > 0 {
		totalPages = (total + limit - 1) / limit
	}
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	return PageInfo{
		Page:       page,
		Limit:      limit,
		Offset:     (page - 1) * limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Bounds returns the slice bounds of the page within n items
func (p PageInfo) Bounds(n int) (int, int) {
	lo := p.Offset
	if lo > n {
		lo = n
	}
	hi := lo + p.Limit
	if hi > n {
		hi = n
	}
	return lo, hi
}

func containsInt(xs []int, x int) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}
