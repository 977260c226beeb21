package TaskBoard

import "strings"

const (
	TabAll      = "all"
	TabPriority = "priority"
)

// Board runs filter, stats, sort and pagination over already scoped tasks.
// Stats cover the whole filtered set, never just the page.
func Board(views []TaskView, opts ListOptions) Result {
	sortSpec := opts.Sort.Normalize()
	filtered := Select(views, opts.Filter, sortSpec)

	page := Paginate(len(filtered), opts.Page, opts.Limit, opts.AllowedLimits)
	lo, hi := page.Bounds(len(filtered))

	priority := PriorityOnly(filtered)
	priorityPage := Paginate(len(priority), opts.PriorityPage, page.Limit, opts.AllowedLimits)
	plo, phi := priorityPage.Bounds(len(priority))

	return Result{
		Tab:           NormalizeTab(opts.Tab),
		Tasks:         filtered[lo:hi],
		Page:          page,
		PriorityTasks: priority[plo:phi],
		PriorityPage:  priorityPage,
		Stats:         ComputeStats(filtered),
		Sort:          sortSpec,
	}
}

// Select filters and sorts without paginating, as the export needs
func Select(views []TaskView, filter Filter, sort SortSpec) []TaskView {
	out := make([]TaskView, 0, len(views))
	for _, v := range views {
		if filter.Match(v) {
			out = append(out, v)
		}
	}
	SortTasks(out, sort)
	return out
}

// PriorityOnly keeps the flagged tasks, preserving order
func PriorityOnly(views []TaskView) []TaskView {
	out := make([]TaskView, 0)
	for _, v := range views {
		if v.Priority == 1 {
			out = append(out, v)
		}
	}
	return out
}

// NormalizeTab maps anything but the priority tab to the full listing
func NormalizeTab(tab string) string {
	if strings.EqualFold(strings.TrimSpace(tab), TabPriority) {
		return TabPriority
	}
	return TabAll
}
