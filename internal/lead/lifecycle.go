package lead

// Transition checks a status change. Sales processes are not linear, so any
// valid status may follow any other; only unknown statuses are rejected.
func Transition(from, to Status) error {
	if !from.Valid() {
		return invalid("lead: transition", "status", "unknown current status "+string(from))
	}
	if !to.Valid() {
		return invalid("lead: transition", "status", "unknown target status "+string(to))
	}
	return nil
}

// Summary holds the dashboard aggregates over a lead collection. It is
// recomputed from the collection on every call and never cached.
type Summary struct {
	Total         int            `json:"total_leads"`
	ByStatus      map[Status]int `json:"by_status"`
	Qualified     int            `json:"qualified"`
	NewThisPeriod int            `json:"new_this_period"`
	// ConversionRate is not derived from lead history. It is nil unless a
	// value was supplied through SummaryOpts.
	ConversionRate *float64 `json:"conversion_rate,omitempty"`
}

// SummaryOpts carries externally supplied metrics.
type SummaryOpts struct {
	ConversionRate *float64
}

// Summarize computes the aggregates for leads.
func Summarize(leads []Lead, opts SummaryOpts) Summary {
	sum := Summary{
		Total:    len(leads),
		ByStatus: make(map[Status]int, 4),
	}
	for _, s := range Statuses() {
		sum.ByStatus[s] = 0
	}
	for _, l := range leads {
		sum.ByStatus[l.Status]++
	}
	sum.Qualified = sum.ByStatus[StatusQualified]
	sum.NewThisPeriod = sum.ByStatus[StatusNew]
	if opts.ConversionRate != nil {
		r := *opts.ConversionRate
		sum.ConversionRate = &r
	}
	return sum
}

// Summary computes the aggregates over the store's current contents.
func (s *Store) Summary(opts SummaryOpts) Summary {
	return Summarize(s.List(), opts)
}
