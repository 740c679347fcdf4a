package questionbank

import "sort"

// SourceStats summarizes one source group of the bank.
type SourceStats struct {
	Source         string
	Total          int
	MultipleChoice int
	Numeric        int
	Unresolved     int // MultipleChoice questions whose answer matched no option
	TotalMarks     int
}

// Stats aggregates per-source counts, sorted by source name.
func (qb *QuestionBank) Stats() []SourceStats {
	bySource := map[string]*SourceStats{}
	for _, q := range qb.Questions {
		s, ok := bySource[q.SourceGroup]
		if !ok {
			s = &SourceStats{Source: q.SourceGroup}
			bySource[q.SourceGroup] = s
		}

		s.Total++
		s.TotalMarks += q.Marks
		switch q.Kind {
		case MultipleChoice:
			s.MultipleChoice++
			if q.AnswerUnresolved {
				s.Unresolved++
			}
		case NumericAnswer:
			s.Numeric++
		}
	}

	out := make([]SourceStats, 0, len(bySource))
	for _, s := range bySource {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out
}
