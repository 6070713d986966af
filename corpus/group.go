package corpus

import "sort"

// SpeakerGroup is every record sharing one key value, in file order.
type SpeakerGroup struct {
	Key     string
	Records []Record
}

func (g SpeakerGroup) Len() int { return len(g.Records) }

// GroupBy partitions records by the value of field. Groups come back in the
// order their key first appears.
func GroupBy(records []Record, field Field) []SpeakerGroup {
	idx := map[string]int{}
	var out []SpeakerGroup
	for _, r := range records {
		k := r.Field(field)
		i, ok := idx[k]
		if !ok {
			i = len(out)
			idx[k] = i
			out = append(out, SpeakerGroup{Key: k})
		}
		out[i].Records = append(out[i].Records, r)
	}
	return out
}

// SortBySize orders groups largest first. Ties keep their relative order.
func SortBySize(groups []SpeakerGroup) {
	sort.SliceStable(groups, func(i, j int) bool { return groups[i].Len() > groups[j].Len() })
}
