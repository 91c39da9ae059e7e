package chatbot

import (
	"sort"
	"strings"
)

var weekdayAbbrev = [7]string{"dom", "lun", "mar", "mié", "jue", "vie", "sáb"}

// mondayFirst maps a weekday (0 = Sunday) to its position in a Monday-first week.
func mondayFirst(d int) int {
	return (d + 6) % 7
}

// FormatBusinessHours renders the opening hours grouping consecutive days
// that share a window, e.g. "lun-jue 09:00–19:00". Without rows it returns
// fallback.
func FormatBusinessHours(hours []BusinessHour, fallback string) string {
	valid := make([]BusinessHour, 0, len(hours))
	for _, h := range hours {
		if h.Weekday >= 0 && h.Weekday <= 6 && h.Open != "" && h.Close != "" {
			valid = append(valid, h)
		}
	}
	if len(valid) == 0 {
		return fallback
	}
	sort.SliceStable(valid, func(i, j int) bool {
		return mondayFirst(valid[i].Weekday) < mondayFirst(valid[j].Weekday)
	})

	var groups []string
	for i := 0; i < len(valid); {
		j := i
		for j+1 < len(valid) &&
			mondayFirst(valid[j+1].Weekday) == mondayFirst(valid[j].Weekday)+1 &&
			valid[j+1].Open == valid[i].Open && valid[j+1].Close == valid[i].Close {
			j++
		}
		days := weekdayAbbrev[valid[i].Weekday]
		if j > i {
			days += "-" + weekdayAbbrev[valid[j].Weekday]
		}
		groups = append(groups, days+" "+valid[i].Open+"–"+valid[i].Close)
		i = j + 1
	}
	return "Nuestro horario: " + strings.Join(groups, ", ") + "."
}
