package portfolio

type ContributionDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

type ContributionWeek struct {
	Days []ContributionDay `json:"days"`
}

// ContributionCalendar covers a trailing one-year window. Weeks are
// contiguous and ordered oldest first.
type ContributionCalendar struct {
	Weeks              []ContributionWeek `json:"weeks"`
	TotalContributions int                `json:"total_contributions"`
	CurrentStreak      int                `json:"current_streak"`
	LongestStreak      int                `json:"longest_streak"`
}

// LevelFor buckets a daily contribution count into a display intensity.
// Bucket boundaries are fixed: 0, 1-2, 3-5, 6-9, 10+.
func LevelFor(count int) int {
	switch {
	case count <= 0:
		return 0
	case count <= 2:
		return 1
	case count <= 5:
		return 2
	case count <= 9:
		return 3
	default:
		return 4
	}
}

// Normalize recomputes levels, the contribution total and both streaks from
// the raw day counts. Days are assumed chronological.
func (c *ContributionCalendar) Normalize() {
	total := 0
	longest := 0
	run := 0

	for wi := range c.Weeks {
		for di := range c.Weeks[wi].Days {
			day := &c.Weeks[wi].Days[di]
			day.Level = LevelFor(day.Count)
			total += day.Count

			if day.Count > 0 {
				run++
				if run > longest {
					longest = run
				}
			} else {
				run = 0
			}
		}
	}

	c.TotalContributions = total
	c.LongestStreak = longest
	// run still holds the streak ending on the most recent day
	c.CurrentStreak = run
}
