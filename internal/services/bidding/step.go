package bidding

type incrementRule struct {
	below int64 // zero means no upper bound
	step  int64
}

var incrementRules = []incrementRule{
	{below: 1_000_000, step: 100_000},
	{below: 2_000_000, step: 200_000},
	{step: 250_000},
}

// Step returns the minimum increment over amount
func Step(amount int64) int64 {
	for _, rule := range incrementRules {
		if rule.below == 0 || amount < rule.below {
			return rule.step
		}
	}
	return incrementRules[len(incrementRules)-1].step
}
