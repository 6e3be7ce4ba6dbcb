package engine

// Commission computes the amount owed by an operator to their admin for a
// given net base. Commission is only paid on a positive net result; losses
// are absorbed by the party that incurred them and never produce a negative
// commission. Both sides of the consolidation compose this single formula,
// they never reimplement it.
func Commission(netBase, ratePercent float64) float64 {
	if netBase <= 0 {
		return 0
	}
	return Round2(netBase * (ratePercent / 100))
}

// RateFor resolves the current commission rate for an operator. A missing
// user record (operator deleted, historical cycles remain) is recoverable
// and yields rate 0.
func RateFor(users []User, operatorID string) float64 {
	for _, u := range users {
		if u.ID == operatorID {
			return u.CommissionRate
		}
	}
	return 0
}
