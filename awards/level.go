package awards

// Award contact-count increments per level.
const (
	CenturionIncrement = 100
	TribuneIncrement   = 50
	SenatorIncrement   = 200
)

// Level returns the achieved x-factor for a raw qualifying-contact count.
// Factors 1 through 10 map one-to-one; above 10 the program only recognizes
// multiples of 5, with factors within 2 of the next multiple rounding up to
// it (11, 12 -> 10; 13, 14, 15 -> 15).
func Level(count, increment int) int {
	if increment <= 0 {
		return 0
	}
	n := count / increment
	if n <= 10 {
		return n
	}
	return (n + 2) / 5 * 5
}

// NextLevel returns the next recognized x-factor above the current count.
func NextLevel(count, increment int) int {
	if increment <= 0 {
		return 0
	}
	n := count / increment
	if n < 10 {
		return n + 1
	}
	return (n/5 + 1) * 5
}

// Remaining returns how many more qualifying contacts reach the next level.
func Remaining(count, increment int) int {
	if increment <= 0 {
		return 0
	}
	return NextLevel(count, increment)*increment - count
}
