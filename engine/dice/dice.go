// Package dice defines the random source consumed by the medical engine.
package dice

// Source yields uniformly distributed integers in [0, bound).
type Source interface {
	NextInt(bound int) int
}

// Func adapts a plain function to a Source. Tests use it to script rolls.
type Func func(bound int) int

// NextInt calls f.
func (f Func) NextInt(bound int) int {
	return f(bound)
}

// D6 returns a roll in [1, 6].
func D6(src Source) int {
	return src.NextInt(6) + 1
}

// TwoD6 returns the sum of two six-sided dice.
func TwoD6(src Source) int {
	return D6(src) + D6(src)
}

// Percent returns a roll in [0, 99].
func Percent(src Source) int {
	return src.NextInt(100)
}

// Sequence returns a Source that replays rolls in order, ignoring the bound,
// and keeps returning the last roll once exhausted. Empty sequences yield 0.
func Sequence(rolls ...int) Source {
	i := 0
	return Func(func(int) int {
		if len(rolls) == 0 {
			return 0
		}
		if i >= len(rolls) {
			return rolls[len(rolls)-1]
		}
		r := rolls[i]
		i++
		return r
	})
}
