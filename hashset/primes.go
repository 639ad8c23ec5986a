package hashset

import "math"

// primes roughly doubles from one entry to the next so that growing a table
// rarely has to test a candidate for primality.
var primes = [...]int{
	3, 5, 7, 11, 17, 23, 29, 37, 47, 59, 71, 89, 107, 131, 163, 197, 239, 293, 353, 431, 521,
	631, 761, 919, 1103, 1327, 1597, 1931, 2333, 2801, 3371, 4049, 4861, 5839, 7013, 8419,
	10103, 12143, 14591, 17519, 21023, 25229, 30293, 36353, 43627, 52361, 62851, 75431, 90523,
	108631, 130363, 156437, 187751, 225307, 270371, 324449, 389357, 467237, 560689, 672827,
	807403, 968897, 1162687, 1395263, 1674319, 2009191, 2411033, 2893249, 3471899, 4166287,
	4999559, 5999471, 7199369,
}

// MinCapacity returns the smallest table length a Set will ever use.
func MinCapacity() int {
	return primes[0]
}

// Plan returns the table length to allocate for at least min slots. The
// result is always prime.
func Plan(min int) int {
	if min < MinCapacity() {
		min = MinCapacity()
	}

	for _, p := range primes {
		if p >= min {
			return p
		}
	}

	// Past the table, scan odd candidates.
	for c := min | 1; c > 0 && c < math.MaxInt32; c += 2 {
		if isPrime(c) {
			return c
		}
	}
	return MinCapacity()
}

func isPrime(candidate int) bool {
	if candidate&1 == 0 {
		return candidate == 2
	}
	limit := int(math.Sqrt(float64(candidate)))
	for i := 3; i <= limit; i += 2 {
		if candidate%i == 0 {
			return false
		}
	}
	return candidate > 1
}
