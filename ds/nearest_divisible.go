package ds

// NearestDivisibleByM rounds n up to the nearest multiple of m. It is used
// to pad bit counts to whole bytes.
func NearestDivisibleByM(n int, m int) int {
	if m <= 0 || n < 0 {
		panic(ErrUnreachableCode{
			Caller: "ds.NearestDivisibleByM",
			Reason: "n must not be negative and m must be positive",
		})
	}
	return (n + m - 1) / m * m
}
