package space

// Rand is the random source every generator and the step function draw from.
// *math/rand.Rand satisfies it; tests inject a seeded one.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// spread returns a value uniformly distributed in [-width/2, width/2).
func spread(rng Rand, width float64) float64 {
	return (rng.Float64() - 0.5) * width
}
