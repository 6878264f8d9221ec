package sade

import "math"

// Sphere is the Sphere benchmark function.
// Global minimum is at f(0, ..., 0) = 0
func Sphere(x []float64) float64 {
	sum := 0.0
	for _, val := range x {
		sum += val * val
	}
	return sum
}

// Rastrigin is the Rastrigin benchmark function.
// Global minimum is at f(0, ..., 0) = 0
func Rastrigin(x []float64) float64 {
	n := len(x)
	A := 10.0
	sum := 0.0
	for _, val := range x {
		sum += val*val - A*math.Cos(2*math.Pi*val)
	}
	return float64(n)*A + sum
}

// Rosenbrock is the Rosenbrock benchmark function (banana function).
// Global minimum is at f(1, ..., 1) = 0
func Rosenbrock(x []float64) float64 {
	sum := 0.0
	for i := 0; i < len(x)-1; i++ {
		sum += 100*math.Pow(x[i+1]-x[i]*x[i], 2) + math.Pow(1-x[i], 2)
	}
	return sum
}

// Ackley is the Ackley benchmark function.
// Global minimum is at f(0, ..., 0) = 0
func Ackley(x []float64) float64 {
	n := float64(len(x))
	sum1 := 0.0
	sum2 := 0.0
	for _, val := range x {
		sum1 += val * val
		sum2 += math.Cos(2 * math.Pi * val)
	}
	return -20*math.Exp(-0.2*math.Sqrt(sum1/n)) - math.Exp(sum2/n) + 20 + math.E
}

// Griewank is the Griewank benchmark function.
// Global minimum is at f(0, ..., 0) = 0
func Griewank(x []float64) float64 {
	sum := 0.0
	prod := 1.0
	for i, val := range x {
		sum += val * val
		prod *= math.Cos(val / math.Sqrt(float64(i+1)))
	}
	return sum/4000 - prod + 1
}

// Unconstrained adapts a plain minimization function to the Objective
// signature with an empty violation vector.
func Unconstrained(f func([]float64) float64) Objective {
	return func(_ int, x []float64) Evaluation {
		return Evaluation{FOM: f(x)}
	}
}

// ConstrainedSphere is the Sphere function subject to sum(x) >= 1: the
// unconstrained optimum is infeasible, so selectors have real work to do.
// The single violation entry is max(0, 1 - sum(x)).
func ConstrainedSphere(_ int, x []float64) Evaluation {
	sum := 0.0
	for _, val := range x {
		sum += val
	}
	return Evaluation{
		FOM:        Sphere(x),
		Violations: []float64{math.Max(0, 1-sum)},
	}
}

// KeaneBump is Keane's bump test problem, a heavily constrained benchmark:
// minimize the negative bump ratio subject to prod(x) >= 0.75 and
// sum(x) <= 7.5*n. Both constraints report their breach magnitude.
func KeaneBump(_ int, x []float64) Evaluation {
	n := float64(len(x))
	sumCos4 := 0.0
	prodCos2 := 1.0
	sumSq := 0.0
	sum := 0.0
	prod := 1.0
	for i, val := range x {
		c := math.Cos(val)
		sumCos4 += math.Pow(c, 4)
		prodCos2 *= c * c
		sumSq += float64(i+1) * val * val
		sum += val
		prod *= val
	}
	fom := 0.0
	if sumSq > 0 {
		fom = -math.Abs((sumCos4 - 2*prodCos2) / math.Sqrt(sumSq))
	}
	return Evaluation{
		FOM: fom,
		Violations: []float64{
			math.Max(0, 0.75-prod),
			math.Max(0, sum-7.5*n),
		},
	}
}
