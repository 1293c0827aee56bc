package service

import (
	"hash/fnv"
	"iter"
	"math"
	"math/rand/v2"

	"fairsplit/internal/core/domain"

	"github.com/shopspring/decimal"
)

// CaseGenerator derives split inputs from seeds. Every case owns its PRNG,
// so a case can be regenerated from its seed alone.
type CaseGenerator struct {
	bounds domain.GeneratorBounds
}

// NewCaseGenerator creates a generator drawing within bounds.
func NewCaseGenerator(bounds domain.GeneratorBounds) *CaseGenerator {
	return &CaseGenerator{bounds: bounds}
}

// CaseSeed derives the seed of case index of strategy within a run.
func CaseSeed(runSeed int64, strategy domain.Strategy, index int) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strategy))
	x := splitmix64(uint64(runSeed))
	x = splitmix64(x ^ h.Sum64())
	return splitmix64(x ^ uint64(index))
}

func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}

// Generate lazily yields count cases. The sequence depends only on its
// arguments and the generator bounds, so ranging over it again repeats it.
func (g *CaseGenerator) Generate(seed int64, strategy domain.Strategy, count int) iter.Seq2[int, domain.SplitRequest] {
	return func(yield func(int, domain.SplitRequest) bool) {
		for i := 0; i < count; i++ {
			if !yield(i, g.Case(CaseSeed(seed, strategy, i), strategy, i)) {
				return
			}
		}
	}
}

// Case regenerates the input of a single case.
func (g *CaseGenerator) Case(caseSeed uint64, strategy domain.Strategy, index int) domain.SplitRequest {
	rng := rand.New(rand.NewPCG(caseSeed, splitmix64(caseSeed)))

	switch strategy {
	case domain.StrategyBoundary:
		return g.boundary(rng, index)
	case domain.StrategyMonetary:
		return g.monetary(rng)
	default:
		return g.uniform(rng)
	}
}

func (g *CaseGenerator) recipients(rng *rand.Rand) int {
	return 1 + rng.IntN(g.bounds.MaxRecipients)
}

func (g *CaseGenerator) scale(rng *rand.Rand) int32 {
	return rng.Int32N(g.bounds.Scale() + 1)
}

// uniform draws units in [0, MaxUnits), scale and recipients uniformly.
// One case in ten is negative and one in five carries an extra fractional
// digit so the rounding policy is exercised.
func (g *CaseGenerator) uniform(rng *rand.Rand) domain.SplitRequest {
	scale := g.scale(rng)
	units := rng.Int64N(g.bounds.MaxUnits)
	amount := domain.FromUnits(units, scale)
	if rng.IntN(5) == 0 {
		amount = amount.Add(decimal.New(rng.Int64N(10), -(scale + 1)))
	}
	if rng.IntN(10) == 0 {
		amount = amount.Neg()
	}
	return domain.SplitRequest{Amount: amount, Recipients: g.recipients(rng), Scale: scale}
}

// monetaryScales is ascending; the scale bound cuts it short.
var monetaryScales = []int32{0, 2, 3}

// monetary draws a magnitude uniformly over its number of digits.
func (g *CaseGenerator) monetary(rng *rand.Rand) domain.SplitRequest {
	n := 1
	for n < len(monetaryScales) && monetaryScales[n] <= g.bounds.Scale() {
		n++
	}
	scale := monetaryScales[rng.IntN(n)]
	digits := 1 + rng.IntN(decimalDigits(g.bounds.MaxUnits))

	lo := pow10(digits - 1)
	hi := min(pow10(digits)-1, g.bounds.MaxUnits)
	if lo > hi {
		lo = hi
	}
	units := lo + rng.Int64N(hi-lo+1)
	return domain.NewSplitRequest(units, g.recipients(rng), scale)
}

// boundaryCaseCount is the length of the boundary cycle.
const boundaryCaseCount = 11

// boundary cycles through edge inputs by index. The last four are outside
// the data model or overflow; a correct splitter must reject them.
func (g *CaseGenerator) boundary(rng *rand.Rand, index int) domain.SplitRequest {
	recipients := g.recipients(rng)
	scale := g.scale(rng)

	switch index % boundaryCaseCount {
	case 0:
		return domain.NewSplitRequest(0, recipients, scale)
	case 1:
		return domain.NewSplitRequest(1, recipients, scale)
	case 2:
		return domain.NewSplitRequest(math.MaxInt64, recipients, scale)
	case 3:
		return domain.NewSplitRequest(-math.MaxInt64, recipients, scale)
	case 4:
		return domain.NewSplitRequest(1+rng.Int64N(g.bounds.MaxUnits), 1, scale)
	case 5:
		units := rng.Int64N(int64(g.bounds.MaxRecipients))
		return domain.NewSplitRequest(units, int(units)+1, scale)
	case 6:
		return domain.NewSplitRequest(-1, recipients, scale)
	case 7:
		return domain.NewSplitRequest(1+rng.Int64N(g.bounds.MaxUnits), 0, scale)
	case 8:
		return domain.SplitRequest{Amount: decimal.NewFromInt(1), Recipients: recipients, Scale: -1}
	case 9:
		return domain.SplitRequest{Amount: decimal.NewFromInt(1), Recipients: recipients, Scale: domain.MaxScale + 1}
	default:
		over := domain.FromUnits(math.MaxInt64, scale).Add(domain.Unit(scale))
		return domain.SplitRequest{Amount: over, Recipients: recipients, Scale: scale}
	}
}

func decimalDigits(n int64) int {
	d := 1
	for n >= 10 {
		n /= 10
		d++
	}
	return d
}

func pow10(n int) int64 {
	p := int64(1)
	for i := 0; i < n; i++ {
		if p > math.MaxInt64/10 {
			return math.MaxInt64
		}
		p *= 10
	}
	return p
}
