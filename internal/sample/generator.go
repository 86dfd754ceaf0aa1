// Package sample generates synthetic creativity datasets for demos and tests.
package sample

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/okian/criatividade/internal/domain/dataset"
)

// Defaults for Generate.
const (
	DefaultRows    = 200
	DefaultLeaders = 4
)

const (
	maxTotalMsgs = 500
	maxRate      = 60.0
)

// Levels are the creativity categories drawn by Generate.
var Levels = []string{"Alta", "Média", "Baixa", "Muito Alta", "Muito Baixa", "Nenhuma"}

// level weights, same order as Levels.
var levelWeights = []int{25, 30, 20, 8, 12, 5}

type config struct {
	rows    int
	leaders int
	seed    uint64
	seeded  bool
}

// Option configures Generate.
type Option func(*config)

// WithRows sets the number of data rows.
func WithRows(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.rows = n
		}
	}
}

// WithLeaders sets how many distinct leaders appear.
func WithLeaders(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.leaders = n
		}
	}
}

// WithSeed makes the output reproducible.
func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
		c.seeded = true
	}
}

// Generate returns a header row followed by synthetic data rows.
// Rates use a decimal comma and are written in mixed styles ("12,5%",
// "7", "30,0") the way spreadsheets export them.
func Generate(opts ...Option) [][]string {
	c := config{rows: DefaultRows, leaders: DefaultLeaders}
	for _, opt := range opts {
		opt(&c)
	}
	seed := c.seed
	if !c.seeded {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))

	authors := c.rows/2 + 1
	out := make([][]string, 0, c.rows+1)
	out = append(out, append([]string{}, dataset.RequiredColumns...))
	for i := 0; i < c.rows; i++ {
		out = append(out, []string{
			fmt.Sprintf("Líder %d", 1+rng.IntN(c.leaders)),
			fmt.Sprintf("autor_%03d", 1+rng.IntN(authors)),
			pickLevel(rng),
			strconv.Itoa(1 + rng.IntN(maxTotalMsgs)),
			formatRate(rng, rng.Float64()*maxRate),
		})
	}
	return out
}

func pickLevel(rng *rand.Rand) string {
	total := 0
	for _, w := range levelWeights {
		total += w
	}
	n := rng.IntN(total)
	for i, w := range levelWeights {
		if n < w {
			return Levels[i]
		}
		n -= w
	}
	return Levels[len(Levels)-1]
}

func formatRate(rng *rand.Rand, v float64) string {
	switch rng.IntN(3) {
	case 0:
		return strings.Replace(strconv.FormatFloat(v, 'f', 1, 64), ".", ",", 1) + "%"
	case 1:
		return strconv.Itoa(int(v))
	default:
		return strings.Replace(strconv.FormatFloat(v, 'f', 2, 64), ".", ",", 1)
	}
}
