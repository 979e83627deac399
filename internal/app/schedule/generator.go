package schedule

import (
	"math/rand"
	"time"

	"github.com/moodlift/moodlift/internal/domain"
)

// Generator produces a day's ordered list of mini-game steps. Pure over
// its random source: no I/O, no persistence — callers cache the result.
//
// Task types are sampled independently per slot, so a day may contain a
// game zero or several times. That variability is intentional.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator seeded from the wall clock.
func NewGenerator() *Generator {
	return NewGeneratorWithSeed(time.Now().UnixNano())
}

// NewGeneratorWithSeed creates a generator with a fixed seed. Tests use
// this to make the structure assertions reproducible.
func NewGeneratorWithSeed(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate builds the 6-step play list for (dayNumber, version).
// Difficulty is fixed for the whole day from the tenure tiering rule and
// attached only to tiered games. Question indices come from a per-game
// shuffled permutation of its pool, so within one day a question repeats
// only once its pool is exhausted and wraps.
func (g *Generator) Generate(dayNumber int, version domain.Version) []domain.ScheduleStep {
	difficulty := domain.DifficultyFor(dayNumber)
	tasks := domain.Tasks(version)

	// One uniform shuffled permutation per game, with a cursor.
	perms := make([][]int, len(tasks))
	cursors := make([]int, len(tasks))
	for i, def := range tasks {
		perms[i] = g.rng.Perm(def.PoolSize)
	}

	steps := make([]domain.ScheduleStep, 0, domain.StepsPerDay)
	for i := 0; i < domain.StepsPerDay; i++ {
		pick := g.rng.Intn(len(tasks))
		def := tasks[pick]

		// Wrap via modulo once the pool is exhausted within the day.
		idx := perms[pick][cursors[pick]%def.PoolSize]
		cursors[pick]++

		step := domain.ScheduleStep{
			TaskType:      def.Type,
			QuestionIndex: idx,
		}
		if def.Tiered {
			step.Difficulty = difficulty
		}
		steps = append(steps, step)
	}

	// Generation order is the play order.
	return steps
}
