package domain

// Version is the task-ordering rotation a user sees on a given day.
// Cohort-A users see version A on odd day numbers and B on even ones;
// cohort-B users see the opposite, so every user experiences both
// orderings across consecutive days.
type Version string

const (
	VersionA Version = "A"
	VersionB Version = "B"
)

// VersionFor resolves today's schedule version from (cohort, day number).
func VersionFor(group Cohort, dayNumber int) Version {
	odd := dayNumber%2 == 1
	if group == CohortB {
		odd = !odd
	}
	if odd {
		return VersionA
	}
	return VersionB
}

// Difficulty is the per-day tier for tiered mini-games.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// DifficultyFor derives the day's difficulty from tenure.
// Days 1–3 easy, 4–6 medium, 7+ hard.
func DifficultyFor(dayNumber int) Difficulty {
	switch {
	case dayNumber < 4:
		return DifficultyEasy
	case dayNumber < 7:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}

// TaskType identifies one mini-game variant. Each game exists in an A
// and a B variant with its own question pool and result table.
type TaskType string

const (
	TaskDotProbeA    TaskType = "dot_probe_a"
	TaskDotProbeB    TaskType = "dot_probe_b"
	TaskSmileSearchA TaskType = "smile_search_a"
	TaskSmileSearchB TaskType = "smile_search_b"
	TaskWordPairA    TaskType = "word_pair_a"
	TaskWordPairB    TaskType = "word_pair_b"
	TaskMemorySpanA  TaskType = "memory_span_a"
	TaskMemorySpanB  TaskType = "memory_span_b"
)

// TaskDef describes one mini-game variant: the size of its question pool
// and whether it has difficulty tiers.
type TaskDef struct {
	Type     TaskType `json:"type"`
	PoolSize int      `json:"pool_size"`
	Tiered   bool     `json:"tiered"`
}

// taskCatalog lists the 4 mini-games belonging to each version.
var taskCatalog = map[Version][]TaskDef{
	VersionA: {
		{Type: TaskDotProbeA, PoolSize: 24, Tiered: true},
		{Type: TaskSmileSearchA, PoolSize: 18, Tiered: true},
		{Type: TaskWordPairA, PoolSize: 30, Tiered: false},
		{Type: TaskMemorySpanA, PoolSize: 12, Tiered: false},
	},
	VersionB: {
		{Type: TaskDotProbeB, PoolSize: 24, Tiered: true},
		{Type: TaskSmileSearchB, PoolSize: 18, Tiered: true},
		{Type: TaskWordPairB, PoolSize: 30, Tiered: false},
		{Type: TaskMemorySpanB, PoolSize: 12, Tiered: false},
	},
}

// Tasks returns the 4 mini-game definitions for a version.
func Tasks(v Version) []TaskDef {
	return taskCatalog[v]
}

// AllTaskTypes returns every mini-game variant across both versions.
// Order is stable: version A tasks, then version B tasks.
func AllTaskTypes() []TaskType {
	var types []TaskType
	for _, v := range []Version{VersionA, VersionB} {
		for _, def := range taskCatalog[v] {
			types = append(types, def.Type)
		}
	}
	return types
}

// KnownTaskType reports whether t is a catalogued mini-game variant.
func KnownTaskType(t TaskType) bool {
	for _, known := range AllTaskTypes() {
		if known == t {
			return true
		}
	}
	return false
}

// StepsPerDay is the fixed length of a daily schedule.
const StepsPerDay = 6

// ScheduleStep is one slot of a daily schedule: which mini-game to play,
// which question from its pool, and (for tiered games) at what difficulty.
type ScheduleStep struct {
	TaskType      TaskType   `json:"task_type"`
	QuestionIndex int        `json:"question_index"`
	Difficulty    Difficulty `json:"difficulty,omitempty"`
}

// DailySchedule is the ordered play list for one (user-local day, version).
// Once persisted it is immutable: every request for the rest of the day
// must observe the same steps in the same order.
type DailySchedule struct {
	Day       string         `json:"day"` // YYYY-MM-DD
	Version   Version        `json:"version"`
	DayNumber int            `json:"day_number"`
	Steps     []ScheduleStep `json:"steps"`
}
