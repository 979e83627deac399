package schedule_test

import (
	"reflect"
	"testing"
	"time"

	"github.com/moodlift/moodlift/internal/app/schedule"
	"github.com/moodlift/moodlift/internal/domain"
	"github.com/moodlift/moodlift/internal/infra/sqlite"
)

func testDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func createUser(t *testing.T, db *sqlite.DB, id string, cohort domain.Cohort, createdAt time.Time) {
	t.Helper()
	err := db.CreateUser(domain.User{ID: id, Username: id, Cohort: cohort, CreatedAt: createdAt})
	if err != nil {
		t.Fatalf("create user %s: %v", id, err)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Tenure Resolver Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestResolver_CreationDayIsDayOne(t *testing.T) {
	db := testDB(t)
	created := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	createUser(t, db, "u1", domain.CohortA, created)

	r := schedule.NewResolver(db)
	r.SetNow(func() time.Time { return created.Add(3 * time.Hour) })

	tenure := r.Resolve("u1")
	if tenure.DayNumber != 1 {
		t.Errorf("expected day 1 on creation day, got %d", tenure.DayNumber)
	}
	if tenure.Group != domain.CohortA {
		t.Errorf("expected cohort A, got %s", tenure.Group)
	}
}

func TestResolver_MidnightAdvancesDay(t *testing.T) {
	db := testDB(t)
	// Created at 23:59; a check at 00:01 two minutes later is already day 2.
	created := time.Date(2024, 1, 1, 23, 59, 0, 0, time.UTC)
	createUser(t, db, "u1", domain.CohortA, created)

	r := schedule.NewResolver(db)
	r.SetNow(func() time.Time { return time.Date(2024, 1, 2, 0, 1, 0, 0, time.UTC) })

	if tenure := r.Resolve("u1"); tenure.DayNumber != 2 {
		t.Errorf("expected day 2 just after midnight, got %d", tenure.DayNumber)
	}
}

func TestResolver_Monotonic(t *testing.T) {
	db := testDB(t)
	created := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	createUser(t, db, "u1", domain.CohortB, created)

	r := schedule.NewResolver(db)
	for i := 0; i < 10; i++ {
		day := created.AddDate(0, 0, i)
		r.SetNow(func() time.Time { return day })
		if tenure := r.Resolve("u1"); tenure.DayNumber != i+1 {
			t.Errorf("day offset %d: expected day number %d, got %d", i, i+1, tenure.DayNumber)
		}
	}
}

func TestResolver_MissingUserFailsSoft(t *testing.T) {
	db := testDB(t)
	r := schedule.NewResolver(db)

	tenure := r.Resolve("ghost")
	if tenure.DayNumber != 1 || tenure.Group != domain.CohortA {
		t.Errorf("expected default tenure for missing user, got %+v", tenure)
	}
}

func TestVersionFor_Alternation(t *testing.T) {
	for day := 1; day <= 14; day++ {
		wantA := domain.VersionB
		wantB := domain.VersionA
		if day%2 == 1 {
			wantA = domain.VersionA
			wantB = domain.VersionB
		}
		if got := domain.VersionFor(domain.CohortA, day); got != wantA {
			t.Errorf("cohort A day %d: got %s, want %s", day, got, wantA)
		}
		if got := domain.VersionFor(domain.CohortB, day); got != wantB {
			t.Errorf("cohort B day %d: got %s, want %s", day, got, wantB)
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Generator Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestDifficultyFor_Boundaries(t *testing.T) {
	tests := []struct {
		day  int
		want domain.Difficulty
	}{
		{1, domain.DifficultyEasy},
		{3, domain.DifficultyEasy},
		{4, domain.DifficultyMedium},
		{6, domain.DifficultyMedium},
		{7, domain.DifficultyHard},
		{30, domain.DifficultyHard},
	}
	for _, tt := range tests {
		if got := domain.DifficultyFor(tt.day); got != tt.want {
			t.Errorf("DifficultyFor(%d) = %s, want %s", tt.day, got, tt.want)
		}
	}
}

func TestGenerator_SixSteps(t *testing.T) {
	g := schedule.NewGeneratorWithSeed(1)
	steps := g.Generate(1, domain.VersionA)
	if len(steps) != domain.StepsPerDay {
		t.Fatalf("expected %d steps, got %d", domain.StepsPerDay, len(steps))
	}
}

func TestGenerator_TasksBelongToVersion(t *testing.T) {
	for _, version := range []domain.Version{domain.VersionA, domain.VersionB} {
		allowed := make(map[domain.TaskType]bool)
		for _, def := range domain.Tasks(version) {
			allowed[def.Type] = true
		}

		g := schedule.NewGeneratorWithSeed(42)
		for trial := 0; trial < 50; trial++ {
			for _, step := range g.Generate(5, version) {
				if !allowed[step.TaskType] {
					t.Fatalf("version %s schedule contains foreign task %s", version, step.TaskType)
				}
			}
		}
	}
}

func TestGenerator_DifficultyOnlyOnTieredTasks(t *testing.T) {
	tiered := make(map[domain.TaskType]bool)
	for _, def := range domain.Tasks(domain.VersionA) {
		tiered[def.Type] = def.Tiered
	}

	g := schedule.NewGeneratorWithSeed(7)
	for trial := 0; trial < 50; trial++ {
		for _, step := range g.Generate(9, domain.VersionA) {
			if tiered[step.TaskType] && step.Difficulty != domain.DifficultyHard {
				t.Errorf("tiered task %s on day 9 should be hard, got %q", step.TaskType, step.Difficulty)
			}
			if !tiered[step.TaskType] && step.Difficulty != "" {
				t.Errorf("untiered task %s carries difficulty %q", step.TaskType, step.Difficulty)
			}
		}
	}
}

func TestGenerator_QuestionIndicesWithinPool(t *testing.T) {
	pools := make(map[domain.TaskType]int)
	for _, def := range domain.Tasks(domain.VersionB) {
		pools[def.Type] = def.PoolSize
	}

	g := schedule.NewGeneratorWithSeed(99)
	for trial := 0; trial < 100; trial++ {
		for _, step := range g.Generate(2, domain.VersionB) {
			if step.QuestionIndex < 0 || step.QuestionIndex >= pools[step.TaskType] {
				t.Fatalf("question index %d out of pool [0,%d) for %s",
					step.QuestionIndex, pools[step.TaskType], step.TaskType)
			}
		}
	}
}

func TestGenerator_NoRepeatBeforePoolExhausted(t *testing.T) {
	// Within one day, a question repeats only once its shuffled pool wraps.
	// 6 slots never exhaust any pool (smallest is 12), so all indices drawn
	// for the same task type in one schedule must be distinct.
	for seed := int64(0); seed < 20; seed++ {
		g := schedule.NewGeneratorWithSeed(seed)
		steps := g.Generate(1, domain.VersionA)

		seen := make(map[domain.TaskType]map[int]bool)
		for _, step := range steps {
			if seen[step.TaskType] == nil {
				seen[step.TaskType] = make(map[int]bool)
			}
			if seen[step.TaskType][step.QuestionIndex] {
				t.Fatalf("seed %d: question %d repeated for %s before pool exhaustion",
					seed, step.QuestionIndex, step.TaskType)
			}
			seen[step.TaskType][step.QuestionIndex] = true
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Schedule Cache Tests
// ═══════════════════════════════════════════════════════════════════════════

func newCache(t *testing.T, db *sqlite.DB, now time.Time) *schedule.Cache {
	t.Helper()
	r := schedule.NewResolver(db)
	r.SetNow(func() time.Time { return now })
	c := schedule.NewCache(db, r, schedule.NewGenerator())
	c.SetNow(func() time.Time { return now })
	return c
}

func TestCache_IdempotentWithinDay(t *testing.T) {
	db := testDB(t)
	created := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	createUser(t, db, "u1", domain.CohortA, created)

	c := newCache(t, db, created.AddDate(0, 0, 3))

	first := c.Today("u1")
	for i := 0; i < 5; i++ {
		again := c.Today("u1")
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("call %d returned a different schedule:\nfirst: %+v\nagain: %+v", i, first, again)
		}
	}
}

func TestCache_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	db, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	created := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	now := created.AddDate(0, 0, 6)
	if err := db.CreateUser(domain.User{ID: "u1", Username: "u1", Cohort: domain.CohortA, CreatedAt: created}); err != nil {
		t.Fatalf("create user: %v", err)
	}

	first := newCache(t, db, now).Today("u1")
	if err := db.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Simulated app restart: new process, same database file.
	db2, err := sqlite.Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer db2.Close()

	again := newCache(t, db2, now).Today("u1")
	if !reflect.DeepEqual(first, again) {
		t.Errorf("schedule changed across restart:\nbefore: %+v\nafter:  %+v", first, again)
	}
}

func TestCache_NewDayNewSchedule(t *testing.T) {
	db := testDB(t)
	created := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	createUser(t, db, "u1", domain.CohortA, created)

	day4 := newCache(t, db, created.AddDate(0, 0, 3)).Today("u1")
	day5 := newCache(t, db, created.AddDate(0, 0, 4)).Today("u1")

	if day4.Day == day5.Day {
		t.Fatal("expected distinct cache keys for distinct days")
	}
	if day4.Version == day5.Version {
		t.Errorf("version should alternate daily: %s then %s", day4.Version, day5.Version)
	}
	if day4.DayNumber != 4 || day5.DayNumber != 5 {
		t.Errorf("day numbers: got %d, %d; want 4, 5", day4.DayNumber, day5.DayNumber)
	}
}

func TestCache_MediumDifficultyOnDayFour(t *testing.T) {
	db := testDB(t)
	created := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	createUser(t, db, "u1", domain.CohortA, created)

	sched := newCache(t, db, created.AddDate(0, 0, 3)).Today("u1")

	// Day 4, cohort A: even day number resolves version B, medium tier.
	if sched.Version != domain.VersionB {
		t.Errorf("expected version B on day 4 for cohort A, got %s", sched.Version)
	}
	tiered := make(map[domain.TaskType]bool)
	for _, def := range domain.Tasks(sched.Version) {
		tiered[def.Type] = def.Tiered
	}
	for _, step := range sched.Steps {
		if tiered[step.TaskType] && step.Difficulty != domain.DifficultyMedium {
			t.Errorf("tiered step %s: difficulty %q, want medium", step.TaskType, step.Difficulty)
		}
	}
}
