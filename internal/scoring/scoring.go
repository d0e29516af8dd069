package scoring

import (
	"fmt"
	"math"

	"github.com/rs/zerolog"
)

// LinesPerLevel is how many cleared lines advance the game one level.
const LinesPerLevel = 10

const (
	gravityNumerator = 1.0
	gravityFactor    = 2.0
	minGravityDelay  = 0.001
)

// Scoring tracks the session score, level and cleared-line count, and maps
// line clears to points.
type Scoring struct {
	// public
	CurrentScore int
	Level        int
	LinesCleared int
	// private
	scoreTable map[int]int
	log        zerolog.Logger
}

// New returns a Scoring starting at the given level with a zero score.
func New(startLevel int, log zerolog.Logger) Scoring {
	if startLevel < 1 {
		startLevel = 1
	}
	return Scoring{
		Level:      startLevel,
		scoreTable: getScoreTable(),
		log:        log,
	}
}

// ScoreCompletedLines awards points for clearing count lines in a single
// clear and returns the points awarded. Callers must not invoke it with a
// zero count. More than four simultaneous lines is impossible on a valid
// grid, so it panics: continuing would mean the grid is corrupt.
func (s *Scoring) ScoreCompletedLines(count int) int {
	base, ok := s.scoreTable[count]
	if !ok {
		panic(fmt.Sprintf("scoring %d completed lines is impossible", count))
	}
	points := base * s.Level
	s.CurrentScore += points
	s.LinesCleared += count
	s.log.Info().
		Int("lines", count).
		Int("level", s.Level).
		Int("points", points).
		Int("total", s.CurrentScore).
		Msg("scored")
	return points
}

// ShouldLevelUp reports whether the cleared-line total has passed the
// current level's threshold.
func (s *Scoring) ShouldLevelUp() bool {
	return s.LinesCleared > s.Level*LinesPerLevel
}

// IncreaseLevel advances the level by one.
func (s *Scoring) IncreaseLevel() {
	s.Level++
	s.log.Info().Int("level", s.Level).Msg("increasing game level")
}

// GravityDelay returns the seconds between gravity steps for a level: a
// fixed base rate over a logarithmically growing level factor, floored so
// the delay never reaches zero.
func GravityDelay(level int) float64 {
	return math.Max(gravityNumerator/(math.Log(float64(level+1))*gravityFactor), minGravityDelay)
}

// getScoreTable returns the base points per number of lines cleared at
// once, before the level multiplier.
func getScoreTable() map[int]int {
	return map[int]int{
		1: 100, // single
		2: 300, // double
		3: 500, // triple
		4: 800, // rustris
	}
}
