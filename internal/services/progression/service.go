package progression

import (
	"sort"

	"github.com/mcoot/circle-go/internal/dependencies/random"
)

// StartingRating is the rating of a freshly registered user
const StartingRating = 30

// Rating rewards for completing a contest
const (
	FullSolveBonus  = 10
	PerSolveBonus   = 2
	PartialSolveCap = 6
)

// MaxProfileTraits bounds how many top topics are reported as traits
const MaxProfileTraits = 5

var levelTitles = []string{
	"Novice Coder",
	"Code Apprentice",
	"Algorithm Knight",
	"Binary Baron",
	"Data Duke",
	"Logic Lord",
	"Syntax Sovereign",
	"Algorithm Archmage",
	"Code Champion",
	"Master of Recursion",
	"Grandmaster",
}

var victoryTitles = []string{
	"Rising Coder",
	"Code Apprentice",
	"Algorithm Knight",
	"Binary Baron",
	"Data Duke",
	"Logic Lord",
	"Syntax Sovereign",
	"Algorithm Archmage",
	"Code Champion",
	"Master of Recursion",
}

var traitPool = []string{
	"Algorithm Adept",
	"Code Warrior",
	"Binary Sage",
	"Loop Master",
	"Recursion Wizard",
	"Data Whisperer",
	"Stack Slayer",
	"Graph Navigator",
	"Dynamic Dynamo",
	"Greedy Genius",
	"Divide Conqueror",
	"Search Sentinel",
	"Sort Sorcerer",
	"Tree Tamer",
	"Hash Hero",
}

var titlePrefixes = []string{
	"The Shadow",
	"Trial of the",
	"Rise of",
	"The Fallen",
	"Siege of",
	"Dawn of",
	"The Last",
	"Echoes of",
}

var titleThemes = []string{
	"Algorithm Master",
	"Code Breaker",
	"Binary Phantom",
	"Recursive Dragon",
	"Stack Overflow",
	"Null Pointer",
	"Infinite Loop",
	"Memory Leviathan",
	"Logic Fortress",
	"Data Serpent",
}

// Service holds the simulator's rating and reward rules
type Service struct {
	random random.Random
}

// New creates a new progression Service
func New(random random.Random) *Service {
	return &Service{random: random}
}

// Level derives a level from a rating
func (s *Service) Level(rating int) int {
	return max(1, rating/10+1)
}

// Title is the standing title for a level
func (s *Service) Title(level int) string {
	idx := min(level/5, len(levelTitles)-1)
	return levelTitles[max(idx, 0)]
}

// RatingChange is the rating awarded for completing a contest
func (s *Service) RatingChange(solved, total int) int {
	if IsVictory(solved, total) {
		return FullSolveBonus
	}
	return min(solved*PerSolveBonus, PartialSolveCap)
}

// IsVictory reports whether every question of a non-empty contest was solved
func IsVictory(solved, total int) bool {
	return total > 0 && solved == total
}

// VictoryAwards picks the cosmetic traits and title granted for a full
// solve at the given level. Nothing is awarded otherwise.
func (s *Service) VictoryAwards(level, solved, total int) ([]string, *string) {
	if !IsVictory(solved, total) {
		return []string{}, nil
	}

	traits := make([]string, 0, 2)
	for _, i := range s.random.Sample(len(traitPool), 2) {
		traits = append(traits, traitPool[i])
	}

	title := victoryTitles[min(level/10, len(victoryTitles)-1)]
	return traits, &title
}

// ContestTitle names a freshly generated contest
func (s *Service) ContestTitle() string {
	return titlePrefixes[s.random.Intn(len(titlePrefixes))] + " " +
		titleThemes[s.random.Intn(len(titleThemes))]
}

// ProfileTraits are the user's most-solved topics, best first. Ties are
// broken alphabetically.
func (s *Service) ProfileTraits(topicSolves map[string]int) []string {
	topics := make([]string, 0, len(topicSolves))
	for t := range topicSolves {
		topics = append(topics, t)
	}
	sort.Slice(topics, func(i, j int) bool {
		if topicSolves[topics[i]] != topicSolves[topics[j]] {
			return topicSolves[topics[i]] > topicSolves[topics[j]]
		}
		return topics[i] < topics[j]
	})
	if len(topics) > MaxProfileTraits {
		topics = topics[:MaxProfileTraits]
	}
	return topics
}
