package progression

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/circle-go/internal/dependencies/mocks"
)

type ProgressionSuite struct {
	suite.Suite
	random  *mocks.MockRandom
	service *Service
}

func TestProgressionSuite(t *testing.T) {
	suite.Run(t, new(ProgressionSuite))
}

func (s *ProgressionSuite) SetupTest() {
	s.random = mocks.NewMockRandom()
	s.service = New(s.random)
}

func (s *ProgressionSuite) TestLevel() {
	s.Equal(1, s.service.Level(0))
	s.Equal(1, s.service.Level(9))
	s.Equal(2, s.service.Level(10))
	s.Equal(4, s.service.Level(StartingRating))
	s.Equal(5, s.service.Level(40))
	s.Equal(1, s.service.Level(-20))
}

func (s *ProgressionSuite) TestTitle() {
	s.Equal("Novice Coder", s.service.Title(1))
	s.Equal("Novice Coder", s.service.Title(4))
	s.Equal("Code Apprentice", s.service.Title(5))
	s.Equal("Grandmaster", s.service.Title(50))
	s.Equal("Grandmaster", s.service.Title(500))
}

func (s *ProgressionSuite) TestRatingChange() {
	s.Equal(10, s.service.RatingChange(4, 4))
	s.Equal(6, s.service.RatingChange(3, 4))
	s.Equal(4, s.service.RatingChange(2, 4))
	s.Equal(2, s.service.RatingChange(1, 4))
	s.Equal(0, s.service.RatingChange(0, 4))
	s.Equal(0, s.service.RatingChange(0, 0), "an empty contest is not a victory")
}

func (s *ProgressionSuite) TestVictoryAwards() {
	s.random.QueueSample(2, 7)

	traits, title := s.service.VictoryAwards(5, 4, 4)

	s.Equal([]string{"Binary Sage", "Graph Navigator"}, traits)
	s.Require().NotNil(title)
	s.Equal("Rising Coder", *title)
}

func (s *ProgressionSuite) TestVictoryTitleScalesWithLevel() {
	_, title := s.service.VictoryAwards(25, 4, 4)
	s.Equal("Algorithm Knight", *title)

	_, title = s.service.VictoryAwards(1000, 4, 4)
	s.Equal("Master of Recursion", *title)
}

func (s *ProgressionSuite) TestNoAwardsWithoutVictory() {
	traits, title := s.service.VictoryAwards(5, 3, 4)
	s.Empty(traits)
	s.Nil(title)
}

func (s *ProgressionSuite) TestContestTitle() {
	s.random.QueueIntn(4, 5)
	s.Equal("Siege of Null Pointer", s.service.ContestTitle())
}

func (s *ProgressionSuite) TestProfileTraits() {
	traits := s.service.ProfileTraits(map[string]int{
		"dp": 3, "graphs": 5, "arrays": 3, "math": 1, "trees": 2, "strings": 1,
	})
	s.Equal([]string{"graphs", "arrays", "dp", "trees", "math"}, traits)

	s.Empty(s.service.ProfileTraits(nil))
}
