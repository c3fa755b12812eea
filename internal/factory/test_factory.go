package factory

import (
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mcoot/circle-go/internal/dependencies/mocks"
	"github.com/mcoot/circle-go/internal/model"
	"github.com/mcoot/circle-go/internal/services/auth"
	"github.com/mcoot/circle-go/internal/storage/memory"
	"github.com/mcoot/circle-go/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	authCfg := auth.DefaultConfig()
	authCfg.BcryptCost = bcrypt.MinCost

	app := newWithDependencies(store, mockClock, mockRandom, authCfg, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
	}
}

// LoadTestCatalog loads a small catalog. Every problem rated around the
// starting rating is in catalog order so the mock random picks the first four.
func (t *TestApp) LoadTestCatalog() {
	t.CatalogService.LoadProblems([]model.Question{
		{ID: "1A", Name: "Theatre Square", Source: "codeforces", URL: "https://codeforces.com/problemset/problem/1/A", InternalRating: 30, Topic: "math", Tags: []string{"math"}},
		{ID: "4A", Name: "Watermelon", Source: "codeforces", URL: "https://codeforces.com/problemset/problem/4/A", InternalRating: 31, Topic: "brute force", Tags: []string{"brute force", "math"}},
		{ID: "71A", Name: "Way Too Long Words", Source: "codeforces", URL: "https://codeforces.com/problemset/problem/71/A", InternalRating: 33, Topic: "strings", Tags: []string{"strings"}},
		{ID: "158A", Name: "Next Round", Source: "codeforces", URL: "https://codeforces.com/problemset/problem/158/A", InternalRating: 36, Topic: "implementation", Tags: []string{"implementation"}},
		{ID: "231A", Name: "Team", Source: "codeforces", URL: "https://codeforces.com/problemset/problem/231/A", InternalRating: 38, Topic: "greedy", Tags: []string{"greedy"}},
		{ID: "282A", Name: "Bit++", Source: "codeforces", URL: "https://codeforces.com/problemset/problem/282/A", InternalRating: 42, Topic: "implementation", Tags: []string{"implementation"}},
		{ID: "50A", Name: "Domino piling", Source: "codeforces", URL: "https://codeforces.com/problemset/problem/50/A", InternalRating: 45, Topic: "greedy", Tags: []string{"greedy", "math"}},
		{ID: "118A", Name: "String Task", Source: "codeforces", URL: "https://codeforces.com/problemset/problem/118/A", InternalRating: 47, Topic: "strings", Tags: []string{"strings"}},
		{ID: "112A", Name: "Petya and Strings", Source: "codeforces", URL: "https://codeforces.com/problemset/problem/112/A", InternalRating: 49, Topic: "strings", Tags: []string{"strings"}},
	})
}
