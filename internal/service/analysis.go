package service

import (
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/ricardo-pereira-dev/mathlab-enhanced/internal/domain"
)

// topicCatalog holds the pt-PT curriculum topics the mock analyzer samples
// from, per grade.
var topicCatalog = map[domain.Grade][]string{
	domain.Grade7: {
		"Números racionais",
		"Equações do 1.º grau",
		"Proporcionalidade direta",
		"Figuras geométricas",
		"Percentagens",
	},
	domain.Grade8: {
		"Teorema de Pitágoras",
		"Equações literais",
		"Funções lineares",
		"Monómios e polinómios",
		"Vetores e translações",
	},
	domain.Grade9: {
		"Equações do 2.º grau",
		"Probabilidades",
		"Trigonometria",
		"Inequações",
		"Circunferência",
	},
}

var difficulties = []domain.Difficulty{
	domain.DifficultyEasy,
	domain.DifficultyMedium,
	domain.DifficultyHard,
}

// Analyzer generates the mocked per-file analysis. The randomness source
// is injected so tests can seed it.
type Analyzer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewAnalyzer(rng *rand.Rand) *Analyzer {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Analyzer{rng: rng}
}

// Analyze produces one result for a completed file: two or three topics
// sampled from the grade's catalog, a uniform difficulty, and an exercise
// count between 5 and 20.
func (a *Analyzer) Analyze(f *domain.StagedFile, grade domain.Grade) *domain.AnalysisResult {
	a.mu.Lock()
	defer a.mu.Unlock()

	catalog, ok := topicCatalog[grade]
	if !ok {
		catalog = topicCatalog[domain.DefaultGrade]
	}

	shuffled := make([]string, len(catalog))
	copy(shuffled, catalog)
	a.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	topics := shuffled[:2+a.rng.Intn(2)]

	difficulty := difficulties[a.rng.Intn(len(difficulties))]
	count := 5 + a.rng.Intn(16)

	summary := fmt.Sprintf(
		"O ficheiro %q contém %d exercícios de matemática do %s sobre %s. Nível de dificuldade: %s.",
		f.Name, count, grade, strings.Join(topics, ", "), difficulty,
	)

	suggestions := []string{
		fmt.Sprintf("Revê a matéria de %s antes de resolveres os exercícios.", topics[0]),
		"Usa o chat para tirar dúvidas sobre os exercícios que não conseguires resolver.",
	}
	if difficulty == domain.DifficultyHard {
		suggestions = append(suggestions, "Começa pelos exercícios mais simples para ganhares confiança.")
	}

	return &domain.AnalysisResult{
		FileID:        f.ID,
		Topics:        topics,
		Difficulty:    difficulty,
		ExerciseCount: count,
		Summary:       summary,
		Suggestions:   suggestions,
	}
}
