// Package matching ищет возможные пары между потерянными и найденными вещами.
//
// Фильтр двухступенчатый: сначала структурные поля (вид, категория, место),
// затем пересечение слов длиннее трёх символов в заголовке и описании.
// Ранжирования нет, результат - неупорядоченный набор кандидатов.
package matching

import (
	"context"
	"strings"
	"unicode/utf8"

	"LostFound/internal/metrics"
	"LostFound/internal/model"

	"go.uber.org/zap"
)

// MinKeywordLen - слова такой длины и короче не участвуют в сравнении.
const MinKeywordLen = 3

// CandidateSource отдаёт объявления заданного вида и категории.
type CandidateSource interface {
	ListByKindAndCategory(ctx context.Context, kind model.ItemKind, category string) ([]model.Item, error)
}

// Engine подбирает кандидатов из противоположной коллекции.
type Engine struct {
	source CandidateSource
	logger *zap.SugaredLogger
}

// NewEngine создаёт движок сопоставления.
func NewEngine(source CandidateSource, logger *zap.SugaredLogger) *Engine {
	return &Engine{source: source, logger: logger}
}

// Match возвращает кандидатов для объявления. Ошибки хранилища не пробрасываются:
// сопоставление best-effort и не должно ломать основную запись.
func (e *Engine) Match(ctx context.Context, item *model.Item) []model.Item {
	if item == nil || e == nil || e.source == nil {
		return []model.Item{}
	}
	pool, err := e.source.ListByKindAndCategory(ctx, item.Kind.Opposite(), item.Category)
	if err != nil {
		e.logger.Warnw("Match: candidate lookup failed", "item_id", item.ID, "kind", item.Kind, "error", err)
		return []model.Item{}
	}

	out := make([]model.Item, 0, len(pool))
	for i := range pool {
		if Matches(item, &pool[i]) {
			out = append(out, pool[i])
		}
	}
	metrics.MatchCandidates.Observe(float64(len(out)))
	e.logger.Debugw("Match: done", "item_id", item.ID, "pool", len(pool), "matches", len(out))
	return out
}

// Matches - полный предикат для пары объявлений. Он симметричен: Matches(a, b) == Matches(b, a).
func Matches(source, candidate *model.Item) bool {
	if source == nil || candidate == nil {
		return false
	}
	if source.Kind == candidate.Kind {
		return false
	}
	if source.Category != candidate.Category {
		return false
	}
	if !LocationMatches(source.Location, candidate.Location) {
		return false
	}
	return SharesKeyword(itemText(source), itemText(candidate))
}

// LocationMatches сравнивает места без учёта регистра: одно должно содержаться в другом
// ("Gym" и "Gym Entrance" совпадают). Пустое место совпадает с любым.
func LocationMatches(a, b string) bool {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// Keywords разбивает текст по пробелам и оставляет слова длиннее MinKeywordLen в нижнем регистре.
func Keywords(text string) map[string]struct{} {
	words := strings.Fields(strings.ToLower(text))
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		if utf8.RuneCountInString(w) > MinKeywordLen {
			set[w] = struct{}{}
		}
	}
	return set
}

// SharesKeyword - есть ли у двух текстов хотя бы одно общее значимое слово.
func SharesKeyword(a, b string) bool {
	ka, kb := Keywords(a), Keywords(b)
	if len(kb) < len(ka) {
		ka, kb = kb, ka
	}
	for w := range ka {
		if _, ok := kb[w]; ok {
			return true
		}
	}
	return false
}

func itemText(it *model.Item) string {
	return it.Title + " " + it.Description
}
