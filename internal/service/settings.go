package service

import (
	"fmt"
	"sync"

	"fabula-server/internal/model"
)

// Settings — процессные настройки генерации. Единственное разделяемое
// изменяемое состояние: дефолтный уровень сложности. Оркестратор
// снимает значение один раз в начале запроса, поэтому смена уровня
// не затрагивает уже идущие генерации.
type Settings struct {
	mu         sync.RWMutex
	complexity model.ComplexityLevel
}

// NewSettings создает настройки с заданным уровнем по умолчанию.
func NewSettings(defaultComplexity model.ComplexityLevel) *Settings {
	if !defaultComplexity.Valid() {
		defaultComplexity = model.ComplexityStandard
	}
	return &Settings{complexity: defaultComplexity}
}

// Complexity возвращает текущий уровень сложности.
func (s *Settings) Complexity() model.ComplexityLevel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.complexity
}

// SetComplexity меняет процессный уровень сложности. Значение не
// персистится и сбрасывается при рестарте.
func (s *Settings) SetComplexity(level model.ComplexityLevel) error {
	if !level.Valid() {
		return fmt.Errorf("%w: недопустимый уровень сложности '%s'", model.ErrInvalidInput, level)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.complexity = level
	return nil
}
