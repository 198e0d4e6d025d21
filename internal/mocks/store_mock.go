package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"fabula-server/internal/model"
	"fabula-server/internal/repository"
)

// MockStore is a mock type for the repository.Store type
type MockStore struct {
	mock.Mock
}

// GetStory provides a mock function with given fields: ctx, id
func (_m *MockStore) GetStory(ctx context.Context, id uuid.UUID) (*model.Story, error) {
	ret := _m.Called(ctx, id)

	var r0 *model.Story
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Story)
	}

	return r0, ret.Error(1)
}

// GetCharacters provides a mock function with given fields: ctx, storyID
func (_m *MockStore) GetCharacters(ctx context.Context, storyID uuid.UUID) ([]model.Character, error) {
	ret := _m.Called(ctx, storyID)

	var r0 []model.Character
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.Character)
	}

	return r0, ret.Error(1)
}

// GetWorldElements provides a mock function with given fields: ctx, storyID
func (_m *MockStore) GetWorldElements(ctx context.Context, storyID uuid.UUID) ([]model.WorldElement, error) {
	ret := _m.Called(ctx, storyID)

	var r0 []model.WorldElement
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.WorldElement)
	}

	return r0, ret.Error(1)
}

// GetChapters provides a mock function with given fields: ctx, storyID
func (_m *MockStore) GetChapters(ctx context.Context, storyID uuid.UUID) ([]model.Chapter, error) {
	ret := _m.Called(ctx, storyID)

	var r0 []model.Chapter
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.Chapter)
	}

	return r0, ret.Error(1)
}

// GetChapter provides a mock function with given fields: ctx, storyID, number
func (_m *MockStore) GetChapter(ctx context.Context, storyID uuid.UUID, number int) (*model.Chapter, error) {
	ret := _m.Called(ctx, storyID, number)

	var r0 *model.Chapter
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*model.Chapter)
	}

	return r0, ret.Error(1)
}

// UpdateChapterContent provides a mock function with given fields: ctx, storyID, number, content, wordCount
func (_m *MockStore) UpdateChapterContent(ctx context.Context, storyID uuid.UUID, number int, content string, wordCount int) error {
	ret := _m.Called(ctx, storyID, number, content, wordCount)
	return ret.Error(0)
}

// ReplaceOutline provides a mock function with given fields: ctx, storyID, chapters
func (_m *MockStore) ReplaceOutline(ctx context.Context, storyID uuid.UUID, chapters []model.Chapter) error {
	ret := _m.Called(ctx, storyID, chapters)
	return ret.Error(0)
}

// CreateCharacters provides a mock function with given fields: ctx, characters
func (_m *MockStore) CreateCharacters(ctx context.Context, characters []model.Character) error {
	ret := _m.Called(ctx, characters)
	return ret.Error(0)
}

// CreateWorldElements provides a mock function with given fields: ctx, elements
func (_m *MockStore) CreateWorldElements(ctx context.Context, elements []model.WorldElement) error {
	ret := _m.Called(ctx, elements)
	return ret.Error(0)
}

// NewMockStore creates a new instance of MockStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockStore(t interface {
	mock.TestingT
	Cleanup(func())
	Helper()
}) *MockStore {
	m := &MockStore{}
	m.Mock.Test(t)
	t.Helper()
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

var _ repository.Store = (*MockStore)(nil)
