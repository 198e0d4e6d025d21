package model

import "errors"

// Стандартные ошибки уровня приложения.
var (
	// Common Resource/DB Errors
	ErrNotFound        = errors.New("resource not found") // General not found
	ErrStoryNotFound   = errors.New("story not found")
	ErrChapterNotFound = errors.New("chapter not found")

	// Generation Errors
	ErrGenerationFailed = errors.New("generation failed")
	ErrEmptyResponse    = errors.New("provider returned empty response")

	// General Request/Server Errors
	ErrInternalServer = errors.New("internal server error")
	ErrBadRequest     = errors.New("bad request")
	ErrInvalidInput   = errors.New("invalid input data")
)
