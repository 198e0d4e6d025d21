package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"fabula-server/internal/model"
)

// generateChapterRequest — тело запроса генерации главы. Квалити-гейт
// включен по умолчанию, выключается явно.
type generateChapterRequest struct {
	TargetWordCount     int      `json:"target_word_count"`
	QualityCheckEnabled *bool    `json:"quality_check_enabled"`
	CustomPrompt        string   `json:"custom_prompt"`
	ComplexityLevel     string   `json:"complexity_level"`
	Feedback            []string `json:"feedback"`
}

func (r generateChapterRequest) toModel(mode model.GenerationMode) model.GenerationRequest {
	qualityCheck := true
	if r.QualityCheckEnabled != nil {
		qualityCheck = *r.QualityCheckEnabled
	}
	return model.GenerationRequest{
		TargetWordCount:     r.TargetWordCount,
		QualityCheckEnabled: qualityCheck,
		CustomPrompt:        r.CustomPrompt,
		ComplexityLevel:     model.ComplexityLevel(r.ComplexityLevel),
		Mode:                mode,
		Feedback:            r.Feedback,
	}
}

// storyIDFromPath извлекает идентификатор истории из пути.
func storyIDFromPath(c *gin.Context, logger *zap.Logger) (uuid.UUID, bool) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		logger.Warn("Invalid story ID format", zap.String("id", idStr), zap.Error(err))
		handleServiceError(c, fmt.Errorf("%w: invalid story ID format", model.ErrBadRequest), logger)
		return uuid.Nil, false
	}
	return id, true
}

// chapterNumberFromPath извлекает номер главы из пути.
func chapterNumberFromPath(c *gin.Context, logger *zap.Logger) (int, bool) {
	numberStr := c.Param("number")
	number, err := strconv.Atoi(numberStr)
	if err != nil || number < 1 {
		logger.Warn("Invalid chapter number", zap.String("number", numberStr))
		handleServiceError(c, fmt.Errorf("%w: invalid chapter number", model.ErrBadRequest), logger)
		return 0, false
	}
	return number, true
}

// bindOptionalJSON разбирает тело запроса, трактуя пустое тело как
// запрос по умолчанию.
func bindOptionalJSON(c *gin.Context, dst any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	return c.ShouldBindJSON(dst)
}

// applyChapterQueryParams накладывает query-параметры поверх тела запроса.
func applyChapterQueryParams(c *gin.Context, req *generateChapterRequest, logger *zap.Logger) bool {
	if raw := c.Query("target_word_count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			handleServiceError(c, fmt.Errorf("%w: invalid 'target_word_count' parameter", model.ErrBadRequest), logger)
			return false
		}
		req.TargetWordCount = parsed
	}
	if raw := c.Query("quality_check"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			handleServiceError(c, fmt.Errorf("%w: invalid 'quality_check' parameter", model.ErrBadRequest), logger)
			return false
		}
		req.QualityCheckEnabled = &parsed
	}
	return true
}

type generateOutlineRequest struct {
	TargetChapters int `json:"target_chapters"`
}

// generateOutline генерирует план истории и заменяет несгенерированные главы.
func (h *GenerationHandler) generateOutline(c *gin.Context) {
	storyID, ok := storyIDFromPath(c, h.logger)
	if !ok {
		return
	}

	var req generateOutlineRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.logger.Warn("Invalid request body for generateOutline", zap.Error(err))
		handleServiceError(c, model.ErrBadRequest, h.logger)
		return
	}

	chapters, err := h.orchestrator.GenerateOutline(c.Request.Context(), storyID, req.TargetChapters)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"chapters": chapters})
}

type generateBatchRequest struct {
	Count int `json:"count"`
}

// generateCharacters генерирует пакет персонажей истории.
func (h *GenerationHandler) generateCharacters(c *gin.Context) {
	storyID, ok := storyIDFromPath(c, h.logger)
	if !ok {
		return
	}

	var req generateBatchRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.logger.Warn("Invalid request body for generateCharacters", zap.Error(err))
		handleServiceError(c, model.ErrBadRequest, h.logger)
		return
	}

	characters, err := h.orchestrator.GenerateCharacters(c.Request.Context(), storyID, req.Count)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"characters": characters})
}

// generateWorldElements генерирует пакет элементов мира истории.
func (h *GenerationHandler) generateWorldElements(c *gin.Context) {
	storyID, ok := storyIDFromPath(c, h.logger)
	if !ok {
		return
	}

	var req generateBatchRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.logger.Warn("Invalid request body for generateWorldElements", zap.Error(err))
		handleServiceError(c, model.ErrBadRequest, h.logger)
		return
	}

	elements, err := h.orchestrator.GenerateWorldElements(c.Request.Context(), storyID, req.Count)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"world_elements": elements})
}

// generateChapter генерирует главу в режиме single-pass. С параметром
// ?stream=true ответ отдаётся потоком SSE без квалити-гейта и без
// сохранения: клиент сам решает, что делать с частичным текстом.
func (h *GenerationHandler) generateChapter(c *gin.Context) {
	h.runChapterGeneration(c, model.ModeSinglePass)
}

// generateChapterMultiPass генерирует главу трёхпроходным конвейером.
func (h *GenerationHandler) generateChapterMultiPass(c *gin.Context) {
	h.runChapterGeneration(c, model.ModeMultiPass)
}

// regenerateChapter перегенерирует главу с учетом фидбека из тела запроса.
func (h *GenerationHandler) regenerateChapter(c *gin.Context) {
	storyID, ok := storyIDFromPath(c, h.logger)
	if !ok {
		return
	}
	number, ok := chapterNumberFromPath(c, h.logger)
	if !ok {
		return
	}

	var req generateChapterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body for regenerateChapter", zap.Error(err))
		handleServiceError(c, model.ErrBadRequest, h.logger)
		return
	}
	if len(req.Feedback) == 0 {
		handleServiceError(c, fmt.Errorf("%w: feedback is required", model.ErrBadRequest), h.logger)
		return
	}

	h.generateAndPersist(c, storyID, number, req.toModel(model.ModeSinglePass))
}

func (h *GenerationHandler) runChapterGeneration(c *gin.Context, mode model.GenerationMode) {
	storyID, ok := storyIDFromPath(c, h.logger)
	if !ok {
		return
	}
	number, ok := chapterNumberFromPath(c, h.logger)
	if !ok {
		return
	}

	var req generateChapterRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		h.logger.Warn("Invalid request body for generateChapter", zap.Error(err))
		handleServiceError(c, model.ErrBadRequest, h.logger)
		return
	}
	if !applyChapterQueryParams(c, &req, h.logger) {
		return
	}

	if strings.EqualFold(c.Query("stream"), "true") {
		if mode == model.ModeMultiPass {
			handleServiceError(c, fmt.Errorf("%w: streaming is not supported for multi-pass mode", model.ErrBadRequest), h.logger)
			return
		}
		h.streamChapter(c, storyID, number, req.toModel(mode))
		return
	}

	h.generateAndPersist(c, storyID, number, req.toModel(mode))
}

// generateAndPersist выполняет генерацию и сохраняет контент главы.
// Результат с предупреждением о недостигнутом пороге — всё равно успех.
func (h *GenerationHandler) generateAndPersist(c *gin.Context, storyID uuid.UUID, number int, req model.GenerationRequest) {
	result, err := h.orchestrator.GenerateChapter(c.Request.Context(), storyID, number, req)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}

	if err := h.store.UpdateChapterContent(c.Request.Context(), storyID, number, result.Text, result.WordCount); err != nil {
		h.logger.Error("Ошибка сохранения контента главы",
			zap.String("story_id", storyID.String()),
			zap.Int("chapter", number),
			zap.Error(err))
		handleServiceError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, result)
}

// streamChapter отдаёт фрагменты генерации потоком SSE. Разрыв соединения
// отменяет контекст запроса и останавливает провайдера.
func (h *GenerationHandler) streamChapter(c *gin.Context, storyID uuid.UUID, number int, req model.GenerationRequest) {
	fragments, err := h.orchestrator.GenerateChapterStream(c.Request.Context(), storyID, number, req)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		fragment, open := <-fragments
		if !open {
			c.SSEvent("done", "")
			return false
		}
		if fragment.Err != nil {
			h.logger.Error("Ошибка потоковой генерации", zap.Error(fragment.Err))
			c.SSEvent("error", fragment.Err.Error())
			return false
		}
		c.SSEvent("chunk", fragment.Text)
		return true
	})
}

// analyzeChapterQuality оценивает сохранённый текст главы без генерации.
func (h *GenerationHandler) analyzeChapterQuality(c *gin.Context) {
	storyID, ok := storyIDFromPath(c, h.logger)
	if !ok {
		return
	}
	number, ok := chapterNumberFromPath(c, h.logger)
	if !ok {
		return
	}

	targetWordCount := 0
	if raw := c.Query("target_word_count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			handleServiceError(c, fmt.Errorf("%w: invalid 'target_word_count' parameter", model.ErrBadRequest), h.logger)
			return
		}
		targetWordCount = parsed
	}

	report, err := h.orchestrator.AnalyzeChapterQuality(c.Request.Context(), storyID, number, targetWordCount)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, report)
}

type editTextRequest struct {
	Text        string `json:"text" binding:"required"`
	Instruction string `json:"instruction" binding:"required"`
	Context     string `json:"context"`
}

// editText редактирует произвольный текст по инструкции.
func (h *GenerationHandler) editText(c *gin.Context) {
	var req editTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body for editText", zap.Error(err))
		handleServiceError(c, model.ErrBadRequest, h.logger)
		return
	}

	result, err := h.orchestrator.EditText(c.Request.Context(), req.Text, req.Instruction, req.Context)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, result)
}

type sophisticateTextRequest struct {
	Text  string `json:"text" binding:"required"`
	Focus string `json:"focus"`
}

// sophisticateText стилистически усложняет произвольный текст.
func (h *GenerationHandler) sophisticateText(c *gin.Context) {
	var req sophisticateTextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body for sophisticateText", zap.Error(err))
		handleServiceError(c, model.ErrBadRequest, h.logger)
		return
	}

	focus := model.FocusArea(req.Focus)
	if req.Focus == "" {
		focus = model.FocusGeneral
	}

	result, err := h.orchestrator.SophisticateText(c.Request.Context(), req.Text, focus)
	if err != nil {
		handleServiceError(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, result)
}
