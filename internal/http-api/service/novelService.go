package service

import (
	"context"
	"errors"
	"strings"

	"github.com/higgsterrier/Novel-Publishing-App/internal/cache"
	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/models"
	"github.com/higgsterrier/Novel-Publishing-App/internal/http-api/repository"

	"gorm.io/gorm"
)

// ChapterInput is one chapter as submitted by the author. Any number the
// client sends along is ignored; positions come from list order.
type ChapterInput struct {
	Title   string
	Content string
}

// NovelInput is the full shape of a novel submission.
type NovelInput struct {
	Title       string
	Synopsis    string
	Genres      []string
	HasChapters bool
	Content     string
	Chapters    []ChapterInput
}

// NovelPatch is a partial update. Nil fields keep the stored value; the
// merged result is re-validated as a whole before anything is written.
type NovelPatch struct {
	Title       *string
	Synopsis    *string
	Genres      []string
	HasChapters *bool
	Content     *string
	Chapters    []ChapterInput
}

type NovelService interface {
	Create(ctx context.Context, authorID string, input NovelInput) (*models.Novel, error)
	GetByID(ctx context.Context, id int64) (*models.Novel, error)
	GetChapter(ctx context.Context, novelID int64, chapterNumber int) (*models.Chapter, error)
	Update(ctx context.Context, novelID int64, callerID string, patch NovelPatch) (*models.Novel, error)
	Delete(ctx context.Context, novelID int64, callerID string) error
	Search(ctx context.Context, filter repository.SearchFilter, page, pageSize int) ([]models.Novel, int64, error)
	ListByAuthor(ctx context.Context, authorID string) ([]models.Novel, error)
	ListGenres(ctx context.Context) ([]models.Genre, error)
}

type novelService struct {
	novelRepo repository.NovelRepository
	genreRepo repository.GenreRepository
	cache     cache.NovelCache
}

func NewNovelService(novelRepo repository.NovelRepository, genreRepo repository.GenreRepository, novelCache cache.NovelCache) NovelService {
	return &novelService{
		novelRepo: novelRepo,
		genreRepo: genreRepo,
		cache:     novelCache,
	}
}

func (s *novelService) Create(ctx context.Context, authorID string, input NovelInput) (*models.Novel, error) {
	normalizeNovelInput(&input)
	if err := validateNovelInput(input); err != nil {
		return nil, err
	}

	genres, err := s.resolveGenres(ctx, input.Genres)
	if err != nil {
		return nil, err
	}

	novel := buildNovel(input)
	novel.AuthorID = authorID
	novel.Genres = genres

	if err := s.novelRepo.Create(ctx, novel); err != nil {
		return nil, err
	}
	// re-fetch so the response carries author and ordered chapters
	return s.novelRepo.GetByID(ctx, novel.ID)
}

func (s *novelService) GetByID(ctx context.Context, id int64) (*models.Novel, error) {
	if s.cache != nil {
		if novel, ok := s.cache.Get(ctx, id); ok {
			return novel, nil
		}
	}

	novel, err := s.novelRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNovelNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, novel)
	}
	return novel, nil
}

// GetChapter returns the chapter at the 1-based position. Chapters are kept
// contiguous 1..N, so position and stored chapter_number agree.
func (s *novelService) GetChapter(ctx context.Context, novelID int64, chapterNumber int) (*models.Chapter, error) {
	novel, err := s.GetByID(ctx, novelID)
	if err != nil {
		return nil, err
	}
	if !novel.HasChapters || chapterNumber < 1 || chapterNumber > len(novel.Chapters) {
		return nil, ErrChapterNotFound
	}
	chapter := novel.Chapters[chapterNumber-1]
	return &chapter, nil
}

func (s *novelService) Update(ctx context.Context, novelID int64, callerID string, patch NovelPatch) (*models.Novel, error) {
	existing, err := s.novelRepo.GetByID(ctx, novelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNovelNotFound
		}
		return nil, err
	}
	if existing.AuthorID != callerID {
		return nil, ErrNotOwner
	}

	merged := mergePatch(existing, patch)
	normalizeNovelInput(&merged)
	if err := validateNovelInput(merged); err != nil {
		return nil, err
	}

	genres, err := s.resolveGenres(ctx, merged.Genres)
	if err != nil {
		return nil, err
	}

	novel := buildNovel(merged)
	novel.ID = existing.ID
	novel.AuthorID = existing.AuthorID
	novel.Genres = genres

	if err := s.novelRepo.Update(ctx, novel); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNovelNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, novelID)
	}
	return s.novelRepo.GetByID(ctx, novelID)
}

func (s *novelService) Delete(ctx context.Context, novelID int64, callerID string) error {
	existing, err := s.novelRepo.GetByID(ctx, novelID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNovelNotFound
		}
		return err
	}
	if existing.AuthorID != callerID {
		return ErrNotOwner
	}

	if err := s.novelRepo.Delete(ctx, novelID); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Invalidate(ctx, novelID)
	}
	return nil
}

func (s *novelService) Search(ctx context.Context, filter repository.SearchFilter, page, pageSize int) ([]models.Novel, int64, error) {
	return s.novelRepo.Search(ctx, filter, page, pageSize)
}

func (s *novelService) ListByAuthor(ctx context.Context, authorID string) ([]models.Novel, error) {
	return s.novelRepo.ListByAuthor(ctx, authorID)
}

func (s *novelService) ListGenres(ctx context.Context) ([]models.Genre, error) {
	return s.genreRepo.GetAll(ctx)
}

// resolveGenres maps names to seeded rows; a name the catalog doesn't carry
// is a validation failure.
func (s *novelService) resolveGenres(ctx context.Context, names []string) ([]models.Genre, error) {
	genres, err := s.genreRepo.FindByNames(ctx, names)
	if err != nil {
		return nil, err
	}
	if len(genres) != len(names) {
		return nil, validationErr("unknown genre in request")
	}
	return genres, nil
}

func normalizeNovelInput(in *NovelInput) {
	in.Title = strings.TrimSpace(in.Title)
	in.Synopsis = strings.TrimSpace(in.Synopsis)
	seen := make(map[string]bool, len(in.Genres))
	genres := in.Genres[:0]
	for _, g := range in.Genres {
		g = strings.ToLower(strings.TrimSpace(g))
		if g == "" || seen[g] {
			continue
		}
		seen[g] = true
		genres = append(genres, g)
	}
	in.Genres = genres
}

func validateNovelInput(in NovelInput) error {
	if in.Title == "" {
		return validationErr("title is required")
	}
	if len(in.Title) > 100 {
		return validationErr("title cannot be more than 100 characters")
	}
	if in.Synopsis == "" {
		return validationErr("synopsis is required")
	}
	if len(in.Synopsis) > 500 {
		return validationErr("synopsis cannot be more than 500 characters")
	}
	if len(in.Genres) == 0 {
		return validationErr("at least one genre is required")
	}
	for _, g := range in.Genres {
		if !models.IsCatalogGenre(g) {
			return validationErr("unknown genre %q", g)
		}
	}

	if in.HasChapters {
		if len(in.Chapters) == 0 {
			return validationErr("at least one chapter is required")
		}
		for i, ch := range in.Chapters {
			if strings.TrimSpace(ch.Title) == "" {
				return validationErr("chapter %d is missing a title", i+1)
			}
			if len(ch.Title) > 200 {
				return validationErr("chapter %d title cannot be more than 200 characters", i+1)
			}
			if strings.TrimSpace(ch.Content) == "" {
				return validationErr("chapter %d is missing content", i+1)
			}
		}
	} else if strings.TrimSpace(in.Content) == "" {
		return validationErr("content is required for non-chaptered novels")
	}
	return nil
}

// buildNovel turns validated input into a model, keeping exactly one content
// shape populated and numbering chapters 1..N from list order.
func buildNovel(in NovelInput) *models.Novel {
	novel := &models.Novel{
		Title:       in.Title,
		Synopsis:    in.Synopsis,
		HasChapters: in.HasChapters,
	}
	if in.HasChapters {
		novel.Chapters = make([]models.Chapter, 0, len(in.Chapters))
		for i, ch := range in.Chapters {
			novel.Chapters = append(novel.Chapters, models.Chapter{
				ChapterNumber: i + 1,
				Title:         strings.TrimSpace(ch.Title),
				Content:       ch.Content,
			})
		}
	} else {
		content := in.Content
		novel.Content = &content
	}
	return novel
}

// mergePatch layers a partial update over the stored novel. When the patch
// flips HasChapters the opposite representation is dropped rather than
// carried over.
func mergePatch(existing *models.Novel, patch NovelPatch) NovelInput {
	merged := NovelInput{
		Title:       existing.Title,
		Synopsis:    existing.Synopsis,
		HasChapters: existing.HasChapters,
	}
	for _, g := range existing.Genres {
		merged.Genres = append(merged.Genres, g.Name)
	}
	if existing.Content != nil {
		merged.Content = *existing.Content
	}
	for _, ch := range existing.Chapters {
		merged.Chapters = append(merged.Chapters, ChapterInput{Title: ch.Title, Content: ch.Content})
	}

	if patch.Title != nil {
		merged.Title = *patch.Title
	}
	if patch.Synopsis != nil {
		merged.Synopsis = *patch.Synopsis
	}
	if patch.Genres != nil {
		merged.Genres = patch.Genres
	}
	if patch.HasChapters != nil {
		merged.HasChapters = *patch.HasChapters
	}
	if patch.Content != nil {
		merged.Content = *patch.Content
	}
	if patch.Chapters != nil {
		merged.Chapters = patch.Chapters
	}

	if merged.HasChapters {
		merged.Content = ""
		if patch.HasChapters != nil && !existing.HasChapters && patch.Chapters == nil {
			// flat -> chaptered with no chapter list supplied
			merged.Chapters = nil
		}
	} else {
		merged.Chapters = nil
		if patch.HasChapters != nil && existing.HasChapters && patch.Content == nil {
			// chaptered -> flat with no content supplied
			merged.Content = ""
		}
	}
	return merged
}
