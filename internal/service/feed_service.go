package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"microblog/internal/config"
	"microblog/internal/models"
	"microblog/internal/repository"
)

const maxPostLength = 140

// maxPageNumber ограничивает ?page=, чтобы смещение не переполнило int;
// страницы за концом ленты и так пустые
const maxPageNumber = 1_000_000

// Page - страница ленты с признаками соседних страниц
type Page struct {
	Posts   []models.Post
	HasNext bool
	HasPrev bool
}

type FeedService struct {
	postRepo  repository.PostRepository
	imageRepo repository.ImageRepository
	storage   repository.Storage
	cfg       *config.Config
	log       *zap.Logger
}

func NewFeedService(postRepo repository.PostRepository, imageRepo repository.ImageRepository, storage repository.Storage, cfg *config.Config, log *zap.Logger) *FeedService {
	return &FeedService{
		postRepo:  postRepo,
		imageRepo: imageRepo,
		storage:   storage,
		cfg:       cfg,
		log:       log,
	}
}

func (s *FeedService) CreatePost(ctx context.Context, authorID int64, body string) (*models.Post, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("пост не может быть пустым: %w", ErrValidation)
	}
	if utf8.RuneCountInString(body) > maxPostLength {
		return nil, fmt.Errorf("пост длиннее %d символов: %w", maxPostLength, ErrValidation)
	}

	post := &models.Post{
		AuthorID: authorID,
		Body:     body,
	}

	err := s.postRepo.Create(ctx, post)
	if err != nil {
		return nil, err
	}

	return post, nil
}

// AttachImage загружает вложение в объектное хранилище и привязывает его к посту
func (s *FeedService) AttachImage(ctx context.Context, postID int64, fileName string, file io.Reader, size int64) (*models.Image, error) {
	objectName, imageURL, err := s.storage.UploadImage(ctx, postID, fileName, file, size)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки изображения в MinIO: %w", err)
	}

	image := &models.Image{
		PostID:    postID,
		ImageURL:  imageURL,
		CreatedAt: time.Now().UTC(),
	}

	err = s.imageRepo.Create(ctx, image)
	if err != nil {
		// объект уже в хранилище; неудачный откат оставляет сироту в MinIO
		if delErr := s.storage.DeleteImage(ctx, objectName); delErr != nil {
			s.log.Error("не удалось удалить объект после ошибки БД",
				zap.String("object", objectName),
				zap.Error(delErr))
		}
		return nil, fmt.Errorf("ошибка сохранения изображения в БД: %w", err)
	}

	return image, nil
}

// FeedFor возвращает страницу собственных постов пользователя и постов его
// подписок, новые выше. Страницы нумеруются с 1; за границей - пустая страница.
func (s *FeedService) FeedFor(ctx context.Context, userID int64, page, pageSize int) (*Page, error) {
	return s.paginate(page, pageSize, func(limit, offset int) ([]models.Post, error) {
		return s.postRepo.Feed(ctx, userID, limit, offset)
	}, ctx)
}

// Explore - глобальная лента всех постов
func (s *FeedService) Explore(ctx context.Context, page, pageSize int) (*Page, error) {
	return s.paginate(page, pageSize, func(limit, offset int) ([]models.Post, error) {
		return s.postRepo.All(ctx, limit, offset)
	}, ctx)
}

// PostsBy - посты одного автора для страницы профиля
func (s *FeedService) PostsBy(ctx context.Context, authorID int64, page, pageSize int) (*Page, error) {
	return s.paginate(page, pageSize, func(limit, offset int) ([]models.Post, error) {
		return s.postRepo.ByAuthor(ctx, authorID, limit, offset)
	}, ctx)
}

// paginate запрашивает pageSize+1 строк: лишняя строка означает, что
// существует следующая страница
func (s *FeedService) paginate(page, pageSize int, fetch func(limit, offset int) ([]models.Post, error), ctx context.Context) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if page > maxPageNumber {
		page = maxPageNumber
	}
	if pageSize < 1 {
		pageSize = s.cfg.PostsPerPage
	}

	posts, err := fetch(pageSize+1, (page-1)*pageSize)
	if err != nil {
		return nil, err
	}

	hasNext := len(posts) > pageSize
	if hasNext {
		posts = posts[:pageSize]
	}

	if err := s.loadImages(ctx, posts); err != nil {
		return nil, err
	}

	return &Page{
		Posts:   posts,
		HasNext: hasNext,
		HasPrev: page > 1,
	}, nil
}

func (s *FeedService) loadImages(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(posts))
	for i := range posts {
		ids = append(ids, posts[i].ID)
	}

	images, err := s.imageRepo.GetByPostIDs(ctx, ids)
	if err != nil {
		return err
	}

	byPost := make(map[int64][]models.Image, len(images))
	for _, img := range images {
		byPost[img.PostID] = append(byPost[img.PostID], img)
	}

	for i := range posts {
		posts[i].Images = byPost[posts[i].ID]
	}

	return nil
}
