package usecase

import (
	"context"
	"time"

	"welfare-cms/internal/content/domain/model"
	"welfare-cms/internal/content/domain/repository"
	"welfare-cms/internal/content/domain/service"
	"welfare-cms/internal/shared/eventbus"
	"welfare-cms/internal/shared/logger"

	"github.com/google/uuid"
)

// ContentUsecaseInterface defines the contract for site content operations
type ContentUsecaseInterface interface {
	// Content documents
	GetDocument(ctx context.Context, domain model.Domain) (model.Fields, error)
	SaveDocument(ctx context.Context, domain model.Domain, fields model.Fields, mode model.WriteMode) error

	// Submission log
	SubmitContact(ctx context.Context, in model.SubmissionInput) (*model.Submission, error)
	ImportSubmissions(ctx context.Context, in []model.SubmissionInput) ([]model.Submission, error)
	ListSubmissions(ctx context.Context) ([]model.Submission, error)
	DeleteSubmission(ctx context.Context, id string) error
	DeleteSubmissionByTimestamp(ctx context.Context, submittedAt string) (string, error)

	// Gallery
	GetGallery(ctx context.Context) (*model.Gallery, error)
	GetAlbum(ctx context.Context, albumID string) (*model.AlbumWithImages, error)
	CreateAlbum(ctx context.Context, req CreateAlbumRequest) (*model.Album, error)
	DeleteAlbum(ctx context.Context, albumID string) (int, error)
	AddImage(ctx context.Context, req ImageRequest) (*model.Image, error)
	UpdateImage(ctx context.Context, req ImageRequest) (*model.Image, error)
	DeleteImage(ctx context.Context, imageID string) error
	ReplaceGallery(ctx context.Context, gallery *model.Gallery) error

	// Change log
	RecentChanges(ctx context.Context, limit int) ([]model.ChangeEntry, error)
}

// Dependencies groups what ContentUsecase needs. Cache, ChangeLog, Bus and
// SubmissionRule are optional.
type Dependencies struct {
	Documents      repository.DocumentStore
	Submissions    repository.SubmissionRepository
	Gallery        repository.GalleryRepository
	Cache          repository.ContentCache
	ChangeLog      repository.ChangeLog
	Bus            eventbus.EventBusInterface
	SubmissionRule *service.SubmissionRule
	CacheTTL       time.Duration
	Logger         logger.Logger
}

// ContentUsecase implements the content read/merge/write contract, the
// submission log and gallery management.
type ContentUsecase struct {
	documents   repository.DocumentStore
	submissions repository.SubmissionRepository
	gallery     repository.GalleryRepository
	changeLog   repository.ChangeLog
	bus         eventbus.EventBusInterface
	rule        *service.SubmissionRule
	cache       *readCache
	logger      logger.Logger

	now   func() time.Time
	newID func() string
}

// NewContentUsecase wires a ContentUsecase from its dependencies
func NewContentUsecase(deps Dependencies) *ContentUsecase {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	log = log.WithComponent("content-usecase")

	return &ContentUsecase{
		documents:   deps.Documents,
		submissions: deps.Submissions,
		gallery:     deps.Gallery,
		changeLog:   deps.ChangeLog,
		bus:         deps.Bus,
		rule:        deps.SubmissionRule,
		cache:       newReadCache(deps.Cache, deps.CacheTTL, log),
		logger:      log,
		now:         func() time.Time { return time.Now().UTC() },
		newID:       uuid.NewString,
	}
}

var _ ContentUsecaseInterface = (*ContentUsecase)(nil)
