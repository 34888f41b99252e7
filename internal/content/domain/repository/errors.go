package repository

import (
	"errors"
	"fmt"

	sharederrors "welfare-cms/internal/shared/errors"
)

// Repository sentinel errors. Not-found variants wrap the shared ErrNotFound.
var (
	ErrAlbumNotFound      = fmt.Errorf("album: %w", sharederrors.ErrNotFound)
	ErrImageNotFound      = fmt.Errorf("image: %w", sharederrors.ErrNotFound)
	ErrSubmissionNotFound = fmt.Errorf("submission: %w", sharederrors.ErrNotFound)
	ErrAlbumExists        = fmt.Errorf("album: %w", sharederrors.ErrConflict)
	ErrImageExists        = fmt.Errorf("image: %w", sharederrors.ErrConflict)
	ErrCacheMiss          = errors.New("cache miss")
)
