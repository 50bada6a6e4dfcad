package domain

import "errors"

var (
	ErrNotFound             = errors.New("resource not found")
	ErrSessionNotFound      = errors.New("session not found")
	ErrFileNotFound         = errors.New("file not found")
	ErrFieldNotFound        = errors.New("field not found")
	ErrUnsupportedFileType  = errors.New("unsupported file type")
	ErrFileTooLarge         = errors.New("file exceeds maximum allowed size")
	ErrTooManyFiles         = errors.New("too many files in session")
	ErrNoSourceDocuments    = errors.New("no source documents to extract from")
	ErrNoTemplate           = errors.New("no template uploaded")
	ErrNoExtractionResult   = errors.New("no extraction result yet")
	ErrExtractionInProgress = errors.New("extraction already in progress")
	ErrExtractionFailed     = errors.New("extraction failed")
	ErrInvalidRecord        = errors.New("invalid extraction record")

	ErrInvalidTemplateFormat = errors.New("invalid template format")
	ErrUnresolvedPlaceholder = errors.New("unresolved placeholder")
	ErrRenderFailure         = errors.New("template render failure")

	ErrStorageDisabled  = errors.New("template storage is disabled")
	ErrTemplateNotFound = errors.New("template not found")
	ErrUploadFailed     = errors.New("file upload to storage failed")
)
