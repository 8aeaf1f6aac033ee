package util

import "errors"

var (
	ErrPermissionDenied     = errors.New("permission denied")
	ErrDraftNotFound        = errors.New("draft not found")
	ErrPageNotFound         = errors.New("page not found")
	ErrContentNotFound      = errors.New("content not found")
	ErrNoQuestionInProgress = errors.New("no question in progress")
	ErrQuestionInProgress   = errors.New("a question is already being edited")
	ErrImageTooLarge        = errors.New("image exceeds the size limit")
	ErrUnsupportedImage     = errors.New("unsupported image type")
	ErrActionRejected       = errors.New("action rejected")
)
