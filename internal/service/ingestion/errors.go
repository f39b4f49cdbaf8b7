package ingestion

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField = errors.New("url, filename, and ownerId are required")
	ErrDownload     = errors.New("download failed")
	ErrEmptyContent = errors.New("no text content found in file")
)

type Stage string

const (
	StageValidate Stage = "validate"
	StageDownload Stage = "download"
	StageExtract  Stage = "extract"
	StageChunk    Stage = "chunk"
	StageEncode   Stage = "encode"
	StageStore    Stage = "store"
)

// StageError names the pipeline stage a run failed in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func fail(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}
