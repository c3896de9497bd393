package rag

import "errors"

// ErrEmptyContent is returned when the pipeline is invoked with blank text.
var ErrEmptyContent = errors.New("thought content is empty")
