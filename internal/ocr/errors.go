package ocr

import "errors"

var (
	ErrRecognitionFailed = errors.New("text recognition failed")
	ErrEmptyText         = errors.New("no text recognized")
)
