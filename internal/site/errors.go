package site

import "errors"

// ErrRegistryClosed is returned by Get after Close.
var ErrRegistryClosed = errors.New("site: registry closed")
