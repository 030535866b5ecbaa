package l10n

import "errors"

var (
	ErrInvalidTag        = errors.New("l10n: invalid language tag")
	ErrInvalidFile       = errors.New("l10n: invalid translation file")
	ErrUnsupportedFormat = errors.New("l10n: unsupported translation file format")
	ErrUnsupportedValue  = errors.New("l10n: unsupported value type")
	ErrInvalidPattern    = errors.New("l10n: invalid file pattern")
)
