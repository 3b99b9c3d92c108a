package utils

import "errors"

var (
	ErrorRecordNotFound = errors.New("record not found")

	// ErrorCacheUnavailable marks auxiliary cache failures. The cache is
	// best-effort: this error is never retried and never escalates into the
	// order/report request path.
	ErrorCacheUnavailable = errors.New("auxiliary cache unavailable")
)

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
