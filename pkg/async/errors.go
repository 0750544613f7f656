package async

import "errors"

var (
	ErrTimeout   = errors.New("async: operation timed out waiting for future completion")
	ErrNilFuture = errors.New("async: nil future passed to WaitAll")
)
