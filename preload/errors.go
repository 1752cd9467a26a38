package preload

import "errors"

// ErrInvalidArgument is returned synchronously by Preload when it is called
// without a completion callback or without a fetcher. No load is started.
var ErrInvalidArgument = errors.New("preload: invalid argument")
