package walk

import "github.com/grailbio/base/errors"

// ErrNumericDegenerate marks a weighting step that produced all-zero or
// non-finite weights. It is never returned to a caller: the traverser
// recovers locally by falling back to uniform weighting and logging the
// occurrence at debug level (spec §7).
var ErrNumericDegenerate = errors.New("walk: degenerate weights")
