package generator

import "github.com/grailbio/base/errors"

// ErrBudgetExhausted is informational (spec §7): workers could no longer
// produce a valid walk within a bounded number of attempts. The driver
// still returns whatever unique walks it collected.
var ErrBudgetExhausted = errors.New("generator: budget exhausted before num_search was reached")
