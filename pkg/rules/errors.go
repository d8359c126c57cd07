package rules

import "errors"

// ErrNoMatch is returned when no rule applies to a type. A registry built
// through New always carries a universal fallback, so callers should only
// see this when resolving against a hand-assembled registry.
var ErrNoMatch = errors.New("rules: no template rule matches type")

// ErrAmbiguous signals that two rules tied at identical specificity and
// registration order. The tie-break rules make this unreachable for a
// well-formed registry; it indicates registry corruption and is not
// recoverable.
var ErrAmbiguous = errors.New("rules: ambiguous template rules")
