package closecode

// fatalCodes are the close codes Discord documents as non-reconnectable:
// the session is unrecoverable and must not be resumed or redialed.
var fatalCodes = map[Type]bool{
	AuthenticationFailed: true,
	InvalidShard:         true,
	ShardingRequired:     true,
	InvalidAPIVersion:    true,
	InvalidIntents:       true,
	DisallowedIntents:    true,
}

// IsFatal reports whether a close code must stop the session outright
// instead of reconnecting.
func IsFatal(code Type) bool {
	return fatalCodes[code]
}

// CanReconnectAfter is the complement of IsFatal: every documented close
// code not listed there is safe to redial after, and an unrecognized code
// is treated as reconnectable by default rather than fatal.
func CanReconnectAfter(code Type) bool {
	return !IsFatal(code)
}
