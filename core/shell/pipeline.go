package shell

// Split breaks tokens into pipeline stages on "|". The operator itself is
// dropped and empty stages are discarded, so "a || b" and "| a" both yield
// the stages you'd expect from a single pipe.
func Split(tokens []string) [][]string {
	var stages [][]string
	var current []string

	for _, token := range tokens {
		if token != OpPipe {
			current = append(current, token)
			continue
		}

		if len(current) > 0 {
			stages = append(stages, current)
			current = nil
		}
	}

	if len(current) > 0 {
		stages = append(stages, current)
	}

	return stages
}

// SplitBackground strips a trailing standalone "&" from the tokens and
// reports whether one was present.
func SplitBackground(tokens []string) ([]string, bool) {
	if n := len(tokens); n > 0 && tokens[n-1] == OpBackground {
		return tokens[:n-1], true
	}
	return tokens, false
}
