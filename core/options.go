package core

// transformConfig collects the options shared by mutating operations.
type transformConfig struct {
	inPlace bool
}

// TransformOption configures a transform or slice call.
type TransformOption func(*transformConfig)

// InPlace makes the operation mutate and return the receiver instead of a fresh copy.
func InPlace() TransformOption {
	return func(c *transformConfig) {
		c.inPlace = true
	}
}

func applyTransformOptions(opts []TransformOption) transformConfig {
	var cfg transformConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// clampSpan clamps [start, end) to [0, n) and reports whether the result is non-empty.
func clampSpan(start, end, n int) (int, int, bool) {
	start = max(start, 0)
	end = min(end, n)
	return start, end, start < end
}
