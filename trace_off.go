//go:build !asn1_trace

package asn1codec

func traceEnter(_ ...any)            {}
func traceExit(_ ...any)              {}
func traceBits(_ ...any)              {}
func traceField(_ ...any)             {}
