//go:build asn1_trace

package asn1codec

import "os"

/*
trace_on.go is compiled in only under the asn1_trace build tag, the same
opt-in tracing posture the teacher uses (trc_on.go/trc_off.go, gated on
asn1_debug). It prints to stderr; nothing allocates or is called at all
unless the tag is set.
*/

func traceEnter(args ...any) { traceLine("ENTER", args...) }
func traceExit(args ...any)  { traceLine("EXIT", args...) }
func traceBits(args ...any)  { traceLine("BITS", args...) }
func traceField(args ...any) { traceLine("FIELD", args...) }

func traceLine(tag string, args ...any) {
	os.Stderr.WriteString("[" + tag + "] ")
	for i, a := range args {
		if i > 0 {
			os.Stderr.WriteString(" ")
		}
		os.Stderr.WriteString(sprintf("%v", a))
	}
	os.Stderr.WriteString("\n")
}
