package interp

// format.go implements spec §4.4.1's printf-style formatting for
// `print`/`string_print`: %d/%lld, %u, %x/%X, %o, %f/%.Nf/%e/%g, %s, %c, %p,
// with flags/width/precision passed through to the host formatter (Go's fmt,
// whose numeric/string verb syntax is a superset of the C subset the spec
// names) and length modifiers (h, l, ll, ...) accepted and dropped. Fewer arguments than conversions leaves the
// remaining specifiers in the output literally, without consuming or
// crashing on a short argument vector (spec §8 boundary behavior).

import (
	"fmt"
	"strings"

	"github.com/lostjared/MXVM-sub000/internal/mxvm"
)

const lengthModifiers = "hlLqjzt"

// sprintf renders fmtStr against args using printf conventions.
func sprintf(fmtStr string, args []mxvm.Value) string {
	var out strings.Builder

	ai := 0

	i := 0
	for i < len(fmtStr) {
		c := fmtStr[i]
		if c != '%' {
			out.WriteByte(c)
			i++

			continue
		}

		spec, verb, width, consumed := parseConversion(fmtStr[i:])

		if verb == '%' {
			out.WriteByte('%')
			i += consumed

			continue
		}

		if verb == 0 || ai >= len(args) {
			// Unknown conversion, or ran out of arguments: emit literally.
			out.WriteString(fmtStr[i : i+consumed])
			i += consumed

			continue
		}

		out.WriteString(renderConversion(spec, verb, width, args[ai]))
		ai++
		i += consumed
	}

	return out.String()
}

// parseConversion parses one `%...letter` conversion starting at s[0]=='%'.
// It returns the flags+width+precision prefix (without the verb letter), the
// resolved verb letter (0 if the conversion is malformed), an advisory
// width (for %c/%p convenience; 0 if none) and the number of bytes consumed.
func parseConversion(s string) (spec string, verb byte, width int, consumed int) {
	i := 1 // skip '%'

	start := i

	for i < len(s) && strings.IndexByte("-+0 #", s[i]) >= 0 {
		i++
	}

	widthStart := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}

	if i > widthStart {
		fmt.Sscanf(s[widthStart:i], "%d", &width)
	}

	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}

	// Length modifiers are accepted and dropped: Go's verbs take their
	// operand size from the argument, not from the format string.
	lenStart := i
	for i < len(s) && strings.IndexByte(lengthModifiers, s[i]) >= 0 {
		i++
	}

	if i >= len(s) {
		return "", 0, 0, len(s)
	}

	verb = s[i]
	spec = "%" + s[start:lenStart]

	return spec, verb, width, i + 1
}

func renderConversion(spec string, verb byte, width int, v mxvm.Value) string {
	switch verb {
	case 'd', 'i':
		return fmt.Sprintf(spec+"d", v.Int())
	case 'u':
		return fmt.Sprintf(spec+"d", uint64(v.Int()))
	case 'x':
		return fmt.Sprintf(spec+"x", uint64(v.Int()))
	case 'X':
		return fmt.Sprintf(spec+"X", uint64(v.Int()))
	case 'o':
		return fmt.Sprintf(spec+"o", uint64(v.Int()))
	case 'f', 'F', 'e', 'E', 'g', 'G':
		return fmt.Sprintf(spec+string(verb), v.Float())
	case 's':
		return fmt.Sprintf(spec+"s", v.String())
	case 'c':
		return fmt.Sprintf(spec+"c", rune(v.Int()))
	case 'p':
		return fmt.Sprintf("%#x", uint64(v.Int()))
	default:
		return spec + string(verb)
	}
}
