package optimizer

import "regexp"

// win64pass.go implements the Win64 pass (spec §4.8c): the code generator
// wraps every call needing extra stack space in its own sub/add %rsp pair
// (internal/codegen/win64's withShadowSpace), so adjacent calls produce
// "add $N,%rsp" immediately followed by "sub $N,%rsp" with the same N —
// a no-op the generator has no cross-call visibility to avoid emitting
// itself.

var (
	reSubRsp = regexp.MustCompile(`^(\s*)subq \$(\d+), %rsp$`)
	reAddRsp = regexp.MustCompile(`^(\s*)addq \$(\d+), %rsp$`)
)

// Win64Pass collapses immediately-adjacent add/sub %rsp pairs with equal
// operands. It runs after CorePass.
func Win64Pass(lines []string) []string {
	out := make([]string, 0, len(lines))

	for i := 0; i < len(lines); i++ {
		if i+1 < len(lines) {
			add := reAddRsp.FindStringSubmatch(lines[i])
			sub := reSubRsp.FindStringSubmatch(lines[i+1])

			if add != nil && sub != nil && add[2] == sub[2] {
				i++ // drop both lines
				continue
			}
		}

		out = append(out, lines[i])
	}

	return out
}
