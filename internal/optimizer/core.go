package optimizer

import (
	"regexp"
	"strings"
)

// core.go implements the generic pass (spec §4.8a): it tracks, across a
// straight-line run of instructions, which symbol's value (if any) a
// register currently mirrors and which register's value (if any) a memory
// symbol currently mirrors, and rewrites:
//
//   - mov %r, %r (a tautology) is dropped;
//   - mov sym(%rip), %r is rewritten to mov %r', %r when r' is already
//     known to hold sym's value;
//   - after mov %r, sym(%rip), sym is remembered to equal r;
//   - an ALU write to r forgets r and any memory alias claiming to equal r.
//
// Tracking resets at labels, calls, rets, and any instruction touching
// %rsp or whose operands this pass doesn't recognize, since any of those
// can invalidate assumptions it can't otherwise verify.

var (
	reLabel    = regexp.MustCompile(`^[A-Za-z_.][A-Za-z0-9_.]*:$`)
	reCall     = regexp.MustCompile(`^call\b`)
	reRet      = regexp.MustCompile(`^ret\b`)
	reRspTouch = regexp.MustCompile(`%rsp\b|^(push|pop|leave)`)
	reMovReg   = regexp.MustCompile(`^mov[qlwb]?\s+(%[a-z0-9]+),\s*(%[a-z0-9]+)$`)
	reMovLoad  = regexp.MustCompile(`^mov(sd)?q?\s+([A-Za-z_.][A-Za-z0-9_.]*)\(%rip\),\s*(%[a-z0-9]+)$`)
	reMovStore = regexp.MustCompile(`^mov(sd)?q?\s+(%[a-z0-9]+),\s*([A-Za-z_.][A-Za-z0-9_.]*)\(%rip\)$`)
	reMovImm   = regexp.MustCompile(`^mov[qlwb]?\s+\$[^,]+,\s*(%[a-z0-9]+)$`)
	reALUWrite = regexp.MustCompile(`^(add|sub|imul|and|or|xor|neg|not|shl|shr|sar)[qlwb]?\s+.*,\s*(%[a-z0-9]+)$`)
	reALUUnary = regexp.MustCompile(`^(neg|not)[qlwb]?\s+(%[a-z0-9]+)$`)
)

type coreState struct {
	regSym map[string]string // register -> symbol it currently mirrors
	symReg map[string]string // symbol -> register currently holding its value
}

func newCoreState() *coreState {
	return &coreState{regSym: make(map[string]string), symReg: make(map[string]string)}
}

func (s *coreState) reset() {
	s.regSym = make(map[string]string)
	s.symReg = make(map[string]string)
}

// forgetReg invalidates everything this pass knows about r: its own
// tracked symbol, and any memory alias that claimed to equal it.
func (s *coreState) forgetReg(r string) {
	delete(s.regSym, r)

	for sym, reg := range s.symReg {
		if reg == r {
			delete(s.symReg, sym)
		}
	}
}

// CorePass runs the generic register/memory-alias rewrites over lines.
func CorePass(lines []string) []string {
	st := newCoreState()
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]

		switch {
		case trimmed == "":
			out = append(out, line)
			continue
		case reLabel.MatchString(trimmed):
			st.reset()
			out = append(out, line)
			continue
		case reCall.MatchString(trimmed), reRet.MatchString(trimmed):
			st.reset()
			out = append(out, line)
			continue
		case reRspTouch.MatchString(trimmed):
			st.reset()
			out = append(out, line)
			continue
		}

		if m := reMovReg.FindStringSubmatch(trimmed); m != nil {
			src, dst := m[1], m[2]
			if src == dst {
				continue // drop tautology
			}

			sym, tracked := st.regSym[src]
			st.forgetReg(dst)

			if tracked {
				st.regSym[dst] = sym
			}

			out = append(out, line)
			continue
		}

		if m := reMovLoad.FindStringSubmatch(trimmed); m != nil {
			sym, dst := m[2], m[3]

			if reg, ok := st.symReg[sym]; ok && reg != dst {
				mnem := strings.Fields(trimmed)[0]
				out = append(out, indent+mnem+" "+reg+", "+dst)
				st.forgetReg(dst)
				st.regSym[dst] = sym
				st.symReg[sym] = dst
				continue
			}

			st.forgetReg(dst)
			st.regSym[dst] = sym
			st.symReg[sym] = dst
			out = append(out, line)
			continue
		}

		if m := reMovStore.FindStringSubmatch(trimmed); m != nil {
			src, sym := m[2], m[3]
			st.symReg[sym] = src
			out = append(out, line)
			continue
		}

		if m := reMovImm.FindStringSubmatch(trimmed); m != nil {
			st.forgetReg(m[1])
			out = append(out, line)
			continue
		}

		if m := reALUUnary.FindStringSubmatch(trimmed); m != nil {
			st.forgetReg(m[2])
			out = append(out, line)
			continue
		}

		if m := reALUWrite.FindStringSubmatch(trimmed); m != nil {
			st.forgetReg(m[2])
			out = append(out, line)
			continue
		}

		// Unrecognized instruction shape: flush tracking, since we can't
		// verify it doesn't touch a register or memory symbol we're
		// tracking.
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") && !strings.HasPrefix(trimmed, ".") {
			st.reset()
		}

		out = append(out, line)
	}

	return out
}
