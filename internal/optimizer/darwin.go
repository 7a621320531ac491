package optimizer

import "regexp"

// darwin.go implements the Darwin pass (spec §4.8b): Mach-O's C ABI
// prefixes every external symbol with an underscore and renames the entry
// point to _main, and glibc's bare stdin/stdout/stderr globals don't exist
// on macOS — libSystem only exports the GOT-indirect __stdinp/__stdoutp/
// __stderrp pointers.

var (
	reDarwinLabel  = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*):$`)
	reDarwinCall   = regexp.MustCompile(`^(\s*call\s+)([A-Za-z_][A-Za-z0-9_]*)\s*$`)
	reDarwinGlobl  = regexp.MustCompile(`^(\.globl\s+)([A-Za-z_][A-Za-z0-9_]*)\s*$`)
	reDarwinExtern = regexp.MustCompile(`^(\.extern\s+)([A-Za-z_][A-Za-z0-9_]*)\s*$`)
	reDarwinMemRef = regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_]*)\(%rip\)`)
	reStdioStream  = regexp.MustCompile(`\b(stdin|stdout|stderr)\(%rip\)`)
)

var stdioGOT = map[string]string{
	"stdin":  "__stdinp@GOTPCREL(%rip)",
	"stdout": "__stdoutp@GOTPCREL(%rip)",
	"stderr": "__stderrp@GOTPCREL(%rip)",
}

func darwinPrefix(name string) string {
	if name == "" || name[0] == '_' {
		return name
	}

	return "_" + name
}

// DarwinPass rewrites lines for the Mach-O/Darwin symbol and stdio-access
// conventions. It runs after CorePass.
func DarwinPass(lines []string) []string {
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		line = reStdioStream.ReplaceAllStringFunc(line, func(m string) string {
			sub := reStdioStream.FindStringSubmatch(m)
			return stdioGOT[sub[1]]
		})

		if m := reDarwinLabel.FindStringSubmatch(line); m != nil {
			name := m[1]
			if name == "main" {
				name = "_main"
			} else if name[0] != '.' {
				name = darwinPrefix(name)
			}

			out = append(out, name+":")
			continue
		}

		if m := reDarwinCall.FindStringSubmatch(line); m != nil {
			name := m[2]
			if name == "main" {
				name = "_main"
			} else {
				name = darwinPrefix(name)
			}

			out = append(out, m[1]+name)
			continue
		}

		if m := reDarwinGlobl.FindStringSubmatch(line); m != nil {
			name := m[2]
			if name == "main" {
				name = "_main"
			} else {
				name = darwinPrefix(name)
			}

			out = append(out, m[1]+name)
			continue
		}

		if m := reDarwinExtern.FindStringSubmatch(line); m != nil {
			out = append(out, m[1]+darwinPrefix(m[2]))
			continue
		}

		line = reDarwinMemRef.ReplaceAllStringFunc(line, func(m string) string {
			sub := reDarwinMemRef.FindStringSubmatch(m)
			// GOTPCREL is the relocation suffix of an already rewritten
			// stdio access (__stdinp@GOTPCREL(%rip)), not a symbol.
			if sub[1][0] == '.' || sub[1] == "GOTPCREL" {
				return m
			}

			return darwinPrefix(sub[1]) + "(%rip)"
		})

		out = append(out, line)
	}

	return out
}
