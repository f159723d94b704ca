package stringql

import (
	"fmt"
	"strconv"
	"strings"
)

// program is a compiled statement: the text rewritten to PostgreSQL $N
// placeholders plus, for each placeholder, where its argument comes from.
// Programs are pure and safe to share between goroutines.
type program struct {
	sql string
	// slots has one entry per distinct $N placeholder, in numbering order.
	// A named slot draws from a mapping payload, an unnamed one from the
	// sequence payload at the recorded index.
	slots []argSlot
	// positional is the number of %s markers seen.
	positional int
}

type argSlot struct {
	name  string
	index int
}

// compile scans the statement for %s and %(name)s markers and rewrites them
// to $1..$n. A %% escape collapses to a literal percent. Repeated %(name)s
// markers share one placeholder number. Any other use of a percent, and any
// malformed %(... marker, is left untouched.
func compile(statement string) *program {
	p := &program{}
	runes := []rune(statement)
	rlen := len(runes)
	var builder strings.Builder
	builder.Grow(rlen)
	lastPos := 0
	purge := func(pos int) {
		if pos > lastPos {
			builder.WriteString(string(runes[lastPos:pos]))
		}
	}
	getNamed := func(pos int) (string, int, bool) {
		// pos sits on '('; the name runs to the matching ')s'
		end := -1
		for j := pos + 1; j < rlen; j++ {
			if runes[j] == ')' {
				end = j
				break
			}
		}
		if end <= pos+1 || end+1 >= rlen || runes[end+1] != 's' {
			return "", 0, false
		}
		return string(runes[pos+1 : end]), end + 1 - pos, true
	}
	named := map[string]int{}
	for pos := 0; pos < rlen-1; pos++ {
		if runes[pos] != '%' {
			continue
		}
		switch runes[pos+1] {
		case '%':
			// escaped percent
			purge(pos)
			builder.WriteByte('%')
			pos++
			lastPos = pos + 1
		case 's':
			purge(pos)
			p.positional++
			p.slots = append(p.slots, argSlot{index: p.positional - 1})
			builder.WriteString("$" + strconv.Itoa(len(p.slots)))
			pos++
			lastPos = pos + 1
		case '(':
			name, skip, ok := getNamed(pos + 1)
			if !ok {
				continue
			}
			purge(pos)
			slot, seen := named[name]
			if !seen {
				p.slots = append(p.slots, argSlot{name: name, index: -1})
				slot = len(p.slots)
				named[name] = slot
			}
			builder.WriteString("$" + strconv.Itoa(slot))
			pos += skip + 1
			lastPos = pos + 1
		}
	}
	purge(rlen)
	p.sql = builder.String()
	return p
}

// args resolves the placeholder arguments from the payload, in placeholder
// order.
//
// Positional slots need a sequence payload and named slots a mapping
// payload; a payload of the wrong shape is ErrWrongDataArgumentType and a
// member count that does not line up is ErrWrongNumberOfPlaceholders. An
// absent payload binds nothing, leaving any placeholders for the database
// to complain about.
func (p *program) args(pl payload) ([]any, error) {
	if len(p.slots) == 0 || pl.kind == payloadNone {
		return nil, nil
	}
	if p.positional > 0 && pl.kind == payloadSequence && len(pl.seq) > p.positional {
		return nil, fmt.Errorf("statement has %d positional markers but payload has %d members: %w",
			p.positional, len(pl.seq), ErrWrongNumberOfPlaceholders)
	}
	out := make([]any, len(p.slots))
	for i, slot := range p.slots {
		if slot.name == "" {
			if pl.kind != payloadSequence {
				return nil, fmt.Errorf("positional markers need a sequence payload: %w", ErrWrongDataArgumentType)
			}
			if slot.index >= len(pl.seq) {
				return nil, fmt.Errorf("statement has %d positional markers but payload has %d members: %w",
					p.positional, len(pl.seq), ErrWrongNumberOfPlaceholders)
			}
			out[i] = pl.seq[slot.index]
			continue
		}
		if pl.kind != payloadMapping {
			return nil, fmt.Errorf("named marker %%(%s)s needs a mapping payload: %w", slot.name, ErrWrongDataArgumentType)
		}
		v, ok := pl.vals[slot.name]
		if !ok {
			return nil, fmt.Errorf("no payload member for marker %%(%s)s: %w", slot.name, ErrWrongNumberOfPlaceholders)
		}
		out[i] = v
	}
	return out, nil
}

// PlaceholderCount reports how many placeholders the statement binds: the
// number of %s markers plus the number of distinct %(name)s markers. A %%
// escape does not count.
func PlaceholderCount(statement string) int {
	return len(compile(statement).slots)
}
