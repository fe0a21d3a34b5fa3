// Package argsplit divides a command line into the part meant for cargo and
// the part forwarded verbatim to rr.
package argsplit

// Delimiter separates cargo arguments from rr arguments.
const Delimiter = "--"

// Split is the result of dividing a raw argument list at a delimiter.
type Split struct {
	Primary   []string
	Secondary []string
	// Delimited reports whether the delimiter occurred at all. A trailing
	// delimiter leaves Secondary empty but still sets Delimited.
	Delimited bool
	delim     string
}

// Args splits raw at the first "--".
func Args(raw []string) Split {
	return At(raw, Delimiter)
}

// At splits raw at the first occurrence of delim. Later occurrences belong
// to Secondary unchanged.
func At(raw []string, delim string) Split {
	for i, arg := range raw {
		if arg == delim {
			return Split{
				Primary:   clone(raw[:i]),
				Secondary: clone(raw[i+1:]),
				Delimited: true,
				delim:     delim,
			}
		}
	}
	return Split{Primary: clone(raw), Secondary: []string{}, delim: delim}
}

// Join reassembles the original argument list.
func (s Split) Join() []string {
	out := make([]string, 0, len(s.Primary)+len(s.Secondary)+1)
	out = append(out, s.Primary...)
	if s.Delimited {
		out = append(out, s.delim)
	}
	return append(out, s.Secondary...)
}

func clone(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	return out
}
