package diagnostics

import (
	"fmt"
	"strings"

	"github.com/arockenbauer/MeowLang/pkg/token"
)

// Diagnostic is a single reported failure: a catalog Code, the
// position it occurred at, the arguments to format the catalog's
// message templates with, and the instruction name in effect (e.g.
// "si", "repeter") when known.
type Diagnostic struct {
	Code        Code
	Pos         token.Position
	File        string
	Instruction string
	Args        []any
	// Synthetic marks a diagnostic whose Pos does not correspond to
	// real source text (e.g. an error raised by a native builtin with
	// no originating token). The formatter omits the context excerpt
	// for these.
	Synthetic bool
}

// New builds a Diagnostic for code at pos, with no extra formatting args.
func New(code Code, pos token.Position) *Diagnostic {
	return &Diagnostic{Code: code, Pos: pos}
}

// Newf builds a Diagnostic whose catalog message template is formatted
// with args.
func Newf(code Code, pos token.Position, args ...any) *Diagnostic {
	return &Diagnostic{Code: code, Pos: pos, Args: args}
}

// WithInstruction attaches the name of the statement/expression kind
// being evaluated when the diagnostic fired, and returns the receiver
// for chaining.
func (d *Diagnostic) WithInstruction(name string) *Diagnostic {
	d.Instruction = name
	return d
}

// WithFile attaches the originating file path, and returns the
// receiver for chaining.
func (d *Diagnostic) WithFile(file string) *Diagnostic {
	d.File = file
	return d
}

// entry looks up the catalog row for d's code, falling back to a
// generic internal-error row if the code is somehow unregistered.
func (d *Diagnostic) entry() Entry {
	if e, ok := Catalog[d.Code]; ok {
		return e
	}
	return Entry{
		Severity:  High,
		TypeName:  "Unknown",
		Technical: "unrecognized diagnostic code",
		Playful:   "Le chat ne reconnaît pas ce message d'erreur.",
	}
}

// Technical renders the catalog's technical message template with d's
// arguments.
func (d *Diagnostic) Technical() string {
	return fmt.Sprintf(d.entry().Technical, d.Args...)
}

// Playful renders the catalog's friendlier message template. Most
// playful templates take no arguments; ones that do (ErrUndefinedName)
// reuse the same Args slice.
func (d *Diagnostic) Playful() string {
	e := d.entry()
	if !strings.Contains(e.Playful, "%") {
		return e.Playful
	}
	return fmt.Sprintf(e.Playful, d.Args...)
}

// Error implements the error interface so a Diagnostic can be returned
// and compared anywhere Go expects an error.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("[%s] %s at %s", d.Code, d.Technical(), d.Pos)
}

// Format renders a full diagnostic report: banner, location, the
// instruction in effect, both messages, a source excerpt with a caret,
// a mood emoji, and the suggestion - matching the stable layout §6
// documents. source may be empty, in which case the context excerpt is
// omitted (used for synthetic positions too).
func Format(d *Diagnostic, source string) string {
	e := d.entry()
	var sb strings.Builder

	fmt.Fprintf(&sb, "[%s] %s Griffure\n", d.Code, capitalize(string(e.Severity)))
	if d.File != "" {
		fmt.Fprintf(&sb, "Fichier  : %s\n", d.File)
	}
	fmt.Fprintf(&sb, "Ligne    : %d\n", d.Pos.Line)
	fmt.Fprintf(&sb, "Colonne  : %d\n", d.Pos.Column)
	if d.Instruction != "" {
		fmt.Fprintf(&sb, "Instruction : %s\n", d.Instruction)
	}
	fmt.Fprintf(&sb, "Type     : %s\n", e.TypeName)
	fmt.Fprintf(&sb, "%s\n", d.Technical())
	fmt.Fprintf(&sb, "%s\n", d.Playful())

	if !d.Synthetic && source != "" {
		if excerpt := contextExcerpt(source, d.Pos, 2); excerpt != "" {
			sb.WriteString(excerpt)
		}
	}

	fmt.Fprintf(&sb, "%s\n", moodEmoji[e.Severity])
	fmt.Fprintf(&sb, "Suggestion : %s\n", e.Suggestion)
	if e.Example != "" {
		fmt.Fprintf(&sb, "Exemple :\n%s\n", e.Example)
	}

	return sb.String()
}

// contextExcerpt renders up to `before` preceding lines, the offending
// line itself, and a caret under the offending column.
func contextExcerpt(source string, pos token.Position, before int) string {
	lines := strings.Split(source, "\n")
	if pos.Line < 1 || pos.Line > len(lines) {
		return ""
	}

	start := pos.Line - before
	if start < 1 {
		start = 1
	}

	var sb strings.Builder
	for n := start; n <= pos.Line; n++ {
		fmt.Fprintf(&sb, "%4d | %s\n", n, lines[n-1])
		if n == pos.Line {
			col := pos.Column
			if col < 1 {
				col = 1
			}
			sb.WriteString(strings.Repeat(" ", 7+col-1))
			sb.WriteString("^\n")
		}
	}
	return sb.String()
}

// capitalize upper-cases the first rune; severity strings are plain
// ASCII words ("low", "medium", "high") so a byte-level tweak suffices.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// FormatAll renders multiple diagnostics, each with its own banner,
// separated and counted the way the teacher's errors.FormatErrors does
// for multi-error reports.
func FormatAll(diags []*Diagnostic, source string) string {
	if len(diags) == 0 {
		return ""
	}
	if len(diags) == 1 {
		return Format(diags[0], source)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d erreurs trouvées :\n\n", len(diags))
	for i, d := range diags {
		fmt.Fprintf(&sb, "[Erreur %d sur %d]\n", i+1, len(diags))
		sb.WriteString(Format(d, source))
		if i < len(diags)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
