// Package diagnostics holds MeowLang's error catalog and formatter.
//
// Every user-visible failure - lexical, syntactic, or at runtime - is
// keyed by a stable Code (E001-E999, grouped by subsystem per
// spec.md §7) and carries both a technical message and a friendlier
// "playful" one, plus a suggestion for fixing it. Diagnostic is the value
// produced at the failure site; Format renders it with source context,
// the way the teacher's internal/errors.CompilerError does.
package diagnostics

// Severity is the "griffure" (claw) tier shown next to a diagnostic.
type Severity string

const (
	Low    Severity = "low"
	Medium Severity = "medium"
	High   Severity = "high"
)

// Code identifies a catalog entry, e.g. "E501".
type Code string

// Structure errors: E000-E099
const (
	ErrMissingMiaou Code = "E001"
	ErrMissingMeow  Code = "E002"
	ErrEmptyBlock   Code = "E003"
)

// Syntax errors: E100-E199
const (
	ErrUnexpectedToken   Code = "E100"
	ErrMixedIndentation  Code = "E101"
	ErrBadDedent         Code = "E102"
	ErrUnterminatedStr   Code = "E103"
	ErrMissingColon      Code = "E104"
	ErrMissingDelimiter  Code = "E105"
	ErrInvalidAssignment Code = "E106"
)

// Name/type resolution errors: E200-E299
const (
	ErrUndefinedName  Code = "E201"
	ErrNotCallable    Code = "E202"
	ErrNotIndexable   Code = "E203"
	ErrNoAttribute    Code = "E204"
	ErrImmutableKey   Code = "E205"
	ErrIndexOutOfSync Code = "E206"
)

// Condition errors: E300-E399
const (
	ErrNonBooleanCondition Code = "E301"
)

// Loop errors: E400-E499
const (
	ErrBreakOutsideLoop    Code = "E401"
	ErrContinueOutsideLoop Code = "E402"
)

// Arithmetic errors: E500-E599
const (
	ErrDivisionByZero     Code = "E501"
	ErrUncomparableTypes  Code = "E502"
	ErrInvalidRepeatCount Code = "E503"
	ErrNotNumeric         Code = "E504"
)

// Function errors: E600-E699
const (
	ErrArityMismatch     Code = "E601"
	ErrReturnOutsideFunc Code = "E602"
)

// Collection errors: E700-E799
const (
	ErrNotIterable     Code = "E701"
	ErrIndexOutOfRange Code = "E702"
	ErrUnhashableKey   Code = "E703"
)

// I/O errors: E800-E899
const (
	ErrFileOpen Code = "E801"
	ErrFileIO   Code = "E802"
	ErrFileMode Code = "E803"
)

// Critical errors: E900-E999
const (
	ErrModuleNotFound Code = "E901"
	ErrModuleCycle    Code = "E902"
	ErrInternal       Code = "E999"
)

// Entry is one catalog row: everything needed to render a diagnostic
// except the specific position and source it occurred at.
type Entry struct {
	Severity   Severity
	TypeName   string
	Technical  string
	Playful    string
	Suggestion string
	Example    string
}

// Catalog maps every known Code to its Entry. It is populated once at
// package init and never mutated afterward.
var Catalog = map[Code]Entry{
	ErrMissingMiaou: {
		Severity:   High,
		TypeName:   "Structure",
		Technical:  "program does not begin with the required MIAOU marker",
		Playful:    "Ce chat n'a pas encore ronronné ! Un programme MeowLang doit commencer par MIAOU.",
		Suggestion: "Add `miaou` as the very first line of the file.",
		Example:    "miaou\n    ecrire \"bonjour\"\nmeow",
	},
	ErrMissingMeow: {
		Severity:   High,
		TypeName:   "Structure",
		Technical:  "program does not end with the required MEOW marker",
		Playful:    "Ce chat n'a pas fini de miauler ! Il manque le MEOW final.",
		Suggestion: "Add `meow` as the last line of the file.",
		Example:    "miaou\n    ecrire \"bonjour\"\nmeow",
	},
	ErrEmptyBlock: {
		Severity:   Medium,
		TypeName:   "Structure",
		Technical:  "block has no statements",
		Playful:    "Une case vide ? Même un chat a besoin de quelque chose à faire ici.",
		Suggestion: "Add at least one statement inside the block, or remove the block entirely.",
	},
	ErrUnexpectedToken: {
		Severity:   High,
		TypeName:   "Syntax",
		Technical:  "unexpected token %s",
		Playful:    "Ce mot a fait fuir le chat. Il ne s'attendait pas à ça ici.",
		Suggestion: "Check the token before this position; expected one of: %s.",
	},
	ErrMixedIndentation: {
		Severity:   High,
		TypeName:   "Syntax",
		Technical:  "indentation mixes tabs and spaces",
		Playful:    "Le chat marche sur des tabulations ET des espaces, il trébuche.",
		Suggestion: "Use either tabs or spaces for indentation, never both on the same line.",
	},
	ErrBadDedent: {
		Severity:   High,
		TypeName:   "Syntax",
		Technical:  "unindent does not match any outer indentation level",
		Playful:    "Le chat a sauté trop loin en arrière et a raté la marche.",
		Suggestion: "Align this line with one of the enclosing block's indentation widths.",
	},
	ErrUnterminatedStr: {
		Severity:   High,
		TypeName:   "Syntax",
		Technical:  "unterminated string literal",
		Playful:    "Cette phrase n'a jamais trouvé son guillemet fermant.",
		Suggestion: "Add a closing `\"` to the string.",
	},
	ErrMissingColon: {
		Severity:   Medium,
		TypeName:   "Syntax",
		Technical:  "expected ':' before block",
		Playful:    "Le chat attend les deux points avant de s'installer dans le bloc.",
		Suggestion: "Add a `:` at the end of this line before the indented block.",
	},
	ErrMissingDelimiter: {
		Severity:   Medium,
		TypeName:   "Syntax",
		Technical:  "expected closing %s",
		Playful:    "Le chat a laissé une porte ouverte quelque part.",
		Suggestion: "Add the missing closing delimiter.",
	},
	ErrInvalidAssignment: {
		Severity:   Medium,
		TypeName:   "Syntax",
		Technical:  "invalid assignment target",
		Playful:    "On ne peut pas donner une valeur à ça, le chat refuse.",
		Suggestion: "Assign to an identifier, an index expression, or an attribute.",
	},
	ErrUndefinedName: {
		Severity:   High,
		TypeName:   "NameResolution",
		Technical:  "undefined name %q",
		Playful:    "Le chat cherche %q partout mais ne le trouve nulle part.",
		Suggestion: "Define %q before using it, or check for a typo.",
	},
	ErrNotCallable: {
		Severity:   High,
		TypeName:   "NameResolution",
		Technical:  "value of type %s is not callable",
		Playful:    "Ce chat ne sait pas faire ça, ce n'est pas une fonction.",
		Suggestion: "Only functions and native callables can be called with (...).",
	},
	ErrNotIndexable: {
		Severity:   High,
		TypeName:   "NameResolution",
		Technical:  "value of type %s cannot be indexed",
		Playful:    "Le chat ne peut pas fouiller là-dedans, ce n'est ni une liste ni un dictionnaire.",
		Suggestion: "Indexing with [ ] only works on lists, dicts, and text.",
	},
	ErrNoAttribute: {
		Severity:   High,
		TypeName:   "NameResolution",
		Technical:  "module has no member %q",
		Playful:    "Le chat a fouillé le module entier et n'a pas trouvé %q.",
		Suggestion: "Check the module's top-level bindings for the correct name.",
	},
	ErrImmutableKey: {
		Severity:   Medium,
		TypeName:   "NameResolution",
		Technical:  "value of type %s cannot be used as a dict key",
		Playful:    "Ce genre de valeur ne peut pas servir d'étiquette dans le dictionnaire du chat.",
		Suggestion: "Dict keys must be text, a number, or a boolean.",
	},
	ErrIndexOutOfSync: {
		Severity:   Medium,
		TypeName:   "NameResolution",
		Technical:  "internal indexing error",
		Playful:    "Le chat s'est emmêlé les pattes.",
		Suggestion: "This should not happen; please report it.",
	},
	ErrNonBooleanCondition: {
		Severity:   Low,
		TypeName:   "Condition",
		Technical:  "condition evaluated with implicit truthiness",
		Playful:    "Le chat a décidé tout seul si c'était vrai ou faux.",
		Suggestion: "This is informational only - MeowLang coerces any value to a boolean.",
	},
	ErrBreakOutsideLoop: {
		Severity:   High,
		TypeName:   "Loop",
		Technical:  "'arrete' used outside of a loop",
		Playful:    "Le chat veut s'arrêter, mais il ne court nulle part.",
		Suggestion: "Use `arrete` only inside `tant que`, `repeter`, or `pour chaque`.",
	},
	ErrContinueOutsideLoop: {
		Severity:   High,
		TypeName:   "Loop",
		Technical:  "'continue' used outside of a loop",
		Playful:    "Le chat veut continuer, mais il n'a rien commencé.",
		Suggestion: "Use `continue` only inside `tant que`, `repeter`, or `pour chaque`.",
	},
	ErrDivisionByZero: {
		Severity:   High,
		TypeName:   "Arithmetic",
		Technical:  "division by zero",
		Playful:    "Même un chat sait qu'on ne divise pas par zéro souris.",
		Suggestion: "Check the divisor before dividing, or wrap the operation in `essayer`/`sauf`.",
	},
	ErrUncomparableTypes: {
		Severity:   Medium,
		TypeName:   "Arithmetic",
		Technical:  "cannot compare %s and %s with %s",
		Playful:    "Le chat ne sait pas lequel est le plus grand entre ça et ça.",
		Suggestion: "Ordering comparisons (< <= > >=) only work between two numbers or two texts.",
	},
	ErrInvalidRepeatCount: {
		Severity:   Medium,
		TypeName:   "Arithmetic",
		Technical:  "repeat count must be a non-negative number, got %s",
		Playful:    "Le chat ne sait pas combien de fois sauter avec ce chiffre.",
		Suggestion: "Use a non-negative number as the repeat count.",
	},
	ErrNotNumeric: {
		Severity:   Medium,
		TypeName:   "Arithmetic",
		Technical:  "operator %s requires numeric operands, got %s",
		Playful:    "Le chat a besoin de vrais nombres pour faire ce calcul.",
		Suggestion: "Convert the operand to a number first.",
	},
	ErrArityMismatch: {
		Severity:   High,
		TypeName:   "Function",
		Technical:  "function %s expects %d argument(s), got %d",
		Playful:    "Le chat compte sur ses pattes et ça ne tombe pas juste.",
		Suggestion: "Check the function definition for its parameter list.",
	},
	ErrReturnOutsideFunc: {
		Severity:   High,
		TypeName:   "Function",
		Technical:  "'retour' used outside of a function",
		Playful:    "Le chat veut rentrer à la maison, mais il n'est pas sorti d'une fonction.",
		Suggestion: "Use `retour` only inside a `fonction` body.",
	},
	ErrNotIterable: {
		Severity:   High,
		TypeName:   "Collection",
		Technical:  "value of type %s is not iterable",
		Playful:    "Le chat ne peut pas se promener là-dedans.",
		Suggestion: "`pour chaque` works over a list, a dict (its keys), or text (its characters).",
	},
	ErrIndexOutOfRange: {
		Severity:   Medium,
		TypeName:   "Collection",
		Technical:  "index %s out of range for %s of length %d",
		Playful:    "Le chat a sauté hors de la liste.",
		Suggestion: "Check the index is between 0 and length - 1.",
	},
	ErrUnhashableKey: {
		Severity:   Medium,
		TypeName:   "Collection",
		Technical:  "key of type %s is not hashable",
		Playful:    "Cette clé glisse entre les griffes du chat.",
		Suggestion: "Use text, a number, or a boolean as a dict key.",
	},
	ErrFileOpen: {
		Severity:   High,
		TypeName:   "IO",
		Technical:  "could not open %q: %s",
		Playful:    "Le chat a gratté à la porte du fichier mais elle ne s'est pas ouverte.",
		Suggestion: "Check the path and the file mode.",
	},
	ErrFileIO: {
		Severity:   High,
		TypeName:   "IO",
		Technical:  "I/O error on %q: %s",
		Playful:    "Le chat a renversé quelque chose en lisant ce fichier.",
		Suggestion: "Check that the file is still open and readable.",
	},
	ErrFileMode: {
		Severity:   Medium,
		TypeName:   "IO",
		Technical:  "invalid file mode %q",
		Playful:    "Ce mode de fichier n'existe pas dans le dictionnaire du chat.",
		Suggestion: "Use one of: \"lecture\", \"ecriture\", \"ajout\".",
	},
	ErrModuleNotFound: {
		Severity:   High,
		TypeName:   "Critical",
		Technical:  "module %q not found",
		Playful:    "Le chat a cherché ce module dans toute la maison, en vain.",
		Suggestion: "Check the module name and MEOWLANG_PATH.",
	},
	ErrModuleCycle: {
		Severity:   High,
		TypeName:   "Critical",
		Technical:  "module %q is already being loaded (circular import)",
		Playful:    "Le chat tourne en rond en essayant de charger ce module.",
		Suggestion: "Break the import cycle between these modules.",
	},
	ErrInternal: {
		Severity:   High,
		TypeName:   "Critical",
		Technical:  "internal error: %s",
		Playful:    "Le chat a fait une bêtise inattendue.",
		Suggestion: "This should not happen; please report it.",
	},
}

// moodEmoji maps severity to the emoji the formatter prints.
var moodEmoji = map[Severity]string{
	Low:    "🐾",
	Medium: "😾",
	High:   "🙀",
}
