package assemble

import (
	"golang.org/x/text/language"
)

// messages holds the text templates for one language.
type messages struct {
	// conditional explains a guarded edge: condition, then destination.
	conditional string

	// otherwise explains the unguarded edge of a branching page.
	otherwise string

	// and and or join the clauses of a compound condition.
	and string
	or  string
}

// supported lists the document languages. The first entry is the fallback.
var supported = []language.Tag{
	language.English,
	language.MustParse("cy"),
}

var catalog = []messages{
	{
		conditional: "If %s, go to %s",
		otherwise:   "Otherwise, go to %s",
		and:         "and",
		or:          "or",
	},
	{
		conditional: "Os %s, ewch i %s",
		otherwise:   "Fel arall, ewch i %s",
		and:         "a",
		or:          "neu",
	},
}

var matcher = language.NewMatcher(supported)

// messagesFor returns the templates best matching the requested BCP 47
// tag, together with the tag of the chosen language. Malformed or
// unsupported tags fall back to English.
func messagesFor(lang string) (messages, language.Tag) {
	tag, err := language.Parse(lang)
	if err != nil {
		return catalog[0], supported[0]
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		idx = 0
	}
	return catalog[idx], supported[idx]
}
