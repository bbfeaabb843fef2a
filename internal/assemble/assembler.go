package assemble

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/nao1215/formprint/internal/hierarchy"
	"github.com/nao1215/formprint/internal/model"
)

// Assembler builds print documents from numbered headings.
// An Assembler holds only configuration and is safe for concurrent use.
type Assembler struct {
	// strict turns ambiguous conditions into errors.
	strict bool

	logger *slog.Logger
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithStrictConditions makes Assemble fail on the first component that
// drives a condition no next edge uses. By default such components are
// reported as document warnings.
func WithStrictConditions(strict bool) Option {
	return func(a *Assembler) {
		a.strict = strict
	}
}

// WithLogger sets a custom logger for the assembler.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Assembler) {
		a.logger = logger
	}
}

// New creates an Assembler with the given options.
func New(opts ...Option) *Assembler {
	a := &Assembler{}
	for _, opt := range opts {
		opt(a)
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	return a
}

// edge is a next edge together with the page it leaves from.
type edge struct {
	from string
	model.Next
}

// assembly holds the state of a single Assemble call.
type assembly struct {
	*Assembler
	form     *model.Form
	headers  model.HeaderIndex
	msgs     messages
	edges    map[string][]edge
	warnings []string
}

// Assemble produces the printable document for form in the requested
// language. Entries appear in heading order. Pages named in headers but
// missing from the form are printed with their heading only and reported
// as warnings.
//
// On error no document is returned.
func (a *Assembler) Assemble(headers model.HeaderIndex, form *model.Form, lang string) (*model.PrintDocument, error) {
	if form == nil {
		return nil, ErrNilForm
	}

	msgs, tag := messagesFor(lang)
	as := &assembly{
		Assembler: a,
		form:      form,
		headers:   headers,
		msgs:      msgs,
		edges:     conditionEdges(form),
	}

	entries := make([]model.PrintEntry, 0, len(headers))
	for _, path := range printOrder(headers) {
		entry := headers[path]

		page, ok := form.PageByPath(path)
		if !ok {
			as.warn(fmt.Sprintf("page %s is numbered but not defined in the form", path))
			entries = append(entries, entry)
			continue
		}

		components, err := as.components(page)
		if err != nil {
			return nil, err
		}
		entry.Components = components
		entries = append(entries, entry)
	}

	return &model.PrintDocument{
		FormName: form.Name,
		Language: tag.String(),
		Entries:  entries,
		Warnings: as.warnings,
	}, nil
}

// printOrder returns the indexed paths sorted by heading number.
func printOrder(headers model.HeaderIndex) []string {
	paths := headers.Paths()
	slices.SortFunc(paths, func(a, b string) int {
		if c := hierarchy.CompareHeadings(headers[a].HeadingNumber, headers[b].HeadingNumber); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	})
	return paths
}

// conditionEdges indexes every conditional edge of the form by condition name.
func conditionEdges(form *model.Form) map[string][]edge {
	out := make(map[string][]edge)
	for _, page := range form.Pages {
		for _, next := range page.Next {
			if next.IsConditional() {
				out[next.Condition] = append(out[next.Condition], edge{from: page.Path, Next: next})
			}
		}
	}
	return out
}

// components renders the display components of one page.
func (as *assembly) components(page *model.Page) ([]model.DisplayComponent, error) {
	out := make([]model.DisplayComponent, 0, len(page.Components))
	lastBranching := -1

	for _, c := range page.Components {
		dc := model.DisplayComponent{
			Name: c.Name,
			Type: c.Type,
			Text: displayText(c),
			Hint: model.StripLeadingNumber(collapseSpace(c.Hint)),
		}

		if c.List != "" {
			options, ok := as.listOptions(c.List)
			if !ok {
				as.warn(fmt.Sprintf("page %s: component %q uses unknown list %q", page.Path, c.Name, c.List))
			}
			dc.Options = options
		}

		branches, local, err := as.branches(page, c)
		if err != nil {
			return nil, err
		}
		dc.Branches = branches
		if local {
			lastBranching = len(out)
		}

		out = append(out, dc)
	}

	if lastBranching >= 0 {
		out[lastBranching].Branches = append(out[lastBranching].Branches, as.otherwise(page)...)
	}

	return out, nil
}

// displayText returns the main text of a component.
func displayText(c model.Component) string {
	title := model.StripLeadingNumber(collapseSpace(c.Title))

	var content string
	switch {
	case c.Type == typeMarkdown:
		content = markdownToText(c.Content)
	case isHTMLContent(c.Type):
		content = htmlToText(c.Content)
	default:
		return title
	}

	if title == "" {
		return content
	}
	if content == "" {
		return title
	}
	return title + "\n" + content
}

// listOptions returns the item texts of a named list.
func (as *assembly) listOptions(name string) ([]string, bool) {
	list, ok := as.form.ListByName(name)
	if !ok {
		return nil, false
	}
	options := make([]string, 0, len(list.Items))
	for _, item := range list.Items {
		options = append(options, model.StripLeadingNumber(collapseSpace(item.Text)))
	}
	return options, true
}

// branches explains each condition that tests component c. Edges leaving
// page are preferred; a condition used only on a later page is explained
// with that page's edge. local reports whether any explanation came from
// an edge leaving page.
func (as *assembly) branches(page *model.Page, c model.Component) (out []string, local bool, err error) {
	if c.Name == "" {
		return nil, false, nil
	}

	for _, cond := range as.form.Conditions {
		if !cond.TestsField(c.Name) {
			continue
		}

		candidates := as.edges[cond.Name]
		if len(candidates) == 0 {
			ambiguous := &AmbiguousConditionError{Page: page.Path, Component: c.Name, Condition: cond.Name}
			if as.strict {
				return nil, false, ambiguous
			}
			as.warn(ambiguous.Error())
			continue
		}

		chosen := candidates[0]
		for _, e := range candidates {
			if e.from == page.Path {
				chosen = e
				local = true
				break
			}
		}

		out = append(out, fmt.Sprintf(as.msgs.conditional, as.conditionText(cond), as.destination(chosen.Path)))
	}

	return out, local, nil
}

// otherwise explains the unguarded edges of a page that also has guarded ones.
func (as *assembly) otherwise(page *model.Page) []string {
	var out []string
	for _, next := range page.Next {
		if !next.IsConditional() {
			out = append(out, fmt.Sprintf(as.msgs.otherwise, as.destination(next.Path)))
		}
	}
	return out
}

// conditionText returns a readable rendition of a condition.
func (as *assembly) conditionText(cond model.Condition) string {
	if cond.DisplayName != "" {
		return cond.DisplayName
	}

	var sb strings.Builder
	for i, clause := range cond.Value.Conditions {
		if i > 0 {
			sb.WriteByte(' ')
			if strings.EqualFold(clause.Coordinator, "or") {
				sb.WriteString(as.msgs.or)
			} else {
				sb.WriteString(as.msgs.and)
			}
			sb.WriteByte(' ')
		}
		sb.WriteString(firstNonEmpty(clause.Field.Display, clause.Field.Name))
		sb.WriteByte(' ')
		sb.WriteString(clause.Operator)
		sb.WriteByte(' ')
		sb.WriteString(firstNonEmpty(clause.Value.Display, clause.Value.Value))
	}
	if sb.Len() == 0 {
		return cond.Name
	}
	return sb.String()
}

// destination labels a target page with its heading number and title.
// Unnumbered pages such as the summary page are labelled by title only.
func (as *assembly) destination(path string) string {
	if entry, ok := as.headers[path]; ok {
		return strings.TrimSpace(entry.HeadingNumber + " " + entry.Title)
	}
	if page, ok := as.form.PageByPath(path); ok && page.Title != "" {
		return model.StripLeadingNumber(page.Title)
	}
	return path
}

func (as *assembly) warn(msg string) {
	as.logger.Debug("assembly warning", "form", as.form.Name, "warning", msg)
	as.warnings = append(as.warnings, msg)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
