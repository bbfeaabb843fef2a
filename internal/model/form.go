package model

// DefaultSummaryPath is the path of the synthetic summary page that closes
// most forms. It is never numbered for print.
const DefaultSummaryPath = "/summary"

// Form is a complete form definition as exported by the form designer.
// Pages form a directed graph through their Next edges, starting at StartPage.
type Form struct {
	// Name is the human-readable form name.
	Name string `json:"name" yaml:"name"`

	// StartPage is the path of the first page shown to an applicant.
	StartPage string `json:"startPage" yaml:"startPage"`

	// Pages are the form's pages in designer order.
	Pages []Page `json:"pages" yaml:"pages"`

	// Lists holds the answer option lists referenced by components.
	Lists []List `json:"lists,omitempty" yaml:"lists,omitempty"`

	// Conditions holds the named conditions that guard next edges.
	Conditions []Condition `json:"conditions,omitempty" yaml:"conditions,omitempty"`
}

// Page is a single page of a form.
type Page struct {
	// Path uniquely identifies the page within its form (e.g. "/applicant-name").
	Path string `json:"path" yaml:"path"`

	// Title is the page heading.
	Title string `json:"title" yaml:"title"`

	// Controller is the designer controller name, e.g. "SummaryPageController".
	Controller string `json:"controller,omitempty" yaml:"controller,omitempty"`

	// Components are the page's display components and questions, in order.
	Components []Component `json:"components,omitempty" yaml:"components,omitempty"`

	// Next lists the outgoing edges. Each edge may be guarded by a condition.
	Next []Next `json:"next,omitempty" yaml:"next,omitempty"`
}

// Next is an outgoing edge from one page to another.
type Next struct {
	// Path is the destination page path.
	Path string `json:"path" yaml:"path"`

	// Condition is the name of the condition guarding this edge.
	// Empty means the edge is unconditional.
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty"`
}

// IsConditional reports whether the edge is guarded by a condition.
func (n Next) IsConditional() bool {
	return n.Condition != ""
}

// Component is a question or display element on a page.
type Component struct {
	// Name is the component's field name, used by conditions.
	Name string `json:"name" yaml:"name"`

	// Type is the designer component type (TextField, RadiosField, Html, ...).
	Type string `json:"type" yaml:"type"`

	// Title is the question text.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Hint is the optional hint text shown under the title.
	Hint string `json:"hint,omitempty" yaml:"hint,omitempty"`

	// Content is the body of content components (Html, Para, Details, ...).
	Content string `json:"content,omitempty" yaml:"content,omitempty"`

	// List is the name of the answer list for list-valued components.
	List string `json:"list,omitempty" yaml:"list,omitempty"`

	// Options holds designer options that formprint does not interpret.
	Options map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// List is a named list of answer options.
type List struct {
	Name  string     `json:"name" yaml:"name"`
	Title string     `json:"title,omitempty" yaml:"title,omitempty"`
	Type  string     `json:"type,omitempty" yaml:"type,omitempty"`
	Items []ListItem `json:"items" yaml:"items"`
}

// ListItem is one answer option.
type ListItem struct {
	Text  string `json:"text" yaml:"text"`
	Value any    `json:"value,omitempty" yaml:"value,omitempty"`
	Hint  string `json:"hint,omitempty" yaml:"hint,omitempty"`
}

// Condition is a named, possibly compound, predicate over component answers.
type Condition struct {
	Name        string         `json:"name" yaml:"name"`
	DisplayName string         `json:"displayName,omitempty" yaml:"displayName,omitempty"`
	Value       ConditionValue `json:"value" yaml:"value"`
}

// ConditionValue is the body of a condition.
type ConditionValue struct {
	Name       string            `json:"name,omitempty" yaml:"name,omitempty"`
	Conditions []ConditionClause `json:"conditions" yaml:"conditions"`
}

// ConditionClause compares one field against a value.
type ConditionClause struct {
	Field       ConditionField `json:"field" yaml:"field"`
	Operator    string         `json:"operator" yaml:"operator"`
	Value       ConditionRef   `json:"value" yaml:"value"`
	Coordinator string         `json:"coordinator,omitempty" yaml:"coordinator,omitempty"`
}

// ConditionField identifies the component a clause tests.
type ConditionField struct {
	Name    string `json:"name" yaml:"name"`
	Type    string `json:"type,omitempty" yaml:"type,omitempty"`
	Display string `json:"display,omitempty" yaml:"display,omitempty"`
}

// ConditionRef is the comparison value of a clause.
type ConditionRef struct {
	Type    string `json:"type,omitempty" yaml:"type,omitempty"`
	Value   string `json:"value" yaml:"value"`
	Display string `json:"display,omitempty" yaml:"display,omitempty"`
}

// TestsField reports whether any clause of the condition tests the named field.
func (c Condition) TestsField(name string) bool {
	for _, clause := range c.Value.Conditions {
		if clause.Field.Name == name {
			return true
		}
	}
	return false
}

// PageByPath returns the page with the given path.
func (f *Form) PageByPath(path string) (*Page, bool) {
	for i := range f.Pages {
		if f.Pages[i].Path == path {
			return &f.Pages[i], true
		}
	}
	return nil, false
}

// ListByName returns the list with the given name.
func (f *Form) ListByName(name string) (*List, bool) {
	for i := range f.Lists {
		if f.Lists[i].Name == name {
			return &f.Lists[i], true
		}
	}
	return nil, false
}

// ConditionByName returns the condition with the given name.
func (f *Form) ConditionByName(name string) (*Condition, bool) {
	for i := range f.Conditions {
		if f.Conditions[i].Name == name {
			return &f.Conditions[i], true
		}
	}
	return nil, false
}
