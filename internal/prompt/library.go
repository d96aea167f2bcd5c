package prompt

import "sync"

// Library is a named template registry with lock-free reads. Registering
// an existing name replaces the template.
type Library struct {
	templates sync.Map // name -> *Template
}

// NewLibrary creates an empty template library.
func NewLibrary() *Library {
	return &Library{}
}

// Register stores the template under its name, replacing any previous one.
func (l *Library) Register(t *Template) {
	if t == nil || t.Name == "" {
		return
	}

	l.templates.Store(t.Name, t)
}

// Get retrieves a template by name.
func (l *Library) Get(name string) (*Template, bool) {
	value, ok := l.templates.Load(name)
	if !ok {
		return nil, false
	}

	return value.(*Template), true
}

// Names returns the registered template names.
func (l *Library) Names() []string {
	names := make([]string, 0)
	l.templates.Range(func(key, _ any) bool {
		names = append(names, key.(string))
		return true
	})

	return names
}
