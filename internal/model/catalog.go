package model

// Catalog is a parsed endpoint catalog: every namespace plus the settings
// shared by the generated client.
type Catalog struct {
	Title          string
	Imports        []Import
	Cookies        Cookies
	InternalHeader string
	Environments   []Environment
	Namespaces     []Namespace
}

// Endpoints returns every endpoint across namespaces in declaration order.
func (c *Catalog) Endpoints() []Endpoint {
	var all []Endpoint
	for _, ns := range c.Namespaces {
		all = append(all, ns.Endpoints...)
	}
	return all
}

// Namespace returns the namespace with the given name, or nil.
func (c *Catalog) Namespace(name string) *Namespace {
	for i := range c.Namespaces {
		if c.Namespaces[i].Name == name {
			return &c.Namespaces[i]
		}
	}
	return nil
}

type Namespace struct {
	Name      string
	Endpoints []Endpoint
}

type Import struct {
	Path  string
	Alias string
}

// Cookies names the credential cookies; empty fields use the runtime defaults.
type Cookies struct {
	Access  string
	Refresh string
}

// Environment is a named set of base URLs, e.g. "stable" or "nightly".
type Environment struct {
	Name    string
	BaseURL string
	// Overrides maps a namespace name to its own base URL.
	Overrides map[string]string
}

// NamespaceURL returns the base URL the environment assigns to a namespace.
func (e *Environment) NamespaceURL(namespace string) string {
	if u, ok := e.Overrides[namespace]; ok {
		return u
	}
	return e.BaseURL
}
