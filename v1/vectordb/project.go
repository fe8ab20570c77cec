package vectordb

import "fmt"

// Project is one configured backend account. Projects are consulted in the
// order they are configured.
type Project struct {
	Name    string
	Backend Backend
}

// Projects is the ordered project list.
type Projects []Project

// Get returns the backend of the named project.
func (p Projects) Get(name string) (Backend, error) {
	for _, project := range p {
		if project.Name == name {
			return project.Backend, nil
		}
	}
	return nil, fmt.Errorf("%w: unknown project %q", ErrInvalidConfiguration, name)
}

// Validate rejects an empty list, empty or duplicate names and nil backends.
func (p Projects) Validate() error {
	if len(p) == 0 {
		return fmt.Errorf("%w: at least one project is required", ErrInvalidConfiguration)
	}
	seen := make(map[string]struct{}, len(p))
	for i, project := range p {
		if project.Name == "" {
			return fmt.Errorf("%w: project %d has no name", ErrInvalidConfiguration, i)
		}
		if project.Backend == nil {
			return fmt.Errorf("%w: project %q has no backend", ErrInvalidConfiguration, project.Name)
		}
		if _, dup := seen[project.Name]; dup {
			return fmt.Errorf("%w: duplicate project %q", ErrInvalidConfiguration, project.Name)
		}
		seen[project.Name] = struct{}{}
	}
	return nil
}
