package datamodel

import (
	"github.com/felixgeelhaar/taskvault/internal/domain"
	"github.com/felixgeelhaar/taskvault/internal/errors"
	"github.com/felixgeelhaar/taskvault/internal/idgen"
)

// Project is the root of the tree. It has no parent and must be given a
// path before it is saved.
type Project struct {
	Base
	Name        domain.Name `json:"name"`
	Description string      `json:"description"`
}

// NewProject creates a project stored at path. Path may be empty and set later.
func NewProject(name, description, path string) (*Project, error) {
	p := &Project{
		Base:        Base{V: SchemaVersion, ID: idgen.New(), Path: path},
		Name:        domain.Name(name),
		Description: description,
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Project) Kind() Kind { return KindProject }

func (p *Project) validate() error {
	return validateName("project", p.Name)
}

// validateName wraps domain name failures as constraint errors.
func validateName(subject string, n domain.Name) error {
	if err := n.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeConstraint, subject+" name is invalid", err).
			WithSuggestion("Names use letters, digits, spaces, underscores and hyphens, up to 120 characters")
	}
	return nil
}
