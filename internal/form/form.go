// Package form holds the state of the API key add and edit forms. Both forms
// share one reducer; every action returns a new State and never mutates the
// one it was given.
package form

import (
	"errors"
	"slices"

	"nlpengine/internal/model"
	"nlpengine/internal/validation"
)

type Field string

const (
	FieldName    Field = "name"
	FieldKey     Field = "key"
	FieldDomain  Field = "domain"
	FieldService Field = "service"
)

// Fields lists the text fields in display order.
var Fields = []Field{FieldName, FieldKey, FieldDomain, FieldService}

const DefaultService = "analytics"

var serviceLabels = map[string]string{
	"analytics": "Analytics API",
	"search":    "Search API",
	"content":   "Content API",
	"social":    "Social Media API",
	"ads":       "Advertising API",
	"email":     "Email Marketing API",
	"crm":       "CRM API",
	"ecommerce": "E-commerce API",
	"payment":   "Payment API",
	"other":     "Other",
}

// ServiceLabel returns the display name of service, or service itself if unknown.
func ServiceLabel(service string) string {
	if label, ok := serviceLabels[service]; ok {
		return label
	}
	return service
}

type State struct {
	Name        string
	Key         string
	Domain      string
	Service     string
	Permissions []string
}

// Initial is the state of a freshly opened add form.
func Initial() State {
	return State{
		Service:     DefaultService,
		Permissions: []string{"read"},
	}
}

// Action is an edit applied by Reduce.
type Action interface {
	apply(State) State
}

type SetField struct {
	Field Field
	Value string
}

func (a SetField) apply(s State) State {
	switch a.Field {
	case FieldName:
		s.Name = a.Value
	case FieldKey:
		s.Key = a.Value
	case FieldDomain:
		s.Domain = a.Value
	case FieldService:
		s.Service = a.Value
	}
	return s
}

// TogglePermission grants the permission if absent and revokes it otherwise.
type TogglePermission struct {
	Permission string
}

func (a TogglePermission) apply(s State) State {
	if slices.Contains(s.Permissions, a.Permission) {
		s.Permissions = slices.DeleteFunc(slices.Clone(s.Permissions), func(p string) bool {
			return p == a.Permission
		})
		return s
	}
	s.Permissions = append(slices.Clone(s.Permissions), a.Permission)
	return s
}

type Reset struct{}

func (Reset) apply(State) State {
	return Initial()
}

// Load fills the form from a stored key, as the edit form does when opened.
type Load struct {
	Key model.APIKey
}

func (a Load) apply(State) State {
	return State{
		Name:        a.Key.Name,
		Key:         a.Key.Key,
		Domain:      a.Key.Domain,
		Service:     a.Key.Service,
		Permissions: slices.Clone([]string(a.Key.Permissions)),
	}
}

// Reduce applies a to s.
func Reduce(s State, a Action) State {
	return a.apply(s)
}

// Validate returns per-field messages, or nil when the form can be submitted.
func (s State) Validate() validation.Errors {
	err := validation.ValidateKeyForm(s.Name, s.Key, s.Domain, s.Permissions)
	var errs validation.Errors
	if errors.As(err, &errs) {
		return errs
	}
	return nil
}

// Request converts the form into a create or update body.
func (s State) Request() model.APIKeyRequest {
	permissions := slices.Clone(s.Permissions)
	if permissions == nil {
		permissions = []string{}
	}
	return model.APIKeyRequest{
		Name:        s.Name,
		Key:         s.Key,
		Domain:      s.Domain,
		Service:     s.Service,
		Permissions: permissions,
	}
}
