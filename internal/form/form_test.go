package form

import (
	"testing"

	"nlpengine/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestInitial(t *testing.T) {
	s := Initial()
	assert.Equal(t, "analytics", s.Service)
	assert.Equal(t, []string{"read"}, s.Permissions)
	assert.Empty(t, s.Name)
}

func TestSetField(t *testing.T) {
	s := Initial()
	for _, f := range Fields {
		s = Reduce(s, SetField{Field: f, Value: string(f) + "-value"})
	}
	assert.Equal(t, "name-value", s.Name)
	assert.Equal(t, "key-value", s.Key)
	assert.Equal(t, "domain-value", s.Domain)
	assert.Equal(t, "service-value", s.Service)

	// unknown fields are ignored
	before := s
	s = Reduce(s, SetField{Field: "color", Value: "red"})
	assert.Equal(t, before, s)
}

func TestTogglePermission(t *testing.T) {
	s := Initial()
	s = Reduce(s, TogglePermission{Permission: "write"})
	assert.Equal(t, []string{"read", "write"}, s.Permissions)

	s = Reduce(s, TogglePermission{Permission: "read"})
	assert.Equal(t, []string{"write"}, s.Permissions)

	s = Reduce(s, TogglePermission{Permission: "write"})
	assert.Empty(t, s.Permissions)
}

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := State{Permissions: []string{"read", "write", "delete"}}
	next := Reduce(s, TogglePermission{Permission: "read"})

	assert.Equal(t, []string{"read", "write", "delete"}, s.Permissions)
	assert.Equal(t, []string{"write", "delete"}, next.Permissions)

	grown := Reduce(next, TogglePermission{Permission: "admin"})
	assert.Equal(t, []string{"write", "delete"}, next.Permissions)
	assert.Equal(t, []string{"write", "delete", "admin"}, grown.Permissions)
}

func TestLoadAndReset(t *testing.T) {
	key := model.APIKey{
		ID:          "abc",
		Name:        "Ads",
		Key:         "sk_live_0123456789abcdef",
		Domain:      "example.com",
		Service:     "ads",
		Permissions: model.Permissions{"read", "admin"},
	}
	s := Reduce(Initial(), Load{Key: key})
	assert.Equal(t, State{
		Name:        "Ads",
		Key:         "sk_live_0123456789abcdef",
		Domain:      "example.com",
		Service:     "ads",
		Permissions: []string{"read", "admin"},
	}, s)

	s = Reduce(s, TogglePermission{Permission: "admin"})
	assert.Equal(t, model.Permissions{"read", "admin"}, key.Permissions)

	assert.Equal(t, Initial(), Reduce(s, Reset{}))
}

func TestValidate(t *testing.T) {
	s := Initial()
	errs := s.Validate()
	assert.Equal(t, "Name is required", errs["name"])
	assert.Equal(t, "API key is required", errs["key"])
	assert.Contains(t, errs, "domain")
	assert.NotContains(t, errs, "permissions")

	s = Reduce(s, SetField{Field: FieldName, Value: "Analytics"})
	s = Reduce(s, SetField{Field: FieldKey, Value: "secret"})
	s = Reduce(s, SetField{Field: FieldDomain, Value: "example.com"})
	assert.Nil(t, s.Validate())

	s = Reduce(s, TogglePermission{Permission: "superuser"})
	assert.Contains(t, s.Validate(), "permissions")
}

func TestRequest(t *testing.T) {
	s := Reduce(Initial(), TogglePermission{Permission: "read"})
	req := s.Request()
	assert.Equal(t, "analytics", req.Service)
	assert.NotNil(t, req.Permissions)
	assert.Empty(t, req.Permissions)
}

func TestServiceLabel(t *testing.T) {
	assert.Equal(t, "E-commerce API", ServiceLabel("ecommerce"))
	assert.Equal(t, "custom", ServiceLabel("custom"))
}
