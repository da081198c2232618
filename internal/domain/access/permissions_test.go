package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/agenda-citas-api/internal/domain/access"
)

func TestResolve_AdminTieneTodo(t *testing.T) {
	set := access.Resolve(access.RoleAdmin, []access.Permission{access.PermRead})
	assert.Equal(t, access.All, set.List(), "admin ignora la lista personalizada")
}

func TestResolve_ListaPersonalizada(t *testing.T) {
	set := access.Resolve(access.RoleUser, []access.Permission{access.PermRead, access.PermDelete})
	assert.True(t, set.Has(access.PermRead))
	assert.True(t, set.Has(access.PermDelete))
	assert.False(t, set.Has(access.PermCreate))
	assert.False(t, set.Has(access.PermUpdate))
}

func TestResolve_PorDefectoCrearYLeer(t *testing.T) {
	set := access.Resolve(access.RoleUser, nil)
	assert.Equal(t, []access.Permission{access.PermCreate, access.PermRead}, set.List())
}

func TestResolve_ListaVaciaNoOtorgaNada(t *testing.T) {
	set := access.Resolve(access.RoleUser, []access.Permission{})
	assert.Empty(t, set.List())
}

func TestParseList_IgnoraDesconocidos(t *testing.T) {
	perms := access.ParseList([]string{"READ", " update ", "borrar"})
	assert.Equal(t, []access.Permission{access.PermRead, access.PermUpdate}, perms)
	assert.Nil(t, access.ParseList(nil))
}
