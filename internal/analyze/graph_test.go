package analyze

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPkg = "example.com/shop"

type shopTypes struct {
	entity, document, order     *TypeInfo
	identifiable, priced        *TypeInfo
	repository, repositoryParam *TypeInfo
	box, holder, holderParam    *TypeInfo
}

func newShopGraph(t *testing.T) (*TypeGraph, shopTypes) {
	t.Helper()

	g := NewTypeGraph()

	var s shopTypes

	s.entity = NewStruct(testPkg, "Entity", nil)
	s.identifiable = NewInterface(testPkg, "Identifiable")
	s.priced = NewInterface(testPkg, "Priced", s.identifiable)
	s.document = NewStruct(testPkg, "Document", s.entity)
	s.order = NewStruct(testPkg, "Order", s.document, s.priced)

	s.repository = NewStruct(testPkg, "Repository", nil)
	s.repositoryParam = s.repository.AddTypeParam("T", Constraint{
		ReferenceType: true,
		Types:         []*TypeInfo{s.entity},
	})

	s.box = NewStruct(testPkg, "Box", nil)
	s.box.AddTypeParam("T", Constraint{})

	require.NoError(t, errors.Join(
		g.AddType(s.entity),
		g.AddType(s.identifiable),
		g.AddType(s.priced),
		g.AddType(s.document),
		g.AddType(s.order),
		g.AddType(s.repository),
		g.AddType(s.box),
	))

	// Holder[U] embeds Box[U]
	s.holder = NewStruct(testPkg, "Holder", nil)
	s.holderParam = s.holder.AddTypeParam("U", Constraint{})
	s.holder.Base = g.MustInstantiate(s.box, s.holderParam)
	require.NoError(t, g.AddType(s.holder))

	return g, s
}

func TestTypeGraph_Universe(t *testing.T) {
	g := NewTypeGraph()

	intType := g.Lookup("", "int")
	require.NotNil(t, intType)
	assert.Equal(t, TypeKindBasic, intType.Kind)
	assert.True(t, intType.IsValueType())
	assert.Equal(t, TypeKindInterface, g.Lookup("", "error").Kind)
	assert.Empty(t, g.NamedTypes())
}

func TestTypeGraph_AddType(t *testing.T) {
	g, s := newShopGraph(t)

	assert.Same(t, s.order, g.GetType(TypeID{PkgPath: testPkg, Name: "Order"}))
	assert.Same(t, g, s.order.Graph())
	assert.Same(t, g, s.repositoryParam.Graph())
	assert.Same(t, g, g.MustInstantiate(s.repository, s.order).Graph())
	assert.Nil(t, NewStruct(testPkg, "Loose", nil).Graph())
	assert.Contains(t, g.Packages[testPkg].Types, s.order.ID)
	assert.Contains(t, g.Names(), "example.com/shop.Order")

	err := g.AddType(NewStruct(testPkg, "Order", nil))
	require.ErrorIs(t, err, ErrDuplicateType)

	err = g.AddType(NewStruct(testPkg, "Bad", s.priced))
	require.ErrorIs(t, err, ErrInvalidBase)

	err = g.AddType(NewStruct("", "", nil))
	require.Error(t, err)

	a := NewStruct(testPkg, "A", nil)
	b := NewStruct(testPkg, "B", a)
	a.Base = b
	require.ErrorIs(t, g.AddType(b), ErrInheritanceCycle)
}

func TestTypeInfo_Ancestry(t *testing.T) {
	_, s := newShopGraph(t)

	assert.Equal(t, []*TypeInfo{s.document, s.entity}, s.order.Ancestors())
	assert.Empty(t, s.entity.Ancestors())
	assert.Equal(t, []*TypeInfo{s.identifiable, s.priced}, s.order.AllInterfaces())
	assert.Empty(t, s.document.AllInterfaces())

	assert.True(t, s.order.IsSubclassOrSame(s.entity))
	assert.True(t, s.order.IsSubclassOrSame(s.order))
	assert.False(t, s.entity.IsSubclassOrSame(s.order))
	assert.False(t, s.order.IsSubclassOrSame(s.priced))
}

func TestTypeInfo_IsAssignableTo(t *testing.T) {
	g, s := newShopGraph(t)

	tests := []struct {
		name string
		from *TypeInfo
		to   *TypeInfo
		want bool
	}{
		{"same", s.order, s.order, true},
		{"base", s.order, s.entity, true},
		{"direct interface", s.order, s.priced, true},
		{"embedded interface", s.order, s.identifiable, true},
		{"interface embedding", s.priced, s.identifiable, true},
		{"reverse", s.entity, s.order, false},
		{"unrelated interface", s.document, s.priced, false},
		{"param via constraint", s.repositoryParam, s.entity, true},
		{"param unrelated", s.repositoryParam, s.priced, false},
		{"basic", g.Lookup("", "int"), s.entity, false},
		{"nil", nil, s.entity, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.IsAssignableTo(tt.to))
		})
	}
}

func TestTypeGraph_Instantiate(t *testing.T) {
	g, s := newShopGraph(t)

	inst, err := g.Instantiate(s.repository, s.order)
	require.NoError(t, err)

	assert.True(t, inst.IsInstantiation())
	assert.False(t, inst.IsGenericDefinition())
	assert.True(t, s.repository.IsGenericDefinition())
	assert.Same(t, s.repository, inst.Definition())
	assert.Equal(t, "example.com/shop.Repository[example.com/shop.Order]", inst.String())
	assert.Same(t, inst, g.MustInstantiate(s.repository, s.order), "instantiations are interned")
	assert.False(t, inst.ContainsParams())
	assert.True(t, SameGenericDefinition(inst, s.repository))
	assert.False(t, SameGenericDefinition(s.order, s.order))
}

func TestTypeGraph_InstantiateErrors(t *testing.T) {
	g, s := newShopGraph(t)

	closed := g.MustInstantiate(s.repository, s.order)

	looseParam := s.box.TypeParams[0]
	strictParam := NewStruct(testPkg, "Strict", nil).AddTypeParam("S", Constraint{ReferenceType: true})

	tests := []struct {
		name       string
		def        *TypeInfo
		args       []*TypeInfo
		kind       GenericErrorKind
		constraint string
	}{
		{"arity", s.repository, nil, GenericArity, ""},
		{"too many", s.repository, []*TypeInfo{s.order, s.order}, GenericArity, ""},
		{"basic argument", s.repository, []*TypeInfo{g.Lookup("", "int")}, GenericConstraint, "reference type"},
		{"not assignable", s.repository, []*TypeInfo{s.identifiable}, GenericConstraint, "assignable to example.com/shop.Entity"},
		{"weaker param", s.repository, []*TypeInfo{looseParam}, GenericConstraint, "reference type"},
		{"already specified", closed, []*TypeInfo{s.order}, GenericAlreadySpecified, ""},
		{"not generic", s.order, []*TypeInfo{s.order}, GenericNotGeneric, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := g.Instantiate(tt.def, tt.args...)
			require.Error(t, err)

			var gerr *GenericArgumentError
			require.ErrorAs(t, err, &gerr)
			assert.Equal(t, tt.kind, gerr.Kind)
			assert.Equal(t, tt.constraint, gerr.Constraint)
		})
	}

	_, err := g.Instantiate(s.repository, strictParam)
	require.NoError(t, err, "a parameter at least as strict is accepted")

	_, err = g.Instantiate(s.repository)
	assert.EqualError(t, err, "generic type example.com/shop.Repository expects 1 type argument(s), 0 supplied")
}

func TestTypeGraph_InstantiateConstructorConstraints(t *testing.T) {
	g := NewTypeGraph()

	abstract := NewStruct(testPkg, "Abstract", nil)
	abstract.Abstract = true
	concrete := NewStruct(testPkg, "Concrete", nil)

	factory := NewStruct(testPkg, "Factory", nil)
	factory.AddTypeParam("T", Constraint{DefaultConstructor: true})

	number := NewStruct(testPkg, "Number", nil)
	number.AddTypeParam("N", Constraint{ValueType: true})

	g.MustAdd(abstract, concrete, factory, number)

	_, err := g.Instantiate(factory, concrete)
	require.NoError(t, err)

	_, err = g.Instantiate(factory, abstract)
	assert.ErrorContains(t, err, `"default constructor"`)

	_, err = g.Instantiate(number, g.Lookup("", "float64"))
	require.NoError(t, err)

	_, err = g.Instantiate(number, concrete)
	assert.ErrorContains(t, err, `"value type"`)
}

func TestTypeInfo_InstantiationBaseIsSubstituted(t *testing.T) {
	g, s := newShopGraph(t)

	assert.True(t, s.holder.Base.ContainsParams())

	holderOrder := g.MustInstantiate(s.holder, s.order)
	boxOrder := g.MustInstantiate(s.box, s.order)

	assert.Same(t, boxOrder, holderOrder.BaseType())
	assert.True(t, holderOrder.IsAssignableTo(boxOrder))
	assert.False(t, holderOrder.IsAssignableTo(g.MustInstantiate(s.box, s.document)))
	assert.Equal(t, []*TypeInfo{boxOrder}, holderOrder.Ancestors())
}

func TestTypeInfo_InstantiationFollowsLateDefinition(t *testing.T) {
	g, s := newShopGraph(t)

	shelf := NewStruct(testPkg, "Shelf", nil)
	shelfParam := shelf.AddTypeParam("T", Constraint{})
	require.NoError(t, g.AddType(shelf))

	shelfOrder := g.MustInstantiate(shelf, s.order)
	assert.Nil(t, shelfOrder.BaseType())
	assert.Empty(t, shelfOrder.DirectInterfaces())

	shelf.Base = g.MustInstantiate(s.box, shelfParam)
	shelf.Interfaces = []*TypeInfo{s.priced}

	assert.Same(t, g.MustInstantiate(s.box, s.order), shelfOrder.BaseType())
	assert.Equal(t, []*TypeInfo{s.priced}, shelfOrder.DirectInterfaces())
	assert.True(t, shelfOrder.IsAssignableTo(s.identifiable))
}

func TestTypeGraph_Substitute(t *testing.T) {
	g, s := newShopGraph(t)

	subst := SubstitutionFor(s.holder, []*TypeInfo{s.document})

	assert.Same(t, s.document, g.Substitute(s.holderParam, subst))
	assert.Same(t, g.MustInstantiate(s.box, s.document), g.Substitute(s.holder.Base, subst))
	assert.Same(t, s.order, g.Substitute(s.order, subst))
	assert.Same(t, s.order, g.Substitute(s.order, nil))
}

func TestParseTypeKind(t *testing.T) {
	tests := []struct {
		in   string
		want TypeKind
		ok   bool
	}{
		{"", TypeKindStruct, true},
		{"class", TypeKindStruct, true},
		{"Interface", TypeKindInterface, true},
		{"value", TypeKindBasic, true},
		{"enum", TypeKindUnknown, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTypeKind(tt.in)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}

	assert.Equal(t, "unknown", TypeKindUnknown.String())
	assert.Equal(t, "interface", TypeKindInterface.String())
	assert.Equal(t, "TypeKind(9)", TypeKind(9).String())
}

func TestGenericErrorKind_String(t *testing.T) {
	assert.Equal(t, "arity", GenericArity.String())
	assert.Equal(t, "already_specified", GenericAlreadySpecified.String())
	assert.Equal(t, "not_generic", GenericNotGeneric.String())
	assert.Equal(t, "GenericErrorKind(-1)", GenericErrorKind(-1).String())
}
