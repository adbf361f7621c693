package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phobologic/stimref/internal/jsast"
	"github.com/phobologic/stimref/internal/model"
)

const itemController = `import { Controller } from "@hotwired/stimulus"

export default class extends Controller {
  static targets = ["item", "URLField"]
  static classes = ["active"]
  static outlets = ["user-status", "menu"]
  static values = { count: Number, open: Boolean }
  helper = ["ignored"]

  connect() {
    this.itemTarget;
    this.itemTargets;
    this.hasItemTarget;
    this.missingTarget;
    this.activeClass;
    this.hasActiveClass;
    this.userStatusOutlet;
    this.menuOutlets;
    this.countValue;
    this.hasOpenValue;
    this.helper;
  }
}
`

func parseClass(t *testing.T) (*jsast.File, *model.Class) {
	t.Helper()
	f, err := jsast.Parse([]byte(itemController), "app/javascript/controllers/item_controller.js")
	require.NoError(t, err)
	require.NotNil(t, f.DefaultExport)
	return f, f.DefaultExport
}

func TestResolve(t *testing.T) {
	t.Parallel()

	_, c := parseClass(t)

	tests := []struct {
		name      string
		kind      model.PropertyKind
		canonical string
		declName  string
	}{
		{"itemTarget", model.PropertyTarget, "item", "item"},
		{"itemTargets", model.PropertyTarget, "item", "item"},
		{"hasItemTarget", model.PropertyTarget, "item", "item"},
		{"hasURLFieldTarget", model.PropertyTarget, "URLField", "URLField"},
		{"missingTarget", model.PropertyNone, "", ""},
		{"activeClass", model.PropertyClass, "active", "active"},
		{"activeClasses", model.PropertyNone, "", ""},
		{"hasActiveClass", model.PropertyClass, "active", "active"},
		{"userStatusOutlet", model.PropertyOutlet, "userStatus", "user-status"},
		{"menuOutlets", model.PropertyOutlet, "menu", "menu"},
		{"hasMenuOutlet", model.PropertyOutlet, "menu", "menu"},
		{"countValue", model.PropertyValue, "count", "count"},
		{"countValues", model.PropertyValue, "count", "count"},
		{"hasOpenValue", model.PropertyValue, "open", "open"},
		{"missingValue", model.PropertyNone, "", ""},
		{"helper", model.PropertyNone, "", ""},
		{"item", model.PropertyNone, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ref := Resolve(c, tt.name)
			assert.Equal(t, tt.name, ref.RawName)
			assert.Equal(t, tt.kind, ref.Kind)
			assert.Equal(t, tt.canonical, ref.CanonicalName)
			assert.Equal(t, tt.declName, ref.Declaration.Name)
			assert.Equal(t, tt.kind != model.PropertyNone, ref.Resolved())
		})
	}
}

func TestResolveBindsToLiteral(t *testing.T) {
	t.Parallel()

	_, c := parseClass(t)
	ref := Resolve(c, "hasItemTarget")
	require.True(t, ref.Resolved())
	assert.Equal(t, model.DeclTarget, ref.Declaration.Kind)
	assert.Equal(t, `"item"`, itemController[ref.Declaration.Range.Start:ref.Declaration.Range.End])

	ref = Resolve(c, "countValue")
	require.True(t, ref.Resolved())
	assert.Equal(t, "count", itemController[ref.Declaration.Range.Start:ref.Declaration.Range.End])
}

func TestResolveOrderTargetFirst(t *testing.T) {
	t.Parallel()

	c := &model.Class{Fields: []model.Field{
		{Name: "targets", Static: true, Init: model.Initializer{Kind: model.InitArray, Elements: []model.Literal{{Value: "fooClass"}}}},
		{Name: "classes", Static: true, Init: model.Initializer{Kind: model.InitArray, Elements: []model.Literal{{Value: "foo"}}}},
	}}
	assert.Equal(t, model.PropertyClass, Resolve(c, "fooClass").Kind)
	assert.Equal(t, model.PropertyTarget, Resolve(c, "fooClassTarget").Kind)
}

func TestResolveRequiresStaticField(t *testing.T) {
	t.Parallel()

	c := &model.Class{Fields: []model.Field{
		{Name: "targets", Init: model.Initializer{Kind: model.InitArray, Elements: []model.Literal{{Value: "item"}}}},
	}}
	assert.False(t, Resolve(c, "itemTarget").Resolved())
	assert.False(t, Resolve(nil, "itemTarget").Resolved())
}

func TestResolveNaivePlural(t *testing.T) {
	t.Parallel()

	c := &model.Class{Fields: []model.Field{
		{Name: "targets", Static: true, Init: model.Initializer{Kind: model.InitArray, Elements: []model.Literal{{Value: "child"}}}},
	}}
	assert.True(t, Resolve(c, "childTargets").Resolved())
	assert.False(t, Resolve(c, "childrenTarget").Resolved())
}

func TestVariants(t *testing.T) {
	t.Parallel()

	_, c := parseClass(t)
	assert.Equal(t, []string{
		"itemTarget", "URLFieldTarget",
		"activeClass",
		"userStatusOutlet", "menuOutlet",
		"countValue", "openValue",
	}, Variants(c))
	assert.Nil(t, Variants(nil))
}

func TestHasConventionSuffix(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"itemTarget", "itemTargets", "activeClass", "menuOutlet", "countValue", "countValues"} {
		assert.True(t, HasConventionSuffix(name), name)
	}
	for _, name := range []string{"element", "helper", "target"} {
		assert.False(t, HasConventionSuffix(name), name)
	}
}

func TestImplicitlyUsed(t *testing.T) {
	t.Parallel()

	f, c := parseClass(t)
	assert.True(t, ImplicitlyUsed(c, "targets"))
	assert.True(t, ImplicitlyUsed(c, "values"))
	assert.True(t, ImplicitlyUsed(c, "outlets"))
	assert.False(t, ImplicitlyUsed(c, "helper"))
	assert.False(t, ImplicitlyUsed(c, "connect"))

	assert.True(t, ImplicitController(f, c))
	assert.False(t, ImplicitController(f, &model.Class{Extends: "Controller"}))
}

func TestReference(t *testing.T) {
	t.Parallel()

	f, _ := parseClass(t)
	require.NotEmpty(t, f.ThisAccesses)

	byName := map[string]jsast.ThisAccess{}
	for _, a := range f.ThisAccesses {
		byName[a.Name] = a
	}

	ref := NewReference(byName["hasItemTarget"])
	assert.Equal(t, "hasItemTarget", itemController[ref.Range().Start:ref.Range().End])
	decl, ok := ref.Resolve()
	require.True(t, ok)
	assert.Equal(t, "item", decl.Name)
	assert.Contains(t, ref.Variants(), "itemTarget")

	_, ok = NewReference(byName["missingTarget"]).Resolve()
	assert.False(t, ok)

	orphan := NewReference(jsast.ThisAccess{Name: "itemTarget"})
	_, ok = orphan.Resolve()
	assert.False(t, ok)
	assert.Empty(t, orphan.Variants())
}
