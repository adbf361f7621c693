package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{"controllers/simple_controller.js", "simple"},
		{"controllers/simple-controller.js", "simple"},
		{"controllers/simple_underscore_controller.js", "simple-underscore"},
		{"controllers/simple-dash-controller.js", "simple-dash"},
		{"controllers/nested/thing_controller.js", "nested--thing"},
		{"app/javascript/controllers/admin/user_list/row_controller.ts", "admin--user-list--row"},
		{"controllers/a/controllers/b_controller.js", "b"},
		{"controllers/a/controllers/x/b_controller.js", "x--b"},
		{"simple_controller.js", "simple"},
		{"lib/widgets/simple_controller.js", "simple"},
		{"controllers/helper.js", "helper"},
		{"controllers/my_helper.js", "my-helper"},
		{"/abs/path/controllers/deep/er/one-controller.ts", "deep--er--one"},
		{"controllers/double_controller_controller.js", "double-controller"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Identifier(tt.path))
		})
	}
}

func TestShortName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "thing", ShortName("nested--thing"))
	assert.Equal(t, "row", ShortName("admin--user-list--row"))
	assert.Equal(t, "simple", ShortName("simple"))
	assert.Equal(t, "--odd", ShortName("--odd"))
}

func TestCandidateNames(t *testing.T) {
	t.Parallel()

	got := CandidateNames("admin--user-list")
	assert.Equal(t, []string{
		"user_list_controller.js",
		"user-list-controller.js",
		"user_list_controller.ts",
		"user-list-controller.ts",
	}, got)
}

func TestIsControllerFile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want bool
	}{
		{"simple_controller.js", true},
		{"simple-controller.ts", true},
		{"controllers/nested/thing_controller.js", true},
		{"simple_controller.jsx", false},
		{"controller.js", false},
		{"simple.js", false},
		{"simple_controller.rb", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsControllerFile(tt.name))
		})
	}
}

func TestCamelCase(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "userStatus", CamelCase("user-status"))
	assert.Equal(t, "userStatusOutlet", CamelCase("userStatusOutlet"))
	assert.Equal(t, "aBC", CamelCase("a-b-c"))
	assert.Equal(t, "snakeCase", CamelCase("snake_case"))
	assert.Equal(t, "leading", CamelCase("-leading"))
}

func TestDecapitalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "item", Decapitalize("Item"))
	assert.Equal(t, "item", Decapitalize("item"))
	assert.Equal(t, "URL", Decapitalize("URL"))
	assert.Equal(t, "", Decapitalize(""))
}
