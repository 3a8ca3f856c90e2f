package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flutterkit/fluttercheck/pkg/skilldoc"
)

func pubDoc() *skilldoc.Document {
	return &skilldoc.Document{
		CommandName: "flutter-pub",
		Subcommands: []skilldoc.Subcommand{
			{Name: "get", Description: "Fetch dependencies", Default: "-"},
			{Name: "add", Description: "Add packages", Default: "-"},
			{Name: "upgrade", Description: "Upgrade dependencies", Default: "-"},
		},
		Options: []skilldoc.Option{
			{Name: "--dev", Description: "Add as dev dependency", Default: "false"},
			{Name: "--directory", Description: "Project directory", Default: "."},
			{Name: "--sdk", Description: "SDK source", Default: "-"},
		},
	}
}

func TestSplit(t *testing.T) {
	t.Run("command with arguments", func(t *testing.T) {
		name, args, err := Split("/flutter-pub add dio --dev")
		require.NoError(t, err)
		assert.Equal(t, "flutter-pub", name)
		assert.Equal(t, []string{"add", "dio", "--dev"}, args)
	})

	t.Run("empty invocation", func(t *testing.T) {
		_, _, err := Split("   ")
		assert.Error(t, err)
	})

	t.Run("missing slash", func(t *testing.T) {
		_, _, err := Split("flutter-pub get")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must start with a slash command")
	})

	t.Run("bare slash", func(t *testing.T) {
		_, _, err := Split("/")
		assert.Error(t, err)
	})
}

func TestParse(t *testing.T) {
	doc := pubDoc()

	t.Run("subcommand, positional and boolean flag", func(t *testing.T) {
		inv, err := Parse("/flutter-pub add dio --dev", doc)
		require.NoError(t, err)
		assert.Equal(t, "flutter-pub", inv.Command)
		assert.Equal(t, "add", inv.Subcommand)
		assert.Equal(t, []string{"dio"}, inv.Positionals)
		assert.Equal(t, "true", inv.Flags["dev"])
	})

	t.Run("defaults filled for unset options", func(t *testing.T) {
		inv, err := Parse("/flutter-pub get", doc)
		require.NoError(t, err)
		assert.Equal(t, "false", inv.Flags["dev"])
		assert.Equal(t, ".", inv.Flags["directory"])
		// Placeholder defaults stay unset
		_, ok := inv.Flags["sdk"]
		assert.False(t, ok)
	})

	t.Run("valued flag with separate argument", func(t *testing.T) {
		inv, err := Parse("/flutter-pub add dio --directory packages/app", doc)
		require.NoError(t, err)
		assert.Equal(t, "packages/app", inv.Flags["directory"])
	})

	t.Run("valued flag with equals sign", func(t *testing.T) {
		inv, err := Parse("/flutter-pub add dio --directory=packages/app", doc)
		require.NoError(t, err)
		assert.Equal(t, "packages/app", inv.Flags["directory"])
	})

	t.Run("unknown subcommand", func(t *testing.T) {
		_, err := Parse("/flutter-pub publish", doc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown subcommand "publish"`)
	})

	t.Run("missing subcommand", func(t *testing.T) {
		_, err := Parse("/flutter-pub --dev", doc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "requires a subcommand")
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, err := Parse("/flutter-pub add dio --offline", doc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown flag "--offline"`)
	})

	t.Run("command name mismatch", func(t *testing.T) {
		_, err := Parse("/flutter-test unit", doc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not match document /flutter-pub")
	})

	t.Run("required option must be supplied", func(t *testing.T) {
		required := &skilldoc.Document{
			CommandName: "flutter-build",
			Options: []skilldoc.Option{
				{Name: "--flavor", Description: "Build flavor", Default: "required"},
			},
		}

		_, err := Parse("/flutter-build", required)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing required flag --flavor")

		inv, err := Parse("/flutter-build --flavor staging", required)
		require.NoError(t, err)
		assert.Equal(t, "staging", inv.Flags["flavor"])
	})

	t.Run("document without subcommands takes positionals directly", func(t *testing.T) {
		clean := &skilldoc.Document{CommandName: "flutter-clean"}
		inv, err := Parse("/flutter-clean build", clean)
		require.NoError(t, err)
		assert.Empty(t, inv.Subcommand)
		assert.Equal(t, []string{"build"}, inv.Positionals)
	})
}

func TestRegistryResolve(t *testing.T) {
	registry := NewRegistry()
	doc := pubDoc()

	t.Run("full command line in declaration order", func(t *testing.T) {
		inv, err := Parse("/flutter-pub add dio http --dev --directory packages/app", doc)
		require.NoError(t, err)

		argv, err := registry.Resolve(inv)
		require.NoError(t, err)
		assert.Equal(t, []string{
			"flutter", "pub", "add", "dio", "http", "--dev", "--directory", "packages/app",
		}, argv)
	})

	t.Run("false boolean flags are omitted", func(t *testing.T) {
		inv, err := Parse("/flutter-pub get", doc)
		require.NoError(t, err)

		argv, err := registry.Resolve(inv)
		require.NoError(t, err)
		assert.Equal(t, []string{"flutter", "pub", "get", "--directory", "."}, argv)
	})

	t.Run("unregistered command", func(t *testing.T) {
		inv := &Invocation{
			Command: "flutter-unknown",
			Doc:     &skilldoc.Document{CommandName: "flutter-unknown"},
		}
		_, err := registry.Resolve(inv)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no toolchain registered")
	})
}

func TestRegistryNetworkFlags(t *testing.T) {
	registry := NewRegistry()

	pub, ok := registry.Lookup("flutter-pub")
	require.True(t, ok)
	assert.True(t, pub.IsNetworked("get"))
	assert.True(t, pub.IsNetworked("add"))
	assert.False(t, pub.IsNetworked("deps"))

	firebase, ok := registry.Lookup("flutter-firebase")
	require.True(t, ok)
	assert.True(t, firebase.IsNetworked("deploy"))

	test, ok := registry.Lookup("flutter-test")
	require.True(t, ok)
	assert.False(t, test.IsNetworked("unit"))
}
