package rigor

import (
	"fmt"
	"strings"
)

// Version is the engine version shown in the welcome banner.
const Version = "0.1.0"

// Welcome returns the banner printed by the CLI.
func Welcome() string {
	return "You are using Rigor@" + Version
}

// Flavor is a named, fixed plugin list.
type Flavor struct {
	Name    string
	Plugins []Plugin
}

// Bundled flavors.
var (
	// SafeFlavor grants no network access and discards logs. It is the
	// default of New.
	SafeFlavor = Flavor{
		Name:    "safe",
		Plugins: []Plugin{TimersPlugin, FragmentPlugin, ReactiveStatePlugin, NullLoggerPlugin},
	}

	// ModernFlavor adds fetch over http.DefaultClient.
	ModernFlavor = Flavor{
		Name:    "modern",
		Plugins: []Plugin{TimersPlugin, FragmentPlugin, ReactiveStatePlugin, NullLoggerPlugin, FetchPlugin(nil)},
	}

	// DebugFlavor logs through the global zap logger.
	DebugFlavor = Flavor{
		Name:    "debug",
		Plugins: []Plugin{TimersPlugin, ConsoleLoggerPlugin(nil), FragmentPlugin, ReactiveStatePlugin},
	}
)

// Flavors returns the bundled flavors.
func Flavors() []Flavor {
	return []Flavor{SafeFlavor, ModernFlavor, DebugFlavor}
}

// FlavorByName looks up a bundled flavor, ignoring case.
func FlavorByName(name string) (Flavor, error) {
	for _, f := range Flavors() {
		if strings.EqualFold(f.Name, name) {
			return f, nil
		}
	}
	return Flavor{}, fmt.Errorf("%w: %q", ErrUnknownFlavor, name)
}

// With returns a copy of f with extra plugins appended, so they override
// the bundle's capabilities of the same name.
func (f Flavor) With(plugins ...Plugin) Flavor {
	out := Flavor{Name: f.Name, Plugins: make([]Plugin, 0, len(f.Plugins)+len(plugins))}
	out.Plugins = append(out.Plugins, f.Plugins...)
	out.Plugins = append(out.Plugins, plugins...)
	return out
}
