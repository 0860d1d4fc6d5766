package forge

import "strings"

// Environment is the target project kind of a generation request. It
// selects prompt rules and default scaffolding.
type Environment string

const (
	EnvComponentApp  Environment = "component-app"
	EnvTemplatedSite Environment = "templated-site"
	EnvStaticSite    Environment = "static-site"
)

// environmentAliases maps legacy environment names to environments.
var environmentAliases = map[string]Environment{
	"react":     EnvComponentApp,
	"wordpress": EnvTemplatedSite,
	"html":      EnvStaticSite,
}

// ParseEnvironment resolves an environment name or legacy alias,
// case-insensitively. It reports false for unrecognized names.
func ParseEnvironment(s string) (Environment, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch env := Environment(name); env {
	case EnvComponentApp, EnvTemplatedSite, EnvStaticSite:
		return env, true
	}
	env, ok := environmentAliases[name]
	return env, ok
}

// ResolveEnvironment is like ParseEnvironment but falls back to
// EnvComponentApp for empty or unrecognized names.
func ResolveEnvironment(s string) Environment {
	if env, ok := ParseEnvironment(s); ok {
		return env
	}
	return EnvComponentApp
}

// EnvironmentSpec describes the rules and scaffold of an environment.
type EnvironmentSpec struct {
	ID           Environment
	Name         string
	CodeGenRules string
	EnhanceRules string
	DefaultFiles []File
	// ForbiddenPaths are doublestar patterns generated files must not match.
	ForbiddenPaths []string
}

// Spec returns the registry entry for e. Unknown environments get the
// component-app entry.
func (e Environment) Spec() EnvironmentSpec {
	switch e {
	case EnvTemplatedSite:
		return EnvironmentSpec{
			ID:             EnvTemplatedSite,
			Name:           "WordPress",
			CodeGenRules:   templatedSiteCodeGenRules,
			EnhanceRules:   templatedSiteEnhanceRules,
			DefaultFiles:   templatedSiteDefaults,
			ForbiddenPaths: []string{"/node_modules/**", "/**/*.jsx"},
		}
	case EnvStaticSite:
		return EnvironmentSpec{
			ID:             EnvStaticSite,
			Name:           "HTML",
			CodeGenRules:   staticSiteCodeGenRules,
			EnhanceRules:   staticSiteEnhanceRules,
			DefaultFiles:   staticSiteDefaults,
			ForbiddenPaths: []string{"/node_modules/**", "/**/*.php"},
		}
	default:
		return EnvironmentSpec{
			ID:             EnvComponentApp,
			Name:           "React",
			CodeGenRules:   componentAppCodeGenRules,
			EnhanceRules:   componentAppEnhanceRules,
			DefaultFiles:   componentAppDefaults,
			ForbiddenPaths: []string{"/src/**", "/App.jsx", "/node_modules/**"},
		}
	}
}
