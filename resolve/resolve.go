package resolve

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/ernesto27/typeadd/registry"
)

// DevMarker is the per-package suffix that forces a single package into
// the dev-dependency group: `typeadd lodash 'typescript$D'`
const DevMarker = "$D"

type Status int

const (
	StatusError Status = iota
	StatusWarn
	StatusOK
)

func (s Status) String() string {
	switch s {
	case StatusError:
		return "error"
	case StatusWarn:
		return "warn"
	case StatusOK:
		return "ok"
	}
	return "unknown"
}

// Outcome is the resolution result for a single input identifier.
type Outcome struct {
	Package string
	Version string
	Status  Status
	Message string

	// DeclarationPackage is the @types companion to install alongside the
	// package. Set only when declarations were found externally.
	DeclarationPackage string

	Dev bool
}

// builtInTypesRegex matches the registry page banner shown for packages
// that ship their own declarations. It is a loose substring match against
// the page HTML, so a package description quoting the phrase would
// classify as a false positive.
var builtInTypesRegex = regexp.MustCompile(`This package contains built-in TypeScript declarations`)

// packageNameRegex is the npm package name grammar. Names are later
// interpolated into a shell command, so anything outside the grammar is
// rejected before any lookup happens.
var packageNameRegex = regexp.MustCompile(`^(@[a-z0-9-~][a-z0-9-._~]*/)?[a-z0-9-~][a-z0-9-._~]*$`)

// ParseIdentifier splits a raw argument into package name, version spec
// and forced-dev marker. The version split is scoped-package aware:
// "@babel/core@^7.0.0" yields name "@babel/core".
func ParseIdentifier(raw string) (name, version string, dev bool) {
	if strings.HasSuffix(raw, DevMarker) {
		raw = strings.TrimSuffix(raw, DevMarker)
		dev = true
	}

	name = raw
	if at := strings.LastIndex(raw, "@"); at > 0 {
		name = raw[:at]
		version = raw[at+1:]
	}

	return name, version, dev
}

// TypesPackage returns the DefinitelyTyped companion name for a package.
// Scoped packages follow the @types convention: @scope/name becomes
// @types/scope__name.
func TypesPackage(name string) string {
	if strings.HasPrefix(name, "@") {
		return "@types/" + strings.Replace(strings.TrimPrefix(name, "@"), "/", "__", 1)
	}
	return "@types/" + name
}

// HasBuiltInTypes reports whether a registry page body states that the
// package ships its own type declarations.
func HasBuiltInTypes(body string) bool {
	return builtInTypesRegex.MatchString(body)
}

// ValidName reports whether name conforms to the npm package name grammar.
func ValidName(name string) bool {
	return packageNameRegex.MatchString(name)
}

// Resolver runs the per-package classification against the registry.
type Resolver struct {
	client   *registry.Client
	resolved func()
}

// NewResolver creates a Resolver. resolved, if non-nil, is called once per
// package as it finishes (used for progress reporting) and must be safe
// for concurrent use.
func NewResolver(client *registry.Client, resolved func()) *Resolver {
	return &Resolver{
		client:   client,
		resolved: resolved,
	}
}

// ResolveAll resolves every identifier concurrently and waits for all of
// them. Results are indexed by input position, so the returned slice is
// always 1:1 with ids regardless of completion order.
func (r *Resolver) ResolveAll(ids []string, forceDev bool) []Outcome {
	outcomes := make([]Outcome, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, raw string) {
			defer wg.Done()
			outcomes[i] = r.resolve(raw, forceDev)
			if r.resolved != nil {
				r.resolved()
			}
		}(i, id)
	}
	wg.Wait()

	return outcomes
}

func (r *Resolver) resolve(raw string, forceDev bool) Outcome {
	name, version, dev := ParseIdentifier(raw)

	out := Outcome{
		Package: name,
		Version: version,
		Dev:     dev || forceDev,
	}

	if !ValidName(name) {
		out.Status = StatusError
		out.Message = fmt.Sprintf("invalid package name %q", name)
		return out
	}

	if err := validateVersion(version); err != nil {
		out.Status = StatusError
		out.Message = err.Error()
		return out
	}

	body, err := r.client.PageText(name)
	if err != nil {
		out.Status = StatusError
		out.Message = err.Error()
		return out
	}

	if HasBuiltInTypes(body) {
		out.Status = StatusOK
		out.Message = "types already exist"
		return out
	}

	typesPkg := TypesPackage(name)
	if _, err := r.client.PageText(typesPkg); err != nil {
		out.Status = StatusWarn
		out.Message = "declarations not found for " + typesPkg
		return out
	}

	out.Status = StatusOK
	out.Message = "declarations are valid for " + typesPkg
	out.DeclarationPackage = typesPkg
	return out
}

// distTagRegex matches identifier-shaped dist-tags (latest, next, beta,
// canary, rc-1). Tags starting with a digit stay rejected so malformed
// numeric versions do not slip through as tags.
var distTagRegex = regexp.MustCompile(`^[a-z][a-z0-9._-]*$`)

func validateVersion(version string) error {
	if version == "" {
		return nil
	}

	if _, err := semver.NewConstraint(version); err != nil {
		// Unparseable specs may still be dist-tags, passed through as-is
		if distTagRegex.MatchString(version) {
			return nil
		}
		return fmt.Errorf("invalid version %q: %w", version, err)
	}
	return nil
}
