package resolver

import "testing"

func fakeFS(paths ...string) Exists {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[toForwardSlash(p)] = struct{}{}
	}
	return func(path string) bool {
		_, ok := set[toForwardSlash(path)]
		return ok
	}
}

func TestResolve_Relative(t *testing.T) {
	fs := fakeFS("/proj/src/utils.ts")
	r := New("/proj", nil, fs)

	got, ok := r.Resolve("./utils", "/proj/src/index.ts")
	if !ok || got != "/proj/src/utils.ts" {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestResolve_RelativeIndex(t *testing.T) {
	fs := fakeFS("/proj/src/widgets/index.tsx")
	r := New("/proj", nil, fs)

	got, ok := r.Resolve("./widgets", "/proj/src/index.ts")
	if !ok || got != "/proj/src/widgets/index.tsx" {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestResolve_AliasWildcard(t *testing.T) {
	fs := fakeFS("/proj/src/components/Button.tsx")
	aliases := []Alias{{Prefix: "@components/*", Targets: []string{"/proj/src/components/*"}}}
	r := New("/proj", aliases, fs)

	got, ok := r.Resolve("@components/Button", "/proj/src/app/page.ts")
	if !ok || got != "/proj/src/components/Button.tsx" {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestResolve_AliasLongestPrefixWins(t *testing.T) {
	fs := fakeFS("/proj/src/shared/ui/Button.tsx")
	aliases := []Alias{
		{Prefix: "@/*", Targets: []string{"/proj/src/*"}},
		{Prefix: "@/ui/*", Targets: []string{"/proj/src/shared/ui/*"}},
	}
	r := New("/proj", aliases, fs)

	got, ok := r.Resolve("@/ui/Button", "/proj/src/app/page.ts")
	if !ok || got != "/proj/src/shared/ui/Button.tsx" {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestResolve_ExternalPackageUnresolved(t *testing.T) {
	fs := fakeFS()
	r := New("/proj", nil, fs)

	_, ok := r.Resolve("react", "/proj/src/index.ts")
	if ok {
		t.Fatalf("expected react to be unresolvable")
	}
}

func TestResolve_NotFoundIsNotFatal(t *testing.T) {
	fs := fakeFS()
	r := New("/proj", nil, fs)

	_, ok := r.Resolve("./missing", "/proj/src/index.ts")
	if ok {
		t.Fatalf("expected missing relative file to be unresolved, not an error")
	}
}
