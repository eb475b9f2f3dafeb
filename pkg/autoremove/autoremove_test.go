package autoremove

import (
	"context"
	"strings"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/autoremove/pkg/catalog"
	"github.com/matzehuels/autoremove/pkg/graph"
)

func pkg(name, version string, reqs ...string) catalog.Package {
	return catalog.Package{
		Name:         name,
		Version:      version,
		Location:     "/site",
		Requirements: catalog.ParseRequirements(reqs, nil),
	}
}

func withExtras(p catalog.Package, extras ...string) catalog.Package {
	p.Extras = extras
	return p
}

func newCatalog(pkgs ...catalog.Package) catalog.Catalog {
	return catalog.NewSession(catalog.Static(pkgs), catalog.Options{})
}

func set(ids ...string) mapset.Set[string] {
	return mapset.NewThreadUnsafeSet(ids...)
}

func names(pkgs []catalog.Package) []string {
	var out []string
	for _, p := range pkgs {
		out = append(out, p.Name)
	}
	return out
}

// flaskEnv is a small environment with one application and its dependencies.
func flaskEnv() []catalog.Package {
	return []catalog.Package{
		pkg("Flask", "3.0.0", "Werkzeug>=3.0.0", "Jinja2>=3.1.2", "itsdangerous>=2.1.2"),
		pkg("Jinja2", "3.1.2", "MarkupSafe>=2.0"),
		pkg("MarkupSafe", "2.1.3"),
		pkg("Werkzeug", "3.0.1", "MarkupSafe>=2.1.1"),
		pkg("itsdangerous", "2.1.2"),
		pkg("pip", "24.0"),
		pkg("setuptools", "69.0.0"),
	}
}

// flaskGraph is the dependency graph of flaskEnv.
func flaskGraph() *graph.Graph {
	return graph.FromDependents(map[string][]string{
		"Flask":        nil,
		"Jinja2":       {"Flask"},
		"MarkupSafe":   {"Jinja2"},
		"Werkzeug":     {"Flask"},
		"itsdangerous": {"Flask"},
		"pip":          nil,
		"setuptools":   nil,
	})
}

func TestFindAllDead_RemovesUnsharedDependencies(t *testing.T) {
	got := sortedIDs(FindAllDead(flaskGraph(), set("Flask")))
	want := []string{"Flask", "Jinja2", "MarkupSafe", "Werkzeug", "itsdangerous"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FindAllDead() mismatch (-want +got):\n%s", diff)
	}
}

func TestFindAllDead_SharedDependencySurvives(t *testing.T) {
	g := graph.FromDependents(map[string][]string{
		"app":    nil,
		"other":  nil,
		"shared": {"app", "other"},
		"only":   {"app"},
	})
	got := sortedIDs(FindAllDead(g, set("app")))
	if diff := cmp.Diff([]string{"app", "only"}, got); diff != "" {
		t.Errorf("FindAllDead() mismatch (-want +got):\n%s", diff)
	}
}

func TestFindAllDead_DoesNotModifySeed(t *testing.T) {
	seed := set("Flask")
	FindAllDead(flaskGraph(), seed)
	if seed.Cardinality() != 1 {
		t.Errorf("seed modified: %v", seed)
	}
}

func TestFindAllDead_Properties(t *testing.T) {
	g := graph.FromDependents(map[string][]string{
		"a": nil,
		"b": nil,
		"c": {"a"},
		"d": {"a", "b"},
		"e": {"c", "d"},
		"f": {"e"},
		"g": nil,
		"h": {"g", "f"},
	})
	seeds := [][]string{{}, {"a"}, {"b"}, {"a", "b"}, {"a", "b", "g"}, {"c"}, {"g"}}

	t.Run("idempotence", func(t *testing.T) {
		for _, s := range seeds {
			once := FindAllDead(g, set(s...))
			twice := FindAllDead(g, once)
			if !once.Equal(twice) {
				t.Errorf("seed %v: FindAllDead twice = %v, want %v", s, sortedIDs(twice), sortedIDs(once))
			}
		}
	})

	t.Run("monotonicity", func(t *testing.T) {
		for _, s1 := range seeds {
			for _, s2 := range seeds {
				if !set(s1...).IsSubset(set(s2...)) {
					continue
				}
				d1, d2 := FindAllDead(g, set(s1...)), FindAllDead(g, set(s2...))
				if !d1.IsSubset(d2) {
					t.Errorf("seeds %v ⊆ %v but dead %v ⊄ %v", s1, s2, sortedIDs(d1), sortedIDs(d2))
				}
			}
		}
	})

	t.Run("leaf preservation", func(t *testing.T) {
		for _, s := range seeds {
			dead := FindAllDead(g, set(s...))
			for _, leaf := range g.Leaves() {
				if dead.Contains(leaf) && !set(s...).Contains(leaf) {
					t.Errorf("seed %v: unseeded leaf %s is dead", s, leaf)
				}
			}
		}
	})
}

func TestWhitelist_Exclude(t *testing.T) {
	wl := NewWhitelist("pip", "Setup_Tools")
	got := sortedIDs(wl.Exclude(set("app", "pip", "setup-tools", "six")))
	if diff := cmp.Diff([]string{"app", "six"}, got); diff != "" {
		t.Errorf("Exclude() mismatch (-want +got):\n%s", diff)
	}
	if !wl.Contains("PIP") {
		t.Error("Contains(PIP) = false, want true")
	}
}

func TestRemovalOrder(t *testing.T) {
	tests := []struct {
		name string
		deps map[string][]string
		dead []string
		want []string
	}{
		{
			name: "dependents first",
			deps: map[string][]string{"app": nil, "a-lib": {"app"}},
			dead: []string{"app", "a-lib"},
			want: []string{"app", "a-lib"},
		},
		{
			name: "chain",
			deps: map[string][]string{"z": nil, "m": {"z"}, "a": {"m"}},
			dead: []string{"a", "m", "z"},
			want: []string{"z", "m", "a"},
		},
		{
			name: "cycle falls back to name order",
			deps: map[string][]string{"a": {"b"}, "b": {"a"}},
			dead: []string{"a", "b"},
			want: []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RemovalOrder(graph.FromDependents(tt.deps), set(tt.dead...))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("RemovalOrder() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildGraph(t *testing.T) {
	cat := newCatalog(append(flaskEnv(),
		pkg("selfish", "1.0", "selfish", "missing-dep"),
	)...)

	var logged []string
	g, err := BuildGraph(context.Background(), cat, Options{
		Logger: func(msg string, args ...any) { logged = append(logged, msg) },
	})
	if err != nil {
		t.Fatalf("BuildGraph() error: %v", err)
	}

	if got := g.NodeCount(); got != 8 {
		t.Errorf("NodeCount() = %d, want 8", got)
	}
	if diff := cmp.Diff([]string{"jinja2", "werkzeug"}, g.Dependents("markupsafe")); diff != "" {
		t.Errorf("Dependents(markupsafe) mismatch (-want +got):\n%s", diff)
	}
	if g.DependentCount("selfish") != 0 || len(g.Requirements("selfish")) != 0 {
		t.Error("self-requirement or missing requirement produced an edge")
	}
	if len(logged) != 1 {
		t.Errorf("logged %d messages, want 1 (missing-dep)", len(logged))
	}
	n, _ := g.Node("markupsafe")
	if n.Meta[MetaVersion] != "2.1.3" || n.Meta[MetaLabel] != "MarkupSafe" {
		t.Errorf("markupsafe meta = %v", n.Meta)
	}
}

func jsonschemaEnv() []catalog.Package {
	return []catalog.Package{
		withExtras(pkg("jsonschema", "4.17.3",
			"attrs>=17.4.0",
			`webcolors>=1.11; extra == "format"`,
			`sphinx; extra == "docs"`,
		), "format", "docs"),
		pkg("attrs", "23.1.0"),
		pkg("webcolors", "1.13"),
		pkg("sphinx", "7.2.6"),
		pkg("pip", "24.0"),
		pkg("setuptools", "69.0.0"),
	}
}

func TestBuildGraph_Extras(t *testing.T) {
	cat := newCatalog(jsonschemaEnv()...)
	g, err := BuildGraph(context.Background(), cat, Options{IncludeExtras: true})
	if err != nil {
		t.Fatalf("BuildGraph() error: %v", err)
	}
	if !g.HasEdge("webcolors", "jsonschema") {
		t.Error("missing extras edge webcolors <- jsonschema")
	}
	if g.HasEdge("sphinx", "jsonschema") {
		t.Error("restricted extra docs produced an edge")
	}
}

func TestPlan_RemovesApplicationTree(t *testing.T) {
	pl := NewPlanner(newCatalog(flaskEnv()...), Options{})
	plan, err := pl.Plan(context.Background(), []string{"flask"})
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}

	want := []string{"flask", "itsdangerous", "jinja2", "markupsafe", "werkzeug"}
	if diff := cmp.Diff(want, names(plan.Dead)); diff != "" {
		t.Errorf("Dead mismatch (-want +got):\n%s", diff)
	}
	if plan.Order[0] != "flask" {
		t.Errorf("Order[0] = %q, want flask", plan.Order[0])
	}
	if got := plan.Names(); got[0] != "Flask" || len(got) != 5 {
		t.Errorf("Names() = %v", got)
	}

	var buf strings.Builder
	if err := plan.Trees[0].Fprint(&buf); err != nil {
		t.Fatal(err)
	}
	wantTree := `Flask 3.0.0 (/site)
    itsdangerous 2.1.2 (/site)
    Jinja2 3.1.2 (/site)
        MarkupSafe 2.1.3 (/site)
    Werkzeug 3.0.1 (/site)
`
	if diff := cmp.Diff(wantTree, buf.String()); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
	if got := plan.Trees[0].Len(); got != 5 {
		t.Errorf("Trees[0].Len() = %d, want 5", got)
	}
}

func TestPlan_SkipsUnknownNames(t *testing.T) {
	var logged []string
	pl := NewPlanner(newCatalog(flaskEnv()...), Options{
		Logger: func(msg string, args ...any) { logged = append(logged, msg) },
	})
	plan, err := pl.Plan(context.Background(), []string{"nope", "itsdangerous", "ItsDangerous"})
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	if diff := cmp.Diff([]string{"nope"}, plan.Skipped); diff != "" {
		t.Errorf("Skipped mismatch (-want +got):\n%s", diff)
	}
	if len(plan.Seeds) != 1 {
		t.Errorf("Seeds = %v, want one deduplicated seed", names(plan.Seeds))
	}
	if len(logged) != 1 {
		t.Errorf("logged %d messages, want 1", len(logged))
	}
}

func TestPlan_NothingInstalled(t *testing.T) {
	pl := NewPlanner(newCatalog(flaskEnv()...), Options{})
	plan, err := pl.Plan(context.Background(), []string{"missing"})
	if err != nil {
		t.Fatalf("Plan() error: %v", err)
	}
	if !plan.Empty() {
		t.Errorf("Plan().Dead = %v, want empty", names(plan.Dead))
	}
}

func TestPlan_ExtrasOrphanRemoved(t *testing.T) {
	tests := []struct {
		name          string
		includeExtras bool
		want          []string
	}{
		{"without extras", false, []string{"attrs", "jsonschema"}},
		{"with extras", true, []string{"attrs", "jsonschema", "webcolors"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pl := NewPlanner(newCatalog(jsonschemaEnv()...), Options{IncludeExtras: tt.includeExtras})
			plan, err := pl.Plan(context.Background(), []string{"jsonschema"})
			if err != nil {
				t.Fatalf("Plan() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, names(plan.Dead)); diff != "" {
				t.Errorf("Dead mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPlan_WhitelistPostFilter(t *testing.T) {
	env := []catalog.Package{
		pkg("app", "1.0", "pip"),
		pkg("pip", "24.0", "resolvelib"),
		pkg("resolvelib", "1.0.1"),
		pkg("setuptools", "69.0.0"),
	}

	tests := []struct {
		name      string
		whitelist []string
		want      []string
	}{
		{"default whitelist", nil, []string{"app", "resolvelib"}},
		{"extra whitelist", []string{"ResolveLib"}, []string{"app"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pl := NewPlanner(newCatalog(env...), Options{Whitelist: tt.whitelist})
			plan, err := pl.Plan(context.Background(), []string{"app"})
			if err != nil {
				t.Fatalf("Plan() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, names(plan.Dead)); diff != "" {
				t.Errorf("Dead mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

// mutualExtrasEnv has two packages that require each other, each only under
// one of its extras. The extras graph starts out cyclic.
func mutualExtrasEnv() []catalog.Package {
	return []catalog.Package{
		withExtras(pkg("a", "1.0", `b; extra == "x"`), "x"),
		withExtras(pkg("b", "1.0", `a; extra == "y"`), "y"),
		pkg("pip", "24.0"),
	}
}

func TestBuildGraph_BreaksExtrasCycle(t *testing.T) {
	g, err := BuildGraph(context.Background(), newCatalog(mutualExtrasEnv()...), Options{IncludeExtras: true})
	if err != nil {
		t.Fatalf("BuildGraph() error: %v", err)
	}
	if graph.HasCycle(g) {
		t.Fatal("graph still has a cycle")
	}
	// Both candidate edges score the same; the first one in cycle order goes.
	// Deterministic but arbitrary.
	if g.HasEdge("a", "b") || !g.HasEdge("b", "a") {
		t.Errorf("edges = %v, want only b <- a", g.ToDependents())
	}
}

func TestExpandExtras_FollowsOrphans(t *testing.T) {
	ctx := context.Background()
	cat := newCatalog(mutualExtrasEnv()...)

	g, err := BuildGraph(ctx, cat, Options{IncludeExtras: true})
	if err != nil {
		t.Fatal(err)
	}
	// a is a leaf of the extras graph, so seeding b alone kills nothing else.
	if got := sortedIDs(FindAllDead(g, set("b"))); !cmp.Equal(got, []string{"b"}) {
		t.Fatalf("FindAllDead(b) = %v, want [b]", got)
	}

	var rounds int
	got, err := ExpandExtras(ctx, cat, g, set("b"), Options{
		Logger: func(msg string, args ...any) {
			if strings.HasPrefix(msg, "round") {
				rounds++
			}
		},
	})
	if err != nil {
		t.Fatalf("ExpandExtras() error: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, sortedIDs(got)); diff != "" {
		t.Errorf("ExpandExtras() mismatch (-want +got):\n%s", diff)
	}
	if rounds != 1 {
		t.Errorf("orphan rounds = %d, want 1", rounds)
	}
}

func TestExpandExtras_RestrictedExtrasIgnored(t *testing.T) {
	ctx := context.Background()
	cat := newCatalog(
		withExtras(pkg("a", "1.0", `b; extra == "testing"`), "testing"),
		pkg("b", "1.0"),
	)
	g, err := BuildGraph(ctx, cat, Options{IncludeExtras: true})
	if err != nil {
		t.Fatal(err)
	}
	got, err := ExpandExtras(ctx, cat, g, set("a"), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a"}, sortedIDs(got)); diff != "" {
		t.Errorf("ExpandExtras() mismatch (-want +got):\n%s", diff)
	}
}

func TestPlanner_Leaves(t *testing.T) {
	tests := []struct {
		name          string
		includeExtras bool
		want          []string
	}{
		{"base", false, []string{"jsonschema", "pip", "setuptools", "sphinx", "webcolors"}},
		{"extras", true, []string{"jsonschema", "pip", "setuptools", "sphinx"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pl := NewPlanner(newCatalog(jsonschemaEnv()...), Options{IncludeExtras: tt.includeExtras})
			leaves, err := pl.Leaves(context.Background())
			if err != nil {
				t.Fatalf("Leaves() error: %v", err)
			}
			if diff := cmp.Diff(tt.want, names(leaves)); diff != "" {
				t.Errorf("Leaves() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
