// Package autoremove decides which installed packages can be removed along
// with the ones a user asks to uninstall.
//
// # Overview
//
// Removing a package leaves its dependencies behind. A dependency is dead
// when every package that requires it is itself being removed. Starting from
// the requested packages (the seed), [FindAllDead] applies that rule until
// nothing changes:
//
//	g, _ := autoremove.BuildGraph(ctx, cat, autoremove.Options{})
//	dead := autoremove.FindAllDead(g, mapset.NewThreadUnsafeSet("flask"))
//
// Packages nothing requires are never added unless seeded, so top-level
// applications the user installed on purpose are left alone. The package
// manager itself (pip, setuptools) is filtered out of the result afterwards
// by a [Whitelist].
//
// # Extras
//
// Some packages are installed only to satisfy an optional feature, such as
// webcolors for jsonschema[format]. With [Options.IncludeExtras] the graph
// also carries edges for requirements of non-restricted extras, and
// [ExpandExtras] keeps folding in packages that a dead package pulled in
// through its extras and that nothing else needs. Extras whose name contains
// "dev", "test" or "doc" are ignored; the match is by substring.
//
// # Planning
//
// [Planner] ties the pieces together for a command line front end: it
// resolves the requested names, computes the dead set, orders it for removal
// and builds a [Tree] per requested package explaining the result.
//
//	pl := autoremove.NewPlanner(session, autoremove.Options{IncludeExtras: true})
//	plan, err := pl.Plan(ctx, []string{"jsonschema"})
//
// Nothing in this package uninstalls anything; see package uninstall.
package autoremove
