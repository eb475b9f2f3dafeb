// Package pkg provides the core libraries for autoremove.
//
// # Overview
//
// autoremove finds the installed Python packages that become unused once a
// requested set of packages is removed. The pkg directory is organized into:
//
//  1. [catalog] - Installed packages and their requirements, with backends
//     that read a Python environment, site-packages directories or a snapshot
//  2. [graph] - The reverse-dependency graph and cycle elimination
//  3. [autoremove] - Dead-set computation, extras expansion and removal plans
//  4. [uninstall] - Running the package manager
//  5. [config], [errors], [io], [render] - Supporting infrastructure
//
// # Architecture
//
// The data flow for one invocation:
//
//	Python environment / site-packages / snapshot
//	         ↓
//	    [catalog] session (scan once, resolve names)
//	         ↓
//	    [autoremove] planner (graph → dead set → extras → whitelist)
//	         ↓
//	    dead trees, removal order
//	         ↓
//	    [uninstall] (pip uninstall -y ...)
//
// # Quick Start
//
//	import (
//	    "context"
//	    "github.com/matzehuels/autoremove/pkg/autoremove"
//	    "github.com/matzehuels/autoremove/pkg/catalog"
//	    "github.com/matzehuels/autoremove/pkg/catalog/backends"
//	)
//
//	src, _ := backends.Open(ctx, backends.Options{Python: "python3"})
//	session := catalog.NewSession(src, catalog.Options{})
//
//	planner := autoremove.NewPlanner(session, autoremove.Options{IncludeExtras: true})
//	plan, _ := planner.Plan(ctx, []string{"Flask"})
//	for _, t := range plan.Trees {
//	    t.Fprint(os.Stdout)
//	}
package pkg
