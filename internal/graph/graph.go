// Package graph turns package listings into dependency trees and answers
// questions about them.
package graph

import (
	"sort"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

type pending struct {
	node    *entities.DependencyTreeNode
	listing *entities.PackageListing
}

// BuildTree converts a nested listing into a tree rooted at name. Children are
// ordered by name, depth grows by one per level and every node's Size is its own
// size plus the aggregate size of its children. The walk uses an explicit stack,
// so deep listings cannot exhaust the goroutine stack.
func BuildTree(name string, listing *entities.PackageListing) *entities.DependencyTreeNode {
	root := &entities.DependencyTreeNode{Name: name}
	if listing == nil {
		return root
	}
	root.Version = listing.Version
	root.Size = listing.Size

	// order holds every node in pre-order; walking it backwards visits children
	// before their parents.
	var order []*entities.DependencyTreeNode
	stack := []pending{{node: root, listing: listing}}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		order = append(order, current.node)

		names := make([]string, 0, len(current.listing.Dependencies))
		for childName := range current.listing.Dependencies {
			names = append(names, childName)
		}
		sort.Strings(names)

		current.node.Dependencies = make([]*entities.DependencyTreeNode, 0, len(names))
		for _, childName := range names {
			childListing := current.listing.Dependencies[childName]
			if childListing == nil {
				childListing = &entities.PackageListing{}
			}
			child := &entities.DependencyTreeNode{
				Name:    childName,
				Version: childListing.Version,
				Depth:   current.node.Depth + 1,
				Size:    childListing.Size,
			}
			current.node.Dependencies = append(current.node.Dependencies, child)
			stack = append(stack, pending{node: child, listing: childListing})
		}
	}

	for i := len(order) - 1; i >= 0; i-- {
		for _, child := range order[i].Dependencies {
			order[i].Size += child.Size
		}
	}
	return root
}

// FindDuplicates groups packages by name and reports every name seen with more
// than one distinct version. Groups and versions keep first-seen order.
func FindDuplicates(packages []entities.NameVersion) []entities.DuplicateGroup {
	var names []string
	versions := make(map[string][]string)
	for _, pkg := range packages {
		seen, known := versions[pkg.Name]
		if !known {
			names = append(names, pkg.Name)
		}
		if !containsString(seen, pkg.Version) {
			versions[pkg.Name] = append(seen, pkg.Version)
		}
	}

	var groups []entities.DuplicateGroup
	for _, name := range names {
		if len(versions[name]) > 1 {
			groups = append(groups, entities.DuplicateGroup{Name: name, Versions: versions[name]})
		}
	}
	return groups
}

// Flatten lists every node below root in pre-order.
func Flatten(root *entities.DependencyTreeNode) []entities.NameVersion {
	if root == nil {
		return nil
	}

	var result []entities.NameVersion
	stack := reversed(root.Dependencies)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		result = append(result, entities.NameVersion{Name: node.Name, Version: node.Version})
		stack = append(stack, reversed(node.Dependencies)...)
	}
	return result
}

// Dependents returns the distinct names of the packages below root that depend
// on name directly, in pre-order. The root itself is not reported.
func Dependents(root *entities.DependencyTreeNode, name string) []string {
	if root == nil {
		return nil
	}

	var result []string
	stack := reversed(root.Dependencies)
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, child := range node.Dependencies {
			if child.Name == name {
				if !containsString(result, node.Name) {
					result = append(result, node.Name)
				}
				break
			}
		}
		stack = append(stack, reversed(node.Dependencies)...)
	}
	return result
}

func reversed(nodes []*entities.DependencyTreeNode) []*entities.DependencyTreeNode {
	out := make([]*entities.DependencyTreeNode, len(nodes))
	for i, node := range nodes {
		out[len(nodes)-1-i] = node
	}
	return out
}

func containsString(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
