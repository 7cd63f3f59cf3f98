// Package sbom exports a dependency tree as a CycloneDX bill of materials.
package sbom

import (
	"fmt"
	"io"
	"strings"

	cdx "github.com/CycloneDX/cyclonedx-go"
	"github.com/google/uuid"

	"github.com/rios0rios0/depwatch/internal/domain/entities"
)

// Build converts the tree into a CycloneDX 1.6 BOM. Each distinct name@version
// becomes one component referenced by its purl; licenses come from the declared
// dependency records and vulnerabilities affect every component of their package.
func Build(
	root *entities.DependencyTreeNode,
	dependencies []entities.Dependency,
	vulnerabilities []entities.Vulnerability,
) *cdx.BOM {
	licenses := make(map[string]string, len(dependencies))
	for _, dep := range dependencies {
		if dep.License != "" {
			licenses[dep.Name] = dep.License
		}
	}

	rootRef := entities.NpmPackageURL(root.Name, root.Version)
	rootComponent := cdx.Component{
		BOMRef:     rootRef,
		Type:       cdx.ComponentTypeApplication,
		Name:       root.Name,
		Version:    root.Version,
		PackageURL: rootRef,
	}

	components := []cdx.Component{}
	edges := map[string][]string{rootRef: {}}
	order := []string{rootRef}
	refsByName := make(map[string][]string)

	stack := []*entities.DependencyTreeNode{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		parentRef := entities.NpmPackageURL(node.Name, node.Version)
		if node == root {
			parentRef = rootRef
		}

		for i := len(node.Dependencies) - 1; i >= 0; i-- {
			child := node.Dependencies[i]
			childRef := entities.NpmPackageURL(child.Name, child.Version)
			if !contains(edges[parentRef], childRef) {
				edges[parentRef] = append(edges[parentRef], childRef)
			}
			if _, known := edges[childRef]; known {
				continue
			}
			edges[childRef] = []string{}
			order = append(order, childRef)
			refsByName[child.Name] = append(refsByName[child.Name], childRef)
			components = append(components, newComponent(child, childRef, licenses[child.Name]))
			stack = append(stack, child)
		}
	}

	cdxDependencies := make([]cdx.Dependency, 0, len(order))
	for _, ref := range order {
		children := edges[ref]
		cdxDependencies = append(cdxDependencies, cdx.Dependency{Ref: ref, Dependencies: &children})
	}

	cdxVulnerabilities := make([]cdx.Vulnerability, 0, len(vulnerabilities))
	for _, vuln := range vulnerabilities {
		cdxVulnerabilities = append(cdxVulnerabilities, newVulnerability(vuln, refsByName[vuln.Dependency]))
	}

	bom := cdx.NewBOM()
	bom.SpecVersion = cdx.SpecVersion1_6
	bom.SerialNumber = "urn:uuid:" + uuid.New().String()
	bom.Metadata = &cdx.Metadata{
		Component: &rootComponent,
		Tools: &cdx.ToolsChoice{
			Components: &[]cdx.Component{{Type: cdx.ComponentTypeApplication, Name: "depwatch"}},
		},
	}
	bom.Components = &components
	bom.Dependencies = &cdxDependencies
	if len(cdxVulnerabilities) > 0 {
		bom.Vulnerabilities = &cdxVulnerabilities
	}
	return bom
}

// Write encodes the BOM as indented JSON.
func Write(w io.Writer, bom *cdx.BOM) error {
	if err := cdx.NewBOMEncoder(w, cdx.BOMFileFormatJSON).SetPretty(true).Encode(bom); err != nil {
		return fmt.Errorf("failed to encode SBOM: %w", err)
	}
	return nil
}

func newComponent(node *entities.DependencyTreeNode, ref, licenseID string) cdx.Component {
	component := cdx.Component{
		BOMRef:     ref,
		Type:       cdx.ComponentTypeLibrary,
		Name:       node.Name,
		Version:    node.Version,
		PackageURL: ref,
	}
	if scope, name, ok := strings.Cut(node.Name, "/"); ok && strings.HasPrefix(scope, "@") {
		component.Group = scope
		component.Name = name
	}
	if licenseID != "" {
		component.Licenses = licenseChoices(licenseID)
	}
	return component
}

func licenseChoices(licenseID string) *cdx.Licenses {
	// compound SPDX expressions cannot be carried as a single license id
	if strings.ContainsAny(licenseID, " ()") {
		return &cdx.Licenses{{Expression: licenseID}}
	}
	return &cdx.Licenses{{License: &cdx.License{ID: licenseID}}}
}

func newVulnerability(vuln entities.Vulnerability, refs []string) cdx.Vulnerability {
	affects := make([]cdx.Affects, 0, len(refs))
	for _, ref := range refs {
		affects = append(affects, cdx.Affects{Ref: ref})
	}

	result := cdx.Vulnerability{
		ID:          vuln.ID,
		Description: vuln.Title,
		Detail:      vuln.Description,
		Ratings:     &[]cdx.VulnerabilityRating{{Severity: cdxSeverity(vuln.Severity)}},
		Affects:     &affects,
	}
	if vuln.Source != "" {
		result.Source = &cdx.Source{Name: vuln.Source}
	}
	if vuln.Recommendation != "" {
		result.Recommendation = vuln.Recommendation
	}
	return result
}

func cdxSeverity(severity entities.Severity) cdx.Severity {
	switch severity {
	case entities.SeverityCritical:
		return cdx.SeverityCritical
	case entities.SeverityHigh:
		return cdx.SeverityHigh
	case entities.SeverityModerate:
		return cdx.SeverityMedium
	case entities.SeverityLow:
		return cdx.SeverityLow
	default:
		return cdx.SeverityUnknown
	}
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
