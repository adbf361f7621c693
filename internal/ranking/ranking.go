// Package ranking narrows a usage report to the controllers a caller asked
// about.
package ranking

import (
	"strings"

	"github.com/phobologic/stimref/internal/model"
)

// SelectControllers returns a new report with only the top-ranked
// controllers. If maxControllers is <= 0 or covers every controller, the
// report is returned unchanged.
func SelectControllers(rep *model.UsageReport, maxControllers int) *model.UsageReport {
	if maxControllers <= 0 || maxControllers >= len(rep.Controllers) {
		return rep
	}
	return restrict(rep, rep.Controllers[:maxControllers])
}

// FilterByController returns a new report containing only controllers whose
// identifier contains substr (case-insensitive), with the edges and usages
// that reach them.
func FilterByController(rep *model.UsageReport, substr string) *model.UsageReport {
	lower := strings.ToLower(substr)

	var controllers []model.ControllerUsage
	for i := range rep.Controllers {
		if strings.Contains(strings.ToLower(rep.Controllers[i].Identifier), lower) {
			controllers = append(controllers, rep.Controllers[i])
		}
	}
	return restrict(rep, controllers)
}

// FilterByFile returns a new report containing only usages from markup files
// whose path contains substr (case-insensitive), and the controllers those
// usages reach.
func FilterByFile(rep *model.UsageReport, substr string) *model.UsageReport {
	lower := strings.ToLower(substr)

	matchedFiles := make(map[string]struct{})
	reached := make(map[string]struct{})
	var usages []model.Usage
	for i := range rep.Usages {
		u := &rep.Usages[i]
		if strings.Contains(strings.ToLower(u.File), lower) {
			matchedFiles[u.File] = struct{}{}
			reached[u.Target] = struct{}{}
			usages = append(usages, *u)
		}
	}

	var controllers []model.ControllerUsage
	for i := range rep.Controllers {
		if _, ok := reached[rep.Controllers[i].File]; ok {
			controllers = append(controllers, rep.Controllers[i])
		}
	}

	var deps []model.Dependency
	for i := range rep.Dependencies {
		d := &rep.Dependencies[i]
		if _, ok := matchedFiles[d.Source]; ok {
			deps = append(deps, *d)
		}
	}

	return &model.UsageReport{
		Root:         rep.Root,
		Controllers:  controllers,
		Dependencies: deps,
		Usages:       usages,
	}
}

// restrict keeps the edges and usages that target one of controllers.
func restrict(rep *model.UsageReport, controllers []model.ControllerUsage) *model.UsageReport {
	selected := make(map[string]struct{}, len(controllers))
	for i := range controllers {
		selected[controllers[i].File] = struct{}{}
	}

	var deps []model.Dependency
	for i := range rep.Dependencies {
		d := &rep.Dependencies[i]
		if _, ok := selected[d.Target]; ok {
			deps = append(deps, *d)
		}
	}

	var usages []model.Usage
	for i := range rep.Usages {
		u := &rep.Usages[i]
		if _, ok := selected[u.Target]; ok {
			usages = append(usages, *u)
		}
	}

	return &model.UsageReport{
		Root:         rep.Root,
		Controllers:  controllers,
		Dependencies: deps,
		Usages:       usages,
	}
}
