package linker

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/esmlink/esmlink/internal/graph"
	"github.com/esmlink/esmlink/internal/logger"
)

type starRequest struct {
	importer uint32
	loc      logger.Loc
}

type specificRequest struct {
	importer uint32
	proxy    *graph.SpecificProxy
}

// Propagates re-exported names until no export table changes. Every entry
// only moves forward from absent to known to ambiguous, so this terminates.
// Returns false if an "export {...} from" statement names something that
// was never found.
func (c *linkerContext) resolveExports() bool {
	c.timer.Begin("resolve exports")
	defer c.timer.End("resolve exports")

	modules := c.graph.Modules
	meta := c.graph.Meta
	explicit := make([]map[string]bool, len(modules))
	wantsAll := make([][]starRequest, len(modules))
	wantsSpecific := make([][]specificRequest, len(modules))

	for i := range modules {
		module := &modules[i]
		meta[i].Exports = graph.NewExportTable(module)
		explicit[i] = module.ExplicitAliases()
		for _, star := range module.StarProxies {
			wantsAll[star.SourceIndex] = append(wantsAll[star.SourceIndex], starRequest{importer: uint32(i), loc: star.Loc})
		}
		for j := range module.SpecificProxies {
			proxy := &module.SpecificProxies[j]
			wantsSpecific[proxy.SourceIndex] = append(wantsSpecific[proxy.SourceIndex], specificRequest{importer: uint32(i), proxy: proxy})
		}
	}

	passes := 0
	for changed := true; changed; {
		changed = false
		passes++
		for i := range modules {
			from := meta[i].Exports
			for _, request := range wantsAll[i] {
				if copyStarExports(from, meta[request.importer].Exports, explicit[request.importer], request.loc) {
					changed = true
				}
			}
			for _, request := range wantsSpecific[i] {
				if copySpecificExport(from, meta[request.importer].Exports, request.proxy) {
					changed = true
				}
			}
		}
	}
	logger.Trace().Debug("resolved exports", zap.Int("passes", passes))

	ok := true
	for i := range modules {
		module := &modules[i]
		for _, proxy := range module.SpecificProxies {
			entry, found := meta[i].Exports[proxy.Alias]
			if found && !entry.Ambiguous {
				continue
			}
			other := modules[proxy.SourceIndex].Source.PrettyPath
			text := fmt.Sprintf("No matching export in %q for re-export %q", other, proxy.Name)
			if found {
				text = fmt.Sprintf("Re-export %q is ambiguous because %q has multiple matching exports", proxy.Name, other)
			}
			c.addError(logger.MsgID_Link_UnresolvedReExport, &module.Source, proxy.AliasLoc, text)
			ok = false
		}
	}
	return ok
}

// "export * from" copies every name except "default". Names the importer
// exports explicitly are never touched. A name that arrives from two places
// with different bindings becomes ambiguous.
func copyStarExports(from graph.ExportTable, into graph.ExportTable, explicit map[string]bool, loc logger.Loc) bool {
	changed := false
	for _, alias := range from.SortedAliases() {
		if alias == "default" || explicit[alias] {
			continue
		}
		entry := from[alias]
		existing, ok := into[alias]
		if !ok {
			into[alias] = &graph.ExportEntry{
				Target:    entry.Target,
				AliasLoc:  loc,
				FromStar:  true,
				Ambiguous: entry.Ambiguous,
			}
			changed = true
			continue
		}
		if existing.Ambiguous {
			continue
		}
		if entry.Ambiguous || existing.Target != entry.Target {
			existing.Ambiguous = true
			changed = true
		}
	}
	return changed
}

// "export {name as alias} from" waits until the other module knows "name".
func copySpecificExport(from graph.ExportTable, into graph.ExportTable, proxy *graph.SpecificProxy) bool {
	entry, ok := from[proxy.Name]
	if !ok {
		return false
	}
	existing, ok := into[proxy.Alias]
	if !ok {
		into[proxy.Alias] = &graph.ExportEntry{
			Target:    entry.Target,
			AliasLoc:  proxy.AliasLoc,
			Ambiguous: entry.Ambiguous,
		}
		return true
	}
	if entry.Ambiguous && !existing.Ambiguous {
		existing.Ambiguous = true
		return true
	}
	return false
}
