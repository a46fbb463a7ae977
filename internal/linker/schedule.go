package linker

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/esmlink/esmlink/internal/graph"
	"github.com/esmlink/esmlink/internal/helpers"
	"github.com/esmlink/esmlink/internal/logger"
	"github.com/esmlink/esmlink/internal/runtime"
)

// Computes the evaluation order with the same depth-first search the module
// evaluation algorithm uses. Each module gets a discovery index and the
// lowest discovery index reachable from it ("lowlink"). When a module's
// lowlink equals its own index, it and everything above it on the stack
// form a strongly connected group. Members of a group are emitted in the
// order their traversal finished, which is the order ES module evaluation
// runs their bodies in.
type scheduler struct {
	modules []graph.Module

	index    []int
	lowlink  []int
	finished []int
	onStack  []bool
	selfEdge []bool

	scheduled  []bool
	stack      []uint32
	nextIndex  int
	nextFinish int

	schedule []uint32
	groups   [][]uint32

	// Set when the traversal state is inconsistent, which is a bug
	violation string
}

func newScheduler(modules []graph.Module) *scheduler {
	n := len(modules)
	s := &scheduler{
		modules:   modules,
		index:     make([]int, n),
		lowlink:   make([]int, n),
		finished:  make([]int, n),
		onStack:   make([]bool, n),
		selfEdge:  make([]bool, n),
		scheduled: make([]bool, n),
	}
	for i := range s.index {
		s.index[i] = -1
	}
	return s
}

func (s *scheduler) visit(sourceIndex uint32) bool {
	if s.onStack[sourceIndex] {
		s.violation = "module is already on the stack"
		return false
	}
	s.index[sourceIndex] = s.nextIndex
	s.lowlink[sourceIndex] = s.nextIndex
	s.nextIndex++
	s.stack = append(s.stack, sourceIndex)
	s.onStack[sourceIndex] = true

	for _, dep := range s.modules[sourceIndex].Dependencies {
		switch {
		case dep == runtime.SourceIndex || s.scheduled[dep]:
			// Already evaluated

		case s.index[dep] == -1:
			if !s.visit(dep) {
				return false
			}
			if s.lowlink[dep] < s.lowlink[sourceIndex] {
				s.lowlink[sourceIndex] = s.lowlink[dep]
			}

		case s.onStack[dep]:
			// A live cycle
			if dep == sourceIndex {
				s.selfEdge[sourceIndex] = true
			}
			if s.index[dep] < s.lowlink[sourceIndex] {
				s.lowlink[sourceIndex] = s.index[dep]
			}

		default:
			s.violation = "dependency was visited but is neither scheduled nor on the stack"
			return false
		}
	}

	if s.lowlink[sourceIndex] > s.index[sourceIndex] {
		s.violation = "lowlink is greater than the discovery index"
		return false
	}
	s.finished[sourceIndex] = s.nextFinish
	s.nextFinish++

	if s.lowlink[sourceIndex] == s.index[sourceIndex] {
		var group []uint32
		for {
			last := len(s.stack) - 1
			top := s.stack[last]
			s.stack = s.stack[:last]
			s.onStack[top] = false
			group = append(group, top)
			if top == sourceIndex {
				break
			}
		}
		sort.Slice(group, func(i int, j int) bool {
			return s.finished[group[i]] < s.finished[group[j]]
		})
		for _, member := range group {
			s.scheduled[member] = true
			s.schedule = append(s.schedule, member)
		}
		s.groups = append(s.groups, group)
	}
	return true
}

// A module is cyclic when it can reach itself: it's in a group with other
// modules or it imports itself.
func (s *scheduler) isCyclic(group []uint32, sourceIndex uint32) bool {
	return len(group) > 1 || s.selfEdge[sourceIndex]
}

func (c *linkerContext) scheduleModules() bool {
	c.timer.Begin("schedule")
	defer c.timer.End("schedule")

	entry := c.graph.EntryPoint
	s := newScheduler(c.graph.Modules)
	if !s.visit(entry) {
		c.addError(logger.MsgID_Link_SchedulerInvariant, nil, logger.Loc{}, fmt.Sprintf(
			"Internal error while scheduling %q: %s", c.graph.Modules[entry].Source.PrettyPath, s.violation))
		return false
	}

	// Every module other than the runtime must be reachable, and the schedule
	// holds each reachable one exactly once
	ok := true
	reachable := c.graph.ReachableFiles
	if len(reachable) != len(c.graph.Modules) {
		isReachable := helpers.NewBitSet(uint(len(c.graph.Modules)))
		for _, sourceIndex := range reachable {
			isReachable.SetBit(uint(sourceIndex))
		}
		for i := range c.graph.Modules {
			if !isReachable.HasBit(uint(i)) {
				c.addError(logger.MsgID_Link_UnreachableModule, nil, logger.Loc{}, fmt.Sprintf(
					"Module %q is not reachable from the entry point %q",
					c.graph.Modules[i].Source.PrettyPath, c.graph.Modules[entry].Source.PrettyPath))
				ok = false
			}
		}
	}
	if ok && len(s.schedule) != len(reachable)-1 {
		c.addError(logger.MsgID_Link_SchedulerInvariant, nil, logger.Loc{}, fmt.Sprintf(
			"Internal error while scheduling %q: scheduled %d modules but %d are reachable",
			c.graph.Modules[entry].Source.PrettyPath, len(s.schedule), len(reachable)-1))
		return false
	}

	for i := range c.graph.Meta {
		c.graph.Meta[i].ScheduleIndex = -1
		c.graph.Meta[i].GroupIndex = -1
	}
	for i, sourceIndex := range s.schedule {
		c.graph.Meta[sourceIndex].ScheduleIndex = i
	}
	for groupIndex, group := range s.groups {
		for _, sourceIndex := range group {
			meta := &c.graph.Meta[sourceIndex]
			meta.GroupIndex = groupIndex
			meta.IsCyclic = s.isCyclic(group, sourceIndex)
			if meta.IsCyclic && c.options.ForbidCircularDependencies {
				c.addError(logger.MsgID_Link_CircularDependency, nil, logger.Loc{}, fmt.Sprintf(
					"Circular dependency: %s", c.describeCycle(group)))
				ok = false
				break
			}
		}
	}

	c.schedule = s.schedule
	c.groups = s.groups

	if trace := logger.Trace(); trace.Core().Enabled(zap.DebugLevel) {
		paths := make([]string, len(s.schedule))
		for i, sourceIndex := range s.schedule {
			paths[i] = c.graph.Modules[sourceIndex].Source.PrettyPath
		}
		trace.Debug("scheduled modules", zap.Strings("order", paths), zap.Int("groups", len(s.groups)))
	}
	return ok
}

func (c *linkerContext) describeCycle(group []uint32) string {
	paths := make([]string, 0, len(group)+1)
	for _, sourceIndex := range group {
		paths = append(paths, fmt.Sprintf("%q", c.graph.Modules[sourceIndex].Source.PrettyPath))
	}
	paths = append(paths, paths[0])
	return strings.Join(paths, " -> ")
}
