package kite

import (
	"reflect"
)

// Typed queries over the ECS. A query walks every archetype containing the
// requested components and invokes the mapper per entity; returning false
// from the mapper stops the iteration. Components listed as optionals may be
// absent, in which case their pointer is nil.
type Query1[A any] struct{ ecs *Ecs }
type Query2[A, B any] struct{ ecs *Ecs }
type Query3[A, B, C any] struct{ ecs *Ecs }
type Query4[A, B, C, D any] struct{ ecs *Ecs }

func MakeQuery1[A any](cmd *Commands) Query1[A]             { return Query1[A]{ecs: cmd.app.ecs} }
func MakeQuery2[A, B any](cmd *Commands) Query2[A, B]       { return Query2[A, B]{ecs: cmd.app.ecs} }
func MakeQuery3[A, B, C any](cmd *Commands) Query3[A, B, C] { return Query3[A, B, C]{ecs: cmd.app.ecs} }
func MakeQuery4[A, B, C, D any](cmd *Commands) Query4[A, B, C, D] {
	return Query4[A, B, C, D]{ecs: cmd.app.ecs}
}

func (q Query1[A]) Map(m func(EntityId, *A) bool, optionals ...any) {
	id1 := identifyComponents1[A](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.archetypes {
		comps1, no_a, ok := archetypeColumn[A](arch, id1, opt)
		if !ok {
			continue
		}

		for entityId, row := range arch.entities {
			if !m(entityId, columnPtr(comps1, row, no_a)) {
				return
			}
		}
	}
}

func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool, optionals ...any) {
	id1, id2 := identifyComponents2[A, B](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.archetypes {
		comps1, no_a, ok := archetypeColumn[A](arch, id1, opt)
		if !ok {
			continue
		}
		comps2, no_b, ok := archetypeColumn[B](arch, id2, opt)
		if !ok {
			continue
		}

		for entityId, row := range arch.entities {
			if !m(entityId, columnPtr(comps1, row, no_a), columnPtr(comps2, row, no_b)) {
				return
			}
		}
	}
}

func (q Query3[A, B, C]) Map(m func(EntityId, *A, *B, *C) bool, optionals ...any) {
	id1, id2, id3 := identifyComponents3[A, B, C](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.archetypes {
		comps1, no_a, ok := archetypeColumn[A](arch, id1, opt)
		if !ok {
			continue
		}
		comps2, no_b, ok := archetypeColumn[B](arch, id2, opt)
		if !ok {
			continue
		}
		comps3, no_c, ok := archetypeColumn[C](arch, id3, opt)
		if !ok {
			continue
		}

		for entityId, row := range arch.entities {
			if !m(entityId, columnPtr(comps1, row, no_a), columnPtr(comps2, row, no_b), columnPtr(comps3, row, no_c)) {
				return
			}
		}
	}
}

func (q Query4[A, B, C, D]) Map(m func(EntityId, *A, *B, *C, *D) bool, optionals ...any) {
	id1, id2, id3, id4 := identifyComponents4[A, B, C, D](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.archetypes {
		comps1, no_a, ok := archetypeColumn[A](arch, id1, opt)
		if !ok {
			continue
		}
		comps2, no_b, ok := archetypeColumn[B](arch, id2, opt)
		if !ok {
			continue
		}
		comps3, no_c, ok := archetypeColumn[C](arch, id3, opt)
		if !ok {
			continue
		}
		comps4, no_d, ok := archetypeColumn[D](arch, id4, opt)
		if !ok {
			continue
		}

		for entityId, row := range arch.entities {
			if !m(entityId, columnPtr(comps1, row, no_a), columnPtr(comps2, row, no_b), columnPtr(comps3, row, no_c), columnPtr(comps4, row, no_d)) {
				return
			}
		}
	}
}

// archetypeColumn resolves the component slice for one query parameter.
// Returns ok=false when the archetype lacks a required component; missing
// declares whether the component was absent but optional.
func archetypeColumn[T any](arch *archetype, id componentId, opt set[componentId]) (comps []T, missing bool, ok bool) {
	if compData, found := arch.componentData[id]; found {
		return compData.([]T), false, true
	}
	if _, optional := opt[id]; optional {
		return nil, true, true
	}
	return nil, false, false
}

func columnPtr[T any](comps []T, r row, missing bool) *T {
	if missing {
		return nil
	}
	return &comps[r]
}

func identifyOptionals(ecs *Ecs, components ...any) set[componentId] {
	res := make(set[componentId])
	for _, c := range components {
		res[ecs.getComponentId(reflect.TypeOf(c))] = struct{}{}
	}

	return res
}

func identifyComponents1[A any](ecs *Ecs) componentId {
	var a A
	return ecs.getComponentId(reflect.TypeOf(a))
}

func identifyComponents2[A, B any](ecs *Ecs) (componentId, componentId) {
	var a A
	var b B
	return ecs.getComponentId(reflect.TypeOf(a)), ecs.getComponentId(reflect.TypeOf(b))
}

func identifyComponents3[A, B, C any](ecs *Ecs) (componentId, componentId, componentId) {
	var a A
	var b B
	var c C
	return ecs.getComponentId(reflect.TypeOf(a)), ecs.getComponentId(reflect.TypeOf(b)), ecs.getComponentId(reflect.TypeOf(c))
}

func identifyComponents4[A, B, C, D any](ecs *Ecs) (componentId, componentId, componentId, componentId) {
	var a A
	var b B
	var c C
	var d D
	return ecs.getComponentId(reflect.TypeOf(a)), ecs.getComponentId(reflect.TypeOf(b)), ecs.getComponentId(reflect.TypeOf(c)), ecs.getComponentId(reflect.TypeOf(d))
}
