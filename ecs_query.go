package pixelcam

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrNoEntity         = errors.New("pixelcam: no matching entity")
	ErrMultipleEntities = errors.New("pixelcam: more than one matching entity")
)

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

// column resolves one query argument against an archetype. ok is false when
// the archetype lacks a required component; a missing optional component
// yields a nil slice.
func column[T any](arch *archetype, id componentId, opt set[componentId]) (comps []T, ok bool) {
	if data, found := arch.componentData[id]; found {
		return data.([]T), true
	}
	if _, optional := opt[id]; optional {
		return nil, true
	}
	return nil, false
}

func at[T any](comps []T, r row) *T {
	if comps == nil {
		return nil
	}
	return &comps[r]
}

func componentIdOf[T any](ecs *Ecs) componentId {
	return ecs.getComponentId(reflect.TypeOf((*T)(nil)).Elem())
}

// identifyOptionals takes zero values of the optional component types.
func identifyOptionals(ecs *Ecs, components ...any) set[componentId] {
	res := make(set[componentId])
	for _, c := range components {
		res[ecs.getComponentId(componentType(c))] = struct{}{}
	}
	return res
}

// Map calls m for every entity with an A. Returning false stops the walk.
func (q Query1[A]) Map(m func(EntityId, *A) bool, optionals ...any) {
	id1 := componentIdOf[A](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.archetypes {
		c1, ok := column[A](arch, id1, opt)
		if !ok {
			continue
		}
		for entityId, r := range arch.entities {
			if !m(entityId, at(c1, r)) {
				return
			}
		}
	}
}

func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool, optionals ...any) {
	id1, id2 := componentIdOf[A](q.ecs), componentIdOf[B](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.archetypes {
		c1, ok1 := column[A](arch, id1, opt)
		c2, ok2 := column[B](arch, id2, opt)
		if !ok1 || !ok2 {
			continue
		}
		for entityId, r := range arch.entities {
			if !m(entityId, at(c1, r), at(c2, r)) {
				return
			}
		}
	}
}

func (q Query3[A, B, C]) Map(m func(EntityId, *A, *B, *C) bool, optionals ...any) {
	id1, id2, id3 := componentIdOf[A](q.ecs), componentIdOf[B](q.ecs), componentIdOf[C](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.archetypes {
		c1, ok1 := column[A](arch, id1, opt)
		c2, ok2 := column[B](arch, id2, opt)
		c3, ok3 := column[C](arch, id3, opt)
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		for entityId, r := range arch.entities {
			if !m(entityId, at(c1, r), at(c2, r), at(c3, r)) {
				return
			}
		}
	}
}

func (q Query4[A, B, C, D]) Map(m func(EntityId, *A, *B, *C, *D) bool, optionals ...any) {
	id1, id2 := componentIdOf[A](q.ecs), componentIdOf[B](q.ecs)
	id3, id4 := componentIdOf[C](q.ecs), componentIdOf[D](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.archetypes {
		c1, ok1 := column[A](arch, id1, opt)
		c2, ok2 := column[B](arch, id2, opt)
		c3, ok3 := column[C](arch, id3, opt)
		c4, ok4 := column[D](arch, id4, opt)
		if !ok1 || !ok2 || !ok3 || !ok4 {
			continue
		}
		for entityId, r := range arch.entities {
			if !m(entityId, at(c1, r), at(c2, r), at(c3, r), at(c4, r)) {
				return
			}
		}
	}
}

// Single returns the only entity with an A.
func (q Query1[A]) Single() (EntityId, *A, error) {
	var (
		id    EntityId
		a     *A
		count int
	)
	q.Map(func(eid EntityId, ca *A) bool {
		count++
		id, a = eid, ca
		return count < 2
	})
	if err := singleErr[A](count); err != nil {
		return 0, nil, err
	}
	return id, a, nil
}

// Single returns the only entity with both an A and a B.
func (q Query2[A, B]) Single() (EntityId, *A, *B, error) {
	var (
		id    EntityId
		a     *A
		b     *B
		count int
	)
	q.Map(func(eid EntityId, ca *A, cb *B) bool {
		count++
		id, a, b = eid, ca, cb
		return count < 2
	})
	if err := singleErr[A](count); err != nil {
		return 0, nil, nil, err
	}
	return id, a, b, nil
}

func singleErr[A any](count int) error {
	name := reflect.TypeOf((*A)(nil)).Elem().Name()
	switch {
	case count == 0:
		return fmt.Errorf("%w: %s", ErrNoEntity, name)
	case count > 1:
		return fmt.Errorf("%w: %s", ErrMultipleEntities, name)
	}
	return nil
}
