package pixelcam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery_Map(t *testing.T) {
	type Comp1 struct{ a int }
	type Comp2 struct{ b float32 }
	type Comp3 struct{}

	ecs := MakeEcs()
	ecs.addEntity(Comp1{a: 1})                                 // comp1 only                      -- no match
	id2 := ecs.addEntity(Comp1{a: 2}, Comp2{b: 1.37})          // comp1 & comp2                   -- match
	id3 := ecs.addEntity(Comp1{a: 3}, Comp2{b: 4.20}, Comp3{}) // comp1 & comp2 + something extra -- match
	ecs.addEntity(Comp1{a: 4}, Comp3{})                        // comp1 + something extra         -- no match
	ecs.addEntity(Comp2{b: 3.14})                              // comp2 only                      -- no match

	got := map[EntityId]int{}
	Query2[Comp1, Comp2]{ecs: &ecs}.Map(func(eid EntityId, c1 *Comp1, c2 *Comp2) bool {
		got[eid] = c1.a
		return true
	})
	assert.Equal(t, map[EntityId]int{id2: 2, id3: 3}, got)
}

func TestQuery_MapWritesThrough(t *testing.T) {
	ecs := MakeEcs()
	eid := ecs.addEntity(position{1, 1})
	q := Query1[position]{ecs: &ecs}

	q.Map(func(_ EntityId, p *position) bool {
		p.x = 10
		return true
	})
	_, p, err := q.Single()
	require.NoError(t, err)
	assert.Equal(t, position{10, 1}, *p)
	assert.True(t, ecs.alive(eid))
}

func TestQuery_Optionals(t *testing.T) {
	ecs := MakeEcs()
	withVel := ecs.addEntity(position{1, 1}, velocity{2, 2})
	without := ecs.addEntity(position{3, 3})

	seen := map[EntityId]bool{}
	Query2[position, velocity]{ecs: &ecs}.Map(func(eid EntityId, p *position, v *velocity) bool {
		seen[eid] = v != nil
		return true
	}, velocity{})

	assert.Equal(t, map[EntityId]bool{withVel: true, without: false}, seen)
}

func TestQuery_MapStops(t *testing.T) {
	ecs := MakeEcs()
	for i := 0; i < 5; i++ {
		ecs.addEntity(position{float32(i), 0})
	}
	calls := 0
	Query1[position]{ecs: &ecs}.Map(func(EntityId, *position) bool {
		calls++
		return false
	})
	assert.Equal(t, 1, calls)
}

func TestQuery_Single(t *testing.T) {
	ecs := MakeEcs()
	q := Query2[position, velocity]{ecs: &ecs}

	_, _, _, err := q.Single()
	assert.ErrorIs(t, err, ErrNoEntity)

	eid := ecs.addEntity(position{1, 2}, velocity{3, 4})
	got, p, v, err := q.Single()
	require.NoError(t, err)
	assert.Equal(t, eid, got)
	assert.Equal(t, position{1, 2}, *p)
	assert.Equal(t, velocity{3, 4}, *v)

	ecs.addEntity(position{5, 6}, velocity{7, 8}, tag{})
	_, _, _, err = q.Single()
	assert.ErrorIs(t, err, ErrMultipleEntities)
}

func TestQuery_FourComponents(t *testing.T) {
	type extra struct{ n int }
	ecs := MakeEcs()
	ecs.addEntity(position{}, velocity{}, tag{}, extra{n: 7})
	ecs.addEntity(position{}, velocity{}, tag{})

	var ns []int
	Query4[position, velocity, tag, extra]{ecs: &ecs}.Map(func(_ EntityId, _ *position, _ *velocity, _ *tag, e *extra) bool {
		ns = append(ns, e.n)
		return true
	})
	assert.Equal(t, []int{7}, ns)
}
