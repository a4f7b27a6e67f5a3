package pixelcam

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"reflect"
	"slices"
	"sync"
)

type EntityId uint64
type archetypeId uint64
type archetypeKey []componentId
type componentId uint32
type row int
type set[T comparable] = map[T]struct{}

// Ecs stores components in archetypes: one typed slice per component type,
// one row per entity.
type Ecs struct {
	archetypes  map[archetypeId]*archetype
	entityIndex map[EntityId]archetypeId

	idGeneratorLock sync.Mutex
	entityIdCounter EntityId

	componentIdCounterLock sync.Mutex
	componentIdCounter     componentId
	componentTypeIdMap     map[reflect.Type]componentId
	componentIdTypeMap     map[componentId]reflect.Type
}

func MakeEcs() Ecs {
	return Ecs{
		archetypes:         make(map[archetypeId]*archetype),
		entityIndex:        make(map[EntityId]archetypeId),
		componentTypeIdMap: make(map[reflect.Type]componentId),
		componentIdTypeMap: make(map[componentId]reflect.Type),
	}
}

type archetype struct {
	id            archetypeId
	key           archetypeKey
	entities      map[EntityId]row
	componentData map[componentId]any // []T per component
	rows          int
	recycled      []row
}

func (ecs *Ecs) alive(entityId EntityId) bool {
	_, ok := ecs.entityIndex[entityId]
	return ok
}

func (ecs *Ecs) EntityCount() int {
	return len(ecs.entityIndex)
}

func (ecs *Ecs) addEntity(components ...any) EntityId {
	return ecs.insertEntity(ecs.nextEntityId(), components...)
}

func (ecs *Ecs) insertEntity(entityId EntityId, components ...any) EntityId {
	arch := ecs.getOrMakeArchetype(ecs.getArchetypeKey(components...))

	r := ecs.archetypeReserveRow(arch)
	arch.entities[entityId] = r
	for _, component := range components {
		ecs.writeComponent(arch, r, component)
	}
	ecs.entityIndex[entityId] = arch.id
	return entityId
}

func (ecs *Ecs) removeEntity(entityId EntityId) {
	ecs.releaseRow(entityId)
}

func (ecs *Ecs) addComponents(entityId EntityId, components ...any) {
	src := ecs.archetypes[ecs.entityIndex[entityId]]
	srcRow := src.entities[entityId]

	dst := ecs.getOrMakeArchetype(combineArchetypeKeys(src.key, ecs.getArchetypeKey(components...)))
	if dst == src {
		for _, component := range components {
			ecs.writeComponent(src, srcRow, component)
		}
		return
	}
	dstRow := ecs.archetypeReserveRow(dst)

	ecs.moveComponents(src, srcRow, dst, dstRow)
	for _, component := range components {
		ecs.writeComponent(dst, dstRow, component)
	}
	ecs.releaseRow(entityId)

	dst.entities[entityId] = dstRow
	ecs.entityIndex[entityId] = dst.id
}

func (ecs *Ecs) removeComponents(entityId EntityId, components ...any) {
	src := ecs.archetypes[ecs.entityIndex[entityId]]
	srcRow := src.entities[entityId]

	remove := make(set[componentId])
	for _, c := range components {
		remove[ecs.getComponentId(componentType(c))] = struct{}{}
	}
	var dstKey archetypeKey
	for _, id := range src.key {
		if _, drop := remove[id]; !drop {
			dstKey = append(dstKey, id)
		}
	}
	dst := ecs.getOrMakeArchetype(dstKey)
	if dst == src {
		return
	}
	dstRow := ecs.archetypeReserveRow(dst)

	ecs.moveComponents(src, srcRow, dst, dstRow)
	ecs.releaseRow(entityId)

	dst.entities[entityId] = dstRow
	ecs.entityIndex[entityId] = dst.id
}

// moveComponents copies the components both archetypes share.
func (ecs *Ecs) moveComponents(src *archetype, srcRow row, dst *archetype, dstRow row) {
	for _, id := range src.key {
		dstData, ok := dst.componentData[id]
		if !ok {
			continue
		}
		reflectSliceSet(dstData, int(dstRow), reflectSliceGet(src.componentData[id], int(srcRow)))
	}
}

func componentType(component any) reflect.Type {
	t := reflect.TypeOf(component)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		panic(fmt.Errorf("expected component to be a struct or a pointer to a struct, got %s", t))
	}
	return t
}

func (ecs *Ecs) writeComponent(dst *archetype, dstRow row, component any) {
	t := componentType(component)
	v := reflect.ValueOf(component)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	reflectSliceSet(dst.componentData[ecs.getComponentId(t)], int(dstRow), v)
}

// releaseRow detaches the entity from its archetype and zeroes the row so
// stale values never leak into the next entity that reuses it.
func (ecs *Ecs) releaseRow(entityId EntityId) {
	arch := ecs.archetypes[ecs.entityIndex[entityId]]
	r := arch.entities[entityId]
	for _, id := range arch.key {
		reflectSliceSet(arch.componentData[id], int(r), reflect.Zero(ecs.componentIdTypeMap[id]))
	}
	arch.recycled = append(arch.recycled, r)

	delete(arch.entities, entityId)
	delete(ecs.entityIndex, entityId)
}

func (ecs *Ecs) getOrMakeArchetype(key archetypeKey) *archetype {
	id := getArchetypeId(key)
	if arch, ok := ecs.archetypes[id]; ok {
		return arch
	}

	arch := &archetype{
		id:            id,
		key:           key,
		entities:      make(map[EntityId]row),
		componentData: make(map[componentId]any, len(key)),
	}
	for _, cid := range key {
		arch.componentData[cid] = reflectSliceMake(ecs.componentIdTypeMap[cid])
	}
	ecs.archetypes[id] = arch
	return arch
}

func (ecs *Ecs) archetypeReserveRow(arch *archetype) row {
	if n := len(arch.recycled); n > 0 {
		r := arch.recycled[n-1]
		arch.recycled = arch.recycled[:n-1]
		return r
	}

	r := row(arch.rows)
	arch.rows++
	for _, cid := range arch.key {
		arch.componentData[cid] = reflectSliceAppend(arch.componentData[cid], reflect.Zero(ecs.componentIdTypeMap[cid]))
	}
	return r
}

// getArchetypeKey is the sorted, deduplicated list of component ids. The
// archetype id is a hash of it.
func (ecs *Ecs) getArchetypeKey(components ...any) archetypeKey {
	res := make(archetypeKey, 0, len(components))
	for _, component := range components {
		res = append(res, ecs.getComponentId(componentType(component)))
	}
	return dedupAndSortArchetypeKey(res)
}

func combineArchetypeKeys(a archetypeKey, b archetypeKey) archetypeKey {
	return dedupAndSortArchetypeKey(append(slices.Clone(a), b...))
}

func dedupAndSortArchetypeKey(key archetypeKey) archetypeKey {
	res := slices.Clone(key)
	slices.Sort(res)
	return slices.Compact(res)
}

func getArchetypeId(key archetypeKey) archetypeId {
	hash := fnv.New64a()
	var b [8]byte
	for _, cid := range key {
		binary.LittleEndian.PutUint64(b[:], uint64(cid))
		hash.Write(b[:])
	}
	return archetypeId(hash.Sum64())
}

func (ecs *Ecs) nextEntityId() EntityId {
	ecs.idGeneratorLock.Lock()
	defer ecs.idGeneratorLock.Unlock()

	id := ecs.entityIdCounter
	ecs.entityIdCounter++
	return id
}

func (ecs *Ecs) getComponentId(t reflect.Type) componentId {
	ecs.componentIdCounterLock.Lock()
	defer ecs.componentIdCounterLock.Unlock()

	if id, ok := ecs.componentTypeIdMap[t]; ok {
		return id
	}
	id := ecs.componentIdCounter
	ecs.componentIdCounter++
	ecs.componentTypeIdMap[t] = id
	ecs.componentIdTypeMap[id] = t
	return id
}

func reflectSliceMake(elem reflect.Type) any {
	return reflect.MakeSlice(reflect.SliceOf(elem), 0, 1).Interface()
}

func reflectSliceGet(slice any, idx int) reflect.Value {
	return reflect.ValueOf(slice).Index(idx)
}

func reflectSliceSet(slice any, idx int, val reflect.Value) {
	reflect.ValueOf(slice).Index(idx).Set(val)
}

func reflectSliceAppend(slice any, val reflect.Value) any {
	return reflect.Append(reflect.ValueOf(slice), val).Interface()
}
