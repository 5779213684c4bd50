package component

// Parent links an entity to the entity "parent." references resolve to.
type Parent struct {
	Entity uint64 // ecs.Entity
}

var ParentComponent = NewComponent[Parent]("parent")
