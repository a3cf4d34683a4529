package stockpile

import (
	"fmt"
	"reflect"
)

type LockedStorageError struct{}

func (e LockedStorageError) Error() string {
	return "storage is currently locked"
}

type SchemaCapacityError struct {
	Type  reflect.Type
	Limit int
}

func (e SchemaCapacityError) Error() string {
	return fmt.Sprintf("cannot register component %v: schema at maximum capacity (%d)", e.Type, e.Limit)
}

type UnknownEntityError struct {
	Entity Entity
}

func (e UnknownEntityError) Error() string {
	return fmt.Sprintf("entity has no recorded location: %v", e.Entity)
}

type EntityExistsError struct {
	Entity Entity
}

func (e EntityExistsError) Error() string {
	return fmt.Sprintf("entity already has a recorded location: %v", e.Entity)
}

type ComponentExistsError struct {
	Type TypeID
}

func (e ComponentExistsError) Error() string {
	return fmt.Sprintf("component already exists on entity: type %d", e.Type)
}

type ComponentNotFoundError struct {
	Type TypeID
}

func (e ComponentNotFoundError) Error() string {
	return fmt.Sprintf("component does not exist on entity: type %d", e.Type)
}
