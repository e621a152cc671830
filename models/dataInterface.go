package models

// Data is implemented by models that can be batch-loaded by id.
type Data interface {
	GetId() int
	GetDefault(id int) interface{}
}
