package stockpile

type factory struct{}

var Factory factory

func (f factory) NewSchema() *Schema {
	return newSchema()
}

func (f factory) NewStorage(schema *Schema) *Storage {
	return newStorage(schema)
}

func (f factory) NewQuery() *Query {
	return newQuery()
}

func (f factory) NewCursor(query *Query, storage *Storage, last, current Tick) *Cursor {
	return newCursor(query, storage, last, current)
}
