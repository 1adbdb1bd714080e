package dbconn

import (
	"errors"
	"reflect"
)

type MockGormWrapper interface {
	GormWrapper
	Created() []interface{}
	Migrated() []interface{}
	Updates() []Update
	Chain() *queryChain
	Closed() bool
	SetError(error) MockGormWrapper
	SetResult(interface{}) MockGormWrapper
}

// Update records a single column update made through the mock.
type Update struct {
	Model  interface{}
	Where  whereQuery
	Column string
	Value  interface{}
}

type mockGormWrapper struct {
	error    error
	created  []interface{}
	migrated []interface{}
	updates  []Update
	model    interface{}
	chain    *queryChain
	result   interface{}
	closed   bool
}

type queryChain struct {
	Where whereQuery
	Order interface{}
}

type whereQuery struct {
	Query interface{}
	Args  []interface{}
	First firstSelect
}

type firstSelect struct {
	Conds []interface{}
}

func Mock() MockGormWrapper {
	return &mockGormWrapper{}
}

func (w *mockGormWrapper) Created() []interface{} {
	return w.created
}

func (w *mockGormWrapper) Migrated() []interface{} {
	return w.migrated
}

func (w *mockGormWrapper) Updates() []Update {
	return w.updates
}

func (w *mockGormWrapper) Chain() *queryChain {
	return w.chain
}

func (w *mockGormWrapper) Closed() bool {
	return w.closed
}

func (w *mockGormWrapper) SetError(e error) MockGormWrapper {
	w.error = e
	return w
}

func (w *mockGormWrapper) SetResult(r interface{}) MockGormWrapper {
	w.result = r
	return w
}

func (w *mockGormWrapper) Error() error {
	return w.error
}

func (w *mockGormWrapper) AutoMigrate(dst ...interface{}) error {
	if w.error != nil {
		return w.error
	}
	w.migrated = append(w.migrated, dst...)
	return nil
}

func (w *mockGormWrapper) Create(value interface{}) GormWrapper {
	if w.error == nil {
		w.created = append(w.created, value)
	}
	return w
}

func (w *mockGormWrapper) Model(value interface{}) GormWrapper {
	w.model = value
	return w
}

func (w *mockGormWrapper) Where(query interface{}, args ...interface{}) GormWrapper {
	w.chain = &queryChain{
		Where: whereQuery{
			Query: query,
			Args:  args,
		},
	}
	return w
}

func (w *mockGormWrapper) Order(value interface{}) GormWrapper {
	if w.chain == nil {
		w.chain = &queryChain{}
	}
	w.chain.Order = value
	return w
}

func (w *mockGormWrapper) First(dest interface{}, conds ...interface{}) GormWrapper {
	if w.chain == nil {
		w.error = errors.New("need to call query first")
		return w
	}

	w.chain.Where.First = firstSelect{conds}
	if w.error != nil {
		return w
	}
	if w.result == nil {
		w.error = errors.New("record not found")
		return w
	}
	w.error = Replace(dest, w.result)
	return w
}

func (w *mockGormWrapper) Find(dest interface{}, conds ...interface{}) GormWrapper {
	if w.chain == nil {
		w.chain = &queryChain{}
	}
	w.chain.Where.First = firstSelect{conds}
	if w.error != nil || w.result == nil {
		return w
	}
	w.error = Replace(dest, w.result)
	return w
}

func (w *mockGormWrapper) Update(column string, value interface{}) GormWrapper {
	if w.error != nil {
		return w
	}
	u := Update{Model: w.model, Column: column, Value: value}
	if w.chain != nil {
		u.Where = w.chain.Where
	}
	w.updates = append(w.updates, u)
	return w
}

func (w *mockGormWrapper) Close() error {
	w.closed = true
	return nil
}

func Replace(i, v interface{}) error {
	val := reflect.ValueOf(i)
	if val.Kind() != reflect.Ptr {
		return errors.New("not a pointer")
	}

	val = val.Elem()

	newVal := reflect.Indirect(reflect.ValueOf(v))

	if !val.Type().AssignableTo(newVal.Type()) {
		return errors.New("mismatched types")
	}

	val.Set(newVal)
	return nil
}
