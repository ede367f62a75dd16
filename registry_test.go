package jinhx

import (
	"reflect"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassRegistry(t *testing.T) {
	var logs syncBuffer
	reg := NewClassRegistry(slogTo(&logs))

	class := RegisterIn[Button](reg)
	assert.Equal(t, "Button", class.Name)
	assert.Equal(t, reflect.TypeOf(Button{}), class.Type)
	assert.NotEmpty(t, class.Dir, "class directory comes from the caller")
	assert.Equal(t, []string{"id", "css", "js", "html", "text"}, class.Fields())

	got, ok := reg.Get("Button")
	require.True(t, ok)
	assert.Same(t, class, got)

	byType, ok := reg.Lookup(reflect.TypeOf(&Button{}))
	require.True(t, ok)
	assert.Same(t, class, byType)

	_, ok = reg.Get("Card")
	assert.False(t, ok)
	assert.Equal(t, 1, reg.Len())
	assert.Empty(t, logs.String())
}

func TestClassRegistryOverwriteWarns(t *testing.T) {
	var logs syncBuffer
	reg := NewClassRegistry(slogTo(&logs))

	RegisterIn[Button](reg)
	second := RegisterIn[Panel](reg, WithName("Button"))

	got, _ := reg.Get("Button")
	assert.Same(t, second, got)
	assert.Contains(t, logs.String(), "component class overwritten")

	_, ok := reg.Lookup(reflect.TypeOf(Button{}))
	assert.False(t, ok, "overwritten type no longer resolves")
}

func TestClassRegistrySnapshotAndClear(t *testing.T) {
	reg := NewClassRegistry(discardLogger())
	RegisterIn[Button](reg)

	snap := reg.Classes()
	RegisterIn[Card](reg)
	assert.Len(t, snap, 1, "snapshot is not affected by later registrations")
	assert.Equal(t, 2, reg.Len())

	reg.Clear()
	assert.Equal(t, 0, reg.Len())
	assert.Len(t, snap, 1)
}

func TestClassRegistryConcurrentReads(t *testing.T) {
	reg := NewClassRegistry(discardLogger())
	RegisterIn[Button](reg)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, ok := reg.Get("Button"); !ok {
					t.Error("Button vanished")
					return
				}
			}
		}()
		go func() {
			defer wg.Done()
			RegisterIn[Card](reg)
		}()
	}
	wg.Wait()
}

func TestNewClass(t *testing.T) {
	tests := []struct {
		name    string
		typ     reflect.Type
		opts    []ClassOption
		wantErr bool
	}{
		{"struct", reflect.TypeOf(Button{}), nil, false},
		{"pointer", reflect.TypeOf(&Button{}), nil, false},
		{"not a struct", reflect.TypeOf(0), nil, true},
		{"no base", reflect.TypeOf(struct{ X int }{}), []ClassOption{WithName("X")}, true},
		{"anonymous", reflect.TypeOf(struct{ Base }{}), nil, true},
		{"anonymous named", reflect.TypeOf(struct{ Base }{}), []ClassOption{WithName("Anon")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClass(tt.typ, "", tt.opts...)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewClass() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestClassNew(t *testing.T) {
	reg := NewClassRegistry(discardLogger())
	class := RegisterIn[Counter](reg)

	c, err := class.New(map[string]any{"id": "c", "count": "4", "extra": "x"})
	require.NoError(t, err)
	counter := c.(*Counter)
	assert.Equal(t, 4, counter.Count)
	v, ok := counter.Extra.Get("extra")
	assert.True(t, ok)
	assert.Equal(t, "x", v)

	_, err = class.New(map[string]any{"count": "4"})
	assert.True(t, IsValidation(err))
}
